package docstore

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/core/common"
	"github.com/Malowking/docchat/core/extract"
	"github.com/Malowking/docchat/core/file_store"
)

// watchDebounce 目录事件触发同步前的静默窗口
const watchDebounce = 500 * time.Millisecond

// Sync 使内存状态与文档目录一致。磁盘上已消失的文档被移除,
// 新出现的受支持文件被登记并调度提取。
func (s *Store) Sync(ctx context.Context) (added, removed []string, err error) {
	files, err := s.files.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	existing := make(map[string]file_store.DocFile, len(files))
	for _, f := range files {
		if !extract.Supported(f.Filename) {
			continue
		}
		existing[file_store.DocKey(f.Project, f.Filename)] = f
	}

	var toSchedule []string
	s.mu.Lock()
	for key := range s.docs {
		if _, ok := existing[key]; !ok {
			delete(s.docs, key)
			removed = append(removed, key)
		}
	}
	for key, f := range existing {
		if _, ok := s.docs[key]; ok {
			continue
		}
		s.docs[key] = &Document{
			Key:        key,
			Project:    f.Project,
			Filename:   f.Filename,
			Path:       f.Path,
			Status:     StatusPending,
			UploadedAt: time.Now(),
		}
		added = append(added, key)
		toSchedule = append(toSchedule, key)
	}
	s.mu.Unlock()

	sort.Strings(added)
	sort.Strings(removed)
	if len(removed) > 0 {
		g.Log().Infof(ctx, "Removed %d documents no longer on disk: %v", len(removed), removed)
	}
	if len(added) > 0 {
		g.Log().Infof(ctx, "Found %d new documents to process: %v", len(added), added)
	}
	for _, key := range toSchedule {
		s.Schedule(key)
	}
	return added, removed, nil
}

// watch 监听文档目录与项目子目录,事件去抖后触发同步
func (s *Store) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	dirs := []string{s.files.Dir(), filepath.Join(s.files.Dir(), "projects")}
	projects, _ := s.files.ProjectNames()
	for _, p := range projects {
		dirs = append(dirs, s.files.ProjectDir(p))
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			g.Log().Warningf(ctx, "Failed to watch %s: %v", dir, err)
		}
	}

	s.wg.Add(1)
	common.SafeGo(ctx, "document-watcher", s.watchLoop)
	g.Log().Infof(ctx, "Watching document directory %s", s.files.Dir())
	return nil
}

func (s *Store) watchLoop() {
	defer s.wg.Done()

	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	armed := false

	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			// 新建的项目目录加入监听
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = s.watcher.Add(event.Name)
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				if armed && !debounce.Stop() {
					<-debounce.C
				}
				debounce.Reset(watchDebounce)
				armed = true
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			g.Log().Warningf(s.ctx, "Document watcher error: %v", err)
		case <-debounce.C:
			armed = false
			if _, _, err := s.Sync(s.ctx); err != nil {
				g.Log().Warningf(s.ctx, "Document sync failed: %v", err)
			}
		}
	}
}
