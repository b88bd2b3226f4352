package docstore

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/core/common"
	"github.com/Malowking/docchat/core/errors"
	"github.com/Malowking/docchat/core/extract"
	"github.com/Malowking/docchat/core/file_store"
)

// Status 文档处理状态
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Document 一个被跟踪文档的处理状态与提取内容
type Document struct {
	Key        string    `json:"key"`
	Project    string    `json:"project,omitempty"`
	Filename   string    `json:"filename"`
	Path       string    `json:"-"`
	Status     Status    `json:"status"`
	Progress   int       `json:"progress"`
	Error      string    `json:"error,omitempty"`
	Content    string    `json:"-"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Extractor 提取文档文本的能力
type Extractor interface {
	File(ctx context.Context, path string) (string, error)
}

// Config 后台处理配置
type Config struct {
	Workers   int // 默认 2
	QueueSize int // 默认 100
}

// Store 进程级文档仓库。持有全部已提取文本与处理状态,
// 后台 worker 池消费提取任务。
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document

	files     *file_store.Store
	extractor Extractor

	tasks   chan string
	workers int
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	watcher *fsnotify.Watcher
}

// Default 全局文档仓库，Init 后可用
var Default *Store

// Init 初始化全局文档仓库并启动后台处理
func Init(ctx context.Context) error {
	store := New(file_store.Default, extract.Default, Config{})
	if err := store.Start(ctx); err != nil {
		return err
	}
	Default = store
	return nil
}

// New 创建文档仓库
func New(files *file_store.Store, extractor Extractor, cfg Config) *Store {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		docs:      make(map[string]*Document),
		files:     files,
		extractor: extractor,
		tasks:     make(chan string, cfg.QueueSize),
		workers:   cfg.Workers,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start 启动 worker 池,执行启动同步,并开始监听文档目录
func (s *Store) Start(ctx context.Context) error {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	if _, _, err := s.Sync(ctx); err != nil {
		return err
	}
	if err := s.watch(ctx); err != nil {
		g.Log().Warningf(ctx, "Document watcher disabled: %v", err)
	}
	return nil
}

// Shutdown 停止目录监听与 worker 池
func (s *Store) Shutdown() {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	s.cancel()
	close(s.tasks)
	s.wg.Wait()
}

func (s *Store) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case key, ok := <-s.tasks:
			if !ok {
				return
			}
			s.runExtract(key)
		}
	}
}

// runExtract 执行单个提取任务。解析器 panic 时记录并存活,
// 文档停留在 processing 状态,可通过重试接口恢复。
func (s *Store) runExtract(key string) {
	defer common.RecoverPanic(s.ctx, "extract-"+key)
	s.process(s.ctx, key)
}

// Track 登记一个新文档并置为待处理状态,返回文档键
func (s *Store) Track(project, filename, path string) string {
	key := file_store.DocKey(project, filename)
	doc := &Document{
		Key:        key,
		Project:    project,
		Filename:   filename,
		Path:       path,
		Status:     StatusPending,
		UploadedAt: time.Now(),
	}
	s.mu.Lock()
	s.docs[key] = doc
	s.mu.Unlock()
	return key
}

// Schedule 将文档送入后台提取队列。队列满时退化为独立 goroutine。
func (s *Store) Schedule(key string) {
	select {
	case s.tasks <- key:
	default:
		g.Log().Warningf(s.ctx, "Processing queue is full, extracting %s in a dedicated goroutine", key)
		s.wg.Add(1)
		common.SafeGo(s.ctx, "extract-"+key, func() {
			defer s.wg.Done()
			s.process(s.ctx, key)
		})
	}
}

// process 提取文档文本并推进状态: 10 -> 80 -> 100
func (s *Store) process(ctx context.Context, key string) {
	path, ok := s.pathFor(key)
	if !ok {
		g.Log().Warningf(ctx, "Skipping unknown document %s", key)
		return
	}

	start := time.Now()
	s.update(key, func(d *Document) {
		d.Status = StatusProcessing
		d.Progress = 10
		d.Error = ""
	})

	text, err := s.extractor.File(ctx, path)
	if err != nil {
		g.Log().Errorf(ctx, "Error processing document %s: %v", key, err)
		s.update(key, func(d *Document) {
			d.Status = StatusError
			d.Error = err.Error()
			d.Progress = 0
		})
		return
	}

	s.update(key, func(d *Document) {
		d.Progress = 80
	})
	s.update(key, func(d *Document) {
		d.Content = text
		d.Progress = 100
		d.Status = StatusCompleted
	})
	g.Log().Infof(ctx, "Document %s processed successfully (%d characters, %.2fs)",
		key, len(text), time.Since(start).Seconds())
}

// Reprocess 同步重新提取文档内容,返回更新后的状态
func (s *Store) Reprocess(ctx context.Context, key string) (Document, error) {
	if _, ok := s.pathFor(key); !ok {
		return Document{}, errors.Newf(errors.ErrDocumentNotFound, "document not found: %s", key)
	}
	s.process(ctx, key)
	doc, _ := s.Get(key)
	if doc.Status == StatusError {
		return doc, errors.Newf(errors.ErrDocumentParseFailed, "failed to reprocess %s: %s", key, doc.Error)
	}
	return doc, nil
}

// Retry 重置文档状态并重新调度后台提取
func (s *Store) Retry(key string) error {
	path, ok := s.pathFor(key)
	if !ok {
		return errors.Newf(errors.ErrDocumentNotFound, "document not found: %s", key)
	}
	if _, err := os.Stat(path); err != nil {
		return errors.Newf(errors.ErrDocumentNotFound, "file not found for %s", key)
	}
	s.update(key, func(d *Document) {
		d.Status = StatusPending
		d.Progress = 0
		d.Error = ""
		d.Content = ""
		d.UploadedAt = time.Now()
	})
	s.Schedule(key)
	return nil
}

// Remove 从仓库移除文档
func (s *Store) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[key]; !ok {
		return false
	}
	delete(s.docs, key)
	return true
}

// EvictProject 移除项目下的全部文档,返回移除数量
func (s *Store) EvictProject(project string) int {
	prefix := project + "/"
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key := range s.docs {
		if strings.HasPrefix(key, prefix) {
			delete(s.docs, key)
			count++
		}
	}
	return count
}

// Rekey 将文档记录迁移到新键(项目间移动后调用)
func (s *Store) Rekey(oldKey, newProject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[oldKey]
	if !ok {
		return
	}
	delete(s.docs, oldKey)
	doc.Project = newProject
	doc.Key = file_store.DocKey(newProject, doc.Filename)
	doc.Path = s.files.DocPath(newProject, doc.Filename)
	s.docs[doc.Key] = doc
}

// Get 返回文档状态副本
func (s *Store) Get(key string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[key]
	if !ok {
		return Document{}, false
	}
	return *doc, true
}

// List 按键序返回全部文档状态副本
func (s *Store) List() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Snapshot 返回已提取完成文档内容的副本,供分块引擎使用。
// 未完成处理的文档不在其中。
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.docs))
	for key, d := range s.docs {
		if d.Status == StatusCompleted {
			out[key] = d.Content
		}
	}
	return out
}

// ProjectDocuments 返回项目下的文档状态副本,project 为空时返回全局文档
func (s *Store) ProjectDocuments(project string) []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Document
	for key, d := range s.docs {
		if project == "" {
			if !strings.Contains(key, "/") {
				out = append(out, *d)
			}
		} else if strings.HasPrefix(key, project+"/") {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (s *Store) pathFor(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[key]
	if !ok {
		return "", false
	}
	return doc.Path, true
}

func (s *Store) update(key string, fn func(*Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[key]; ok {
		fn(doc)
	}
}
