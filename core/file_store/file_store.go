package file_store

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/core/errors"
)

// unsafeFilenameChars 文件名中需要替换的字符
var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SafeFilename 将文件名中的不安全字符替换为下划线
func SafeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_")
}

// FileNameFromURL 从 URL 推导文档名，提取不到时返回默认名。
// 保存的内容是提取出的网页文本，扩展名统一归一为文本类型。
func FileNameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "downloaded_page.html"
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return "downloaded_page.html"
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm", ".txt", ".md":
	default:
		name = strings.TrimSuffix(name, path.Ext(name)) + ".html"
	}
	return SafeFilename(name)
}

// DocFile 文档目录中的一个文件
type DocFile struct {
	Project  string // 所属项目，全局文档为空
	Filename string
	Path     string
	Size     int64
}

// Store 文档文件存储。本地目录为主存储，可选 S3 镜像。
// 目录结构: <root>/ 存放全局文档，<root>/projects/<项目名>/ 存放项目文档。
type Store struct {
	root   string
	mirror *s3Mirror
}

// Default 全局存储实例，Init 后可用
var Default *Store

// New 创建仅本地存储的 Store
func New(root string) *Store {
	return &Store{root: root}
}

// Dir 文档根目录
func (s *Store) Dir() string {
	return s.root
}

// ProjectDir 项目文档目录
func (s *Store) ProjectDir(project string) string {
	return filepath.Join(s.root, "projects", project)
}

// DocPath 文档的本地路径
func (s *Store) DocPath(project, filename string) string {
	if project == "" {
		return filepath.Join(s.root, filename)
	}
	return filepath.Join(s.ProjectDir(project), filename)
}

// objectKey 文档在镜像桶中的对象键
func objectKey(project, filename string) string {
	if project == "" {
		return path.Join("documents", filename)
	}
	return path.Join("documents", project, filename)
}

// EnsureDirectories 创建文档根目录与项目目录
func (s *Store) EnsureDirectories() error {
	for _, dir := range []string{s.root, filepath.Join(s.root, "projects")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Newf(errors.ErrInternalError, "failed to create directory %s: %v", dir, err)
		}
	}
	return nil
}

// Exists 文档是否已存在
func (s *Store) Exists(project, filename string) bool {
	info, err := os.Stat(s.DocPath(project, filename))
	return err == nil && !info.IsDir()
}

// ProjectExists 项目目录是否存在
func (s *Store) ProjectExists(project string) bool {
	info, err := os.Stat(s.ProjectDir(project))
	return err == nil && info.IsDir()
}

// Save 保存文档到本地存储，镜像开启时同步上传。
// 镜像上传失败只记录日志，不影响本地保存结果。
func (s *Store) Save(ctx context.Context, project, filename string, file io.Reader) (string, error) {
	finalPath := s.DocPath(project, filename)
	targetDir := filepath.Dir(finalPath)

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		g.Log().Errorf(ctx, "Failed to create directory %s: %v", targetDir, err)
		return "", errors.Newf(errors.ErrFileUploadFailed, "failed to create directory %s: %v", targetDir, err)
	}

	destFile, err := os.Create(finalPath)
	if err != nil {
		g.Log().Errorf(ctx, "Failed to create file %s: %v", finalPath, err)
		return "", errors.Newf(errors.ErrFileUploadFailed, "failed to create file %s: %v", finalPath, err)
	}
	defer destFile.Close()

	if _, err = io.Copy(destFile, file); err != nil {
		g.Log().Errorf(ctx, "Failed to write file %s: %v", finalPath, err)
		_ = os.Remove(finalPath)
		return "", errors.Newf(errors.ErrFileUploadFailed, "failed to write file %s: %v", finalPath, err)
	}

	g.Log().Infof(ctx, "File saved to local storage: %s", finalPath)

	if s.mirror != nil {
		if err := s.mirror.upload(ctx, finalPath, objectKey(project, filename)); err != nil {
			g.Log().Warningf(ctx, "Mirror upload failed for %s: %v", filename, err)
		}
	}
	return finalPath, nil
}

// Delete 删除本地文档，镜像开启时同步删除对象
func (s *Store) Delete(ctx context.Context, project, filename string) error {
	finalPath := s.DocPath(project, filename)
	if err := os.Remove(finalPath); err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrDocumentNotFound, "document not found: %s", filename)
		}
		return errors.Newf(errors.ErrFileDeleteFailed, "failed to delete file %s: %v", finalPath, err)
	}
	g.Log().Infof(ctx, "Deleted file: %s", finalPath)

	if s.mirror != nil {
		if err := s.mirror.remove(ctx, objectKey(project, filename)); err != nil {
			g.Log().Warningf(ctx, "Mirror delete failed for %s: %v", filename, err)
		}
	}
	return nil
}

// Move 在项目之间移动文档，目标位置已有同名文件时返回冲突错误
func (s *Store) Move(ctx context.Context, fromProject, toProject, filename string) (string, error) {
	sourcePath := s.DocPath(fromProject, filename)
	if _, err := os.Stat(sourcePath); err != nil {
		return "", errors.Newf(errors.ErrDocumentNotFound, "document not found: %s", filename)
	}

	targetPath := s.DocPath(toProject, filename)
	if s.Exists(toProject, filename) {
		return "", errors.Newf(errors.ErrFileAlreadyExists, "document %s already exists in target location", filename)
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return "", errors.Newf(errors.ErrFileUploadFailed, "failed to create directory %s: %v", filepath.Dir(targetPath), err)
	}
	if err := os.Rename(sourcePath, targetPath); err != nil {
		return "", errors.Newf(errors.ErrFileUploadFailed, "failed to move file %s: %v", filename, err)
	}
	g.Log().Infof(ctx, "Moved file %s -> %s", sourcePath, targetPath)

	if s.mirror != nil {
		if err := s.mirror.move(ctx, objectKey(fromProject, filename), objectKey(toProject, filename)); err != nil {
			g.Log().Warningf(ctx, "Mirror move failed for %s: %v", filename, err)
		}
	}
	return targetPath, nil
}

// List 列出文档目录下的全部文件，含项目子目录
func (s *Store) List(ctx context.Context) ([]DocFile, error) {
	var files []DocFile

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return files, nil
		}
		return nil, errors.Newf(errors.ErrFileReadFailed, "failed to read docs directory: %v", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, DocFile{
			Filename: entry.Name(),
			Path:     filepath.Join(s.root, entry.Name()),
			Size:     info.Size(),
		})
	}

	projects, err := s.ProjectNames()
	if err != nil {
		return nil, err
	}
	for _, project := range projects {
		projectEntries, err := os.ReadDir(s.ProjectDir(project))
		if err != nil {
			g.Log().Warningf(ctx, "Failed to read project directory %s: %v", project, err)
			continue
		}
		for _, entry := range projectEntries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			files = append(files, DocFile{
				Project:  project,
				Filename: entry.Name(),
				Path:     filepath.Join(s.ProjectDir(project), entry.Name()),
				Size:     info.Size(),
			})
		}
	}
	return files, nil
}

// CreateProjectDir 创建项目目录
func (s *Store) CreateProjectDir(project string) error {
	if err := os.MkdirAll(s.ProjectDir(project), 0755); err != nil {
		return errors.Newf(errors.ErrProjectCreateFailed, "failed to create project directory: %v", err)
	}
	return nil
}

// DeleteProjectDir 删除项目目录及其全部文档
func (s *Store) DeleteProjectDir(project string) error {
	if err := os.RemoveAll(s.ProjectDir(project)); err != nil {
		return errors.Newf(errors.ErrProjectDeleteFailed, "failed to delete project directory: %v", err)
	}
	return nil
}

// ProjectNames 已存在的项目目录名列表
func (s *Store) ProjectNames() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "projects"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Newf(errors.ErrFileReadFailed, "failed to read projects directory: %v", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// DocKey 文档在状态表中的键: 全局文档为文件名，项目文档为 项目名/文件名
func DocKey(project, filename string) string {
	if project == "" {
		return filename
	}
	return fmt.Sprintf("%s/%s", project, filename)
}

// SplitDocKey 拆分状态表键为项目名与文件名
func SplitDocKey(key string) (project, filename string) {
	if idx := strings.Index(key, "/"); idx >= 0 {
		return key[:idx], key[idx+1:]
	}
	return "", key
}
