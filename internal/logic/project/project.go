package project

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/core/chunk"
	"github.com/Malowking/docchat/core/config"
	"github.com/Malowking/docchat/core/docstore"
	apperrors "github.com/Malowking/docchat/core/errors"
	"github.com/Malowking/docchat/core/file_store"
	"github.com/Malowking/docchat/internal/logic/history"
)

// MaxNameLength 项目名最大长度
const MaxNameLength = 50

// namePattern 合法项目名: 字母、数字、下划线、连字符
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,50}$`)

// ValidName 项目名是否合法
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Service 项目管理服务。项目即文档命名空间: 全局文档直接放在
// 文档根目录，项目文档放在 projects/<项目名>/ 子目录。
type Service struct {
	files    *file_store.Store
	docs     *docstore.Store
	chats    *history.Manager
	chunking config.ChunkingConfig
}

// NewService 以显式依赖创建项目管理服务
func NewService(files *file_store.Store, docs *docstore.Store, chats *history.Manager, chunking config.ChunkingConfig) *Service {
	return &Service{
		files:    files,
		docs:     docs,
		chats:    chats,
		chunking: chunking,
	}
}

// New 基于全局实例与配置创建项目管理服务
func New(ctx context.Context, files *file_store.Store, docs *docstore.Store, chats *history.Manager) *Service {
	return NewService(files, docs, chats, config.Chunking(ctx))
}

// Names 返回全部项目名，全局项目始终在列，按字典序排序
func (s *Service) Names(ctx context.Context) ([]string, error) {
	names := []string{history.GlobalProject}
	dirs, err := s.files.ProjectNames()
	if err != nil {
		return nil, err
	}
	for _, name := range dirs {
		if ValidName(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Documents 返回项目目录下的文件名，按字典序排序
func (s *Service) Documents(ctx context.Context, project string) ([]string, error) {
	files, err := s.files.List(ctx)
	if err != nil {
		return nil, err
	}
	target := storeName(project)
	names := make([]string, 0)
	for _, f := range files {
		if f.Project == target {
			names = append(names, f.Filename)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Overview 返回全部项目及其文档清单
func (s *Service) Overview(ctx context.Context) (*OverviewResult, error) {
	names, err := s.Names(ctx)
	if err != nil {
		return nil, err
	}
	files, err := s.files.List(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]string)
	for _, f := range files {
		grouped[f.Project] = append(grouped[f.Project], f.Filename)
	}

	result := &OverviewResult{Projects: make([]ProjectInfo, 0, len(names))}
	for _, name := range names {
		docs := grouped[storeName(name)]
		sort.Strings(docs)
		if docs == nil {
			docs = []string{}
		}
		result.Projects = append(result.Projects, ProjectInfo{
			Name:          name,
			DocumentCount: len(docs),
			IsGlobal:      name == history.GlobalProject,
			Documents:     docs,
		})
		result.TotalDocuments += len(docs)
	}
	result.TotalProjects = len(names)
	return result, nil
}

// Create 创建新项目并返回其初始状态
func (s *Service) Create(ctx context.Context, name string) (*CreateResult, error) {
	if !ValidName(name) {
		return nil, apperrors.Newf(apperrors.ErrProjectNameInvalid,
			"Invalid project name. Use only letters, numbers, underscore and dash. Max %d characters.", MaxNameLength)
	}
	if name == history.GlobalProject {
		return nil, apperrors.Newf(apperrors.ErrProjectNameInvalid,
			"'%s' is reserved for global documents", history.GlobalProject)
	}
	if s.files.ProjectExists(name) {
		return nil, apperrors.Newf(apperrors.ErrProjectAlreadyExists, "Project '%s' already exists", name)
	}

	if err := s.files.CreateProjectDir(name); err != nil {
		return nil, err
	}
	g.Log().Infof(ctx, "Created project %s", name)

	chats, err := s.chats.List(ctx, name)
	if err != nil {
		return nil, err
	}
	return &CreateResult{
		Message:     "Project '" + name + "' created successfully",
		ProjectName: name,
		ProjectPath: s.files.ProjectDir(name),
		InitialState: InitialState{
			Documents: DocumentGroup{Items: []DocumentEntry{}},
			Chats:     ChatGroup{Count: len(chats), Items: chats},
		},
	}, nil
}

// Delete 删除项目及其全部文档。项目非空时需要 force。
func (s *Service) Delete(ctx context.Context, name string, force bool) (*DeleteResult, error) {
	if name == history.GlobalProject {
		return nil, apperrors.Newf(apperrors.ErrInvalidParameter,
			"Cannot delete '%s' project", history.GlobalProject)
	}
	if !ValidName(name) {
		return nil, apperrors.New(apperrors.ErrProjectNameInvalid, "Invalid project name")
	}
	if !s.files.ProjectExists(name) {
		return nil, apperrors.Newf(apperrors.ErrProjectNotFound, "Project '%s' not found", name)
	}

	docs, err := s.Documents(ctx, name)
	if err != nil {
		return nil, err
	}
	if !force && len(docs) > 0 {
		return nil, apperrors.Newf(apperrors.ErrProjectNotEmpty,
			"Project '%s' contains documents. Use force=true to delete anyway", name)
	}

	if err := s.files.DeleteProjectDir(name); err != nil {
		return nil, err
	}
	evicted := s.docs.EvictProject(name)
	g.Log().Infof(ctx, "Deleted project %s (%d documents evicted)", name, evicted)

	return &DeleteResult{
		Message:          "Project '" + name + "' deleted successfully",
		DeletedDocuments: evicted,
	}, nil
}

// Detail 返回项目的完整概览: 文档及其加载状态、会话列表
func (s *Service) Detail(ctx context.Context, name string) (*Detail, error) {
	if err := s.requireProject(name); err != nil {
		return nil, err
	}

	filenames, err := s.Documents(ctx, name)
	if err != nil {
		return nil, err
	}

	entries := make([]DocumentEntry, 0, len(filenames))
	for _, filename := range filenames {
		key := filename
		if name != history.GlobalProject {
			projectKey := file_store.DocKey(name, filename)
			if _, ok := s.docs.Get(projectKey); ok {
				key = projectKey
			}
		}
		doc, tracked := s.docs.Get(key)

		entry := DocumentEntry{
			Filename:    filename,
			Key:         key,
			IsLoaded:    tracked && doc.Status == docstore.StatusCompleted,
			IsInherited: name != history.GlobalProject && !strings.Contains(key, "/"),
		}
		if entry.IsLoaded {
			entry.Chunks = len(chunk.Segment(doc.Content, s.chunking.SearchChunkSize))
			entry.Size = len(doc.Content)
		}
		entries = append(entries, entry)
	}

	chats, err := s.chats.List(ctx, name)
	if err != nil {
		return nil, err
	}
	return &Detail{
		ProjectName: name,
		IsGlobal:    name == history.GlobalProject,
		Documents:   DocumentGroup{Count: len(entries), Items: entries},
		Chats:       ChatGroup{Count: len(chats), Items: chats},
	}, nil
}

// Refresh 与文件系统重新对账后返回项目的最新计数
func (s *Service) Refresh(ctx context.Context, name string) (*RefreshResult, error) {
	if err := s.requireProject(name); err != nil {
		return nil, err
	}

	if _, _, err := s.docs.Sync(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrOperationFailed, err, "Error refreshing project data")
	}

	docs, err := s.Documents(ctx, name)
	if err != nil {
		return nil, err
	}
	chats, err := s.chats.List(ctx, name)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{
		Message:        "Project '" + name + "' data refreshed successfully",
		ProjectName:    name,
		DocumentsCount: len(docs),
		ChatsCount:     len(chats),
		TotalDocuments: len(s.docs.List()),
	}, nil
}

// MoveDocument 在项目之间移动文档并迁移其跟踪记录
func (s *Service) MoveDocument(ctx context.Context, filename, targetProject string) (*MoveResult, error) {
	if targetProject != history.GlobalProject && !ValidName(targetProject) {
		return nil, apperrors.New(apperrors.ErrProjectNameInvalid, "Invalid target project name")
	}

	keyProject, baseName := file_store.SplitDocKey(filename)
	current := keyProject
	if current == "" {
		current = s.locateDocument(baseName)
	}
	if current == targetProject {
		return nil, apperrors.New(apperrors.ErrInvalidParameter, "Document is already in the target project")
	}

	if _, err := s.files.Move(ctx, storeName(current), storeName(targetProject), baseName); err != nil {
		return nil, err
	}
	s.docs.Rekey(file_store.DocKey(storeName(current), baseName), storeName(targetProject))
	g.Log().Infof(ctx, "Moved document %s from %s to %s", baseName, current, targetProject)

	return &MoveResult{
		Message:    "Document '" + baseName + "' moved from '" + current + "' to '" + targetProject + "'",
		OldProject: current,
		NewProject: targetProject,
	}, nil
}

// requireProject 校验项目名并确认项目存在，全局项目直接通过
func (s *Service) requireProject(name string) error {
	if name == history.GlobalProject {
		return nil
	}
	if !ValidName(name) {
		return apperrors.New(apperrors.ErrProjectNameInvalid, "Invalid project name")
	}
	if !s.files.ProjectExists(name) {
		return apperrors.Newf(apperrors.ErrProjectNotFound, "Project '%s' not found", name)
	}
	return nil
}

// locateDocument 根据文件所在目录判断其归属项目
func (s *Service) locateDocument(filename string) string {
	if s.files.Exists("", filename) {
		return history.GlobalProject
	}
	projects, err := s.files.ProjectNames()
	if err == nil {
		for _, name := range projects {
			if s.files.Exists(name, filename) {
				return name
			}
		}
	}
	return history.GlobalProject
}

// storeName 将 API 层项目名映射为存储层项目名，全局项目在存储层为空串
func storeName(project string) string {
	if project == history.GlobalProject {
		return ""
	}
	return project
}

// ProjectInfo 项目概览中的单个项目
type ProjectInfo struct {
	Name          string   `json:"name"`
	DocumentCount int      `json:"document_count"`
	IsGlobal      bool     `json:"is_global"`
	Documents     []string `json:"documents"`
}

// OverviewResult 全部项目概览
type OverviewResult struct {
	Projects       []ProjectInfo `json:"projects"`
	TotalProjects  int           `json:"total_projects"`
	TotalDocuments int           `json:"total_documents"`
}

// DocumentEntry 项目详情中的单个文档
type DocumentEntry struct {
	Filename    string `json:"filename"`
	Key         string `json:"key"`
	IsLoaded    bool   `json:"is_loaded"`
	IsInherited bool   `json:"is_inherited"`
	Chunks      int    `json:"chunks,omitempty"`
	Size        int    `json:"size,omitempty"`
}

// DocumentGroup 文档计数与清单
type DocumentGroup struct {
	Count int             `json:"count"`
	Items []DocumentEntry `json:"items"`
}

// ChatGroup 会话计数与清单
type ChatGroup struct {
	Count int                      `json:"count"`
	Items []history.SessionSummary `json:"items"`
}

// InitialState 新建项目的初始状态
type InitialState struct {
	Documents DocumentGroup `json:"documents"`
	Chats     ChatGroup     `json:"chats"`
}

// CreateResult 创建项目的结果
type CreateResult struct {
	Message      string       `json:"message"`
	ProjectName  string       `json:"project_name"`
	ProjectPath  string       `json:"project_path"`
	InitialState InitialState `json:"initial_state"`
}

// DeleteResult 删除项目的结果
type DeleteResult struct {
	Message          string `json:"message"`
	DeletedDocuments int    `json:"deleted_documents"`
}

// Detail 项目详情
type Detail struct {
	ProjectName string        `json:"project_name"`
	IsGlobal    bool          `json:"is_global"`
	Documents   DocumentGroup `json:"documents"`
	Chats       ChatGroup     `json:"chats"`
}

// RefreshResult 项目数据刷新结果
type RefreshResult struct {
	Message        string `json:"message"`
	ProjectName    string `json:"project_name"`
	DocumentsCount int    `json:"documents_count"`
	ChatsCount     int    `json:"chats_count"`
	TotalDocuments int    `json:"total_documents_in_memory"`
}

// MoveResult 文档移动结果
type MoveResult struct {
	Message    string `json:"message"`
	OldProject string `json:"old_project"`
	NewProject string `json:"new_project"`
}
