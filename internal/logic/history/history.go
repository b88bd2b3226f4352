package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/google/uuid"

	"github.com/Malowking/docchat/core/config"
	"github.com/Malowking/docchat/core/engine"
	apperrors "github.com/Malowking/docchat/core/errors"
	"github.com/Malowking/docchat/pkg/schema"
)

// GlobalProject 全局会话所属的保留项目名
const GlobalProject = "global"

// Manager 会话历史管理器。会话以 JSON 文件存放在
// <root>/chats/global/ 和 <root>/chats/projects/<project>/ 下，
// 文件名为会话 ID。写入经由异步保存器串行化。
type Manager struct {
	root    string
	engines *engine.Manager
	saver   *asyncSaver

	// mu 串行化“读取-修改-写回”的会话变更
	mu sync.Mutex
}

// Default 全局会话历史管理器
var Default *Manager

// Init 从配置初始化全局管理器
func Init(ctx context.Context) error {
	cfg := config.History(ctx)
	m, err := NewManager(cfg.Dir, engine.Default, cfg.QueueSize, cfg.Workers)
	if err != nil {
		return err
	}
	Default = m
	g.Log().Infof(ctx, "Chat history initialized at %s", filepath.Join(cfg.Dir, "chats"))
	return nil
}

// NewManager 创建会话历史管理器并启动保存工作协程
func NewManager(root string, engines *engine.Manager, queueSize, workers int) (*Manager, error) {
	m := &Manager{
		root:    root,
		engines: engines,
	}
	for _, dir := range []string{m.chatDir(GlobalProject), filepath.Join(root, "chats", "projects")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalError, err, "failed to create chat history directories")
		}
	}
	m.saver = newAsyncSaver(m, queueSize, workers)
	return m, nil
}

// Shutdown 等待排队的保存任务落盘后停止工作协程
func (m *Manager) Shutdown() {
	m.saver.Shutdown()
}

// SessionSummary 会话列表项
type SessionSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// MessagePair 一问一答的消息对
type MessagePair struct {
	UserMessage string    `json:"user_message"`
	Timestamp   time.Time `json:"timestamp"`
	Model       string    `json:"model"`
	AIResponse  string    `json:"ai_response,omitempty"`
}

// Create 创建新会话。标题优先用显式名称，其次根据首条消息生成，
// 否则用时间戳命名。
func (m *Manager) Create(ctx context.Context, project, name, firstMessage string) (*schema.ChatSession, error) {
	name = strings.TrimSpace(name)
	if name == "" && firstMessage != "" {
		name = m.GenerateName(ctx, firstMessage)
	} else if name == "" {
		name = "Chat " + time.Now().Format("2006-01-02 15:04")
	}

	now := time.Now()
	session := &schema.ChatSession{
		ID:          uuid.NewString(),
		Name:        name,
		ProjectName: project,
		CreatedAt:   now,
		UpdatedAt:   now,
		Messages:    []schema.ChatMessage{},
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.saver.Save(ctx, session); err != nil {
		return nil, err
	}
	g.Log().Infof(ctx, "Created chat session %s (%q) in project %s", session.ID, session.Name, project)
	return session, nil
}

// Get 读取完整会话
func (m *Manager) Get(ctx context.Context, project, id string) (*schema.ChatSession, error) {
	return m.loadSession(ctx, project, id)
}

// List 返回项目下的会话摘要，按最近更新排序
func (m *Manager) List(ctx context.Context, project string) ([]SessionSummary, error) {
	dir := m.chatDir(project)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionSummary{}, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalError, err, "failed to read chat directory")
	}

	summaries := make([]SessionSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		session, err := m.readSessionFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			g.Log().Warningf(ctx, "Skipping unreadable chat file %s: %v", entry.Name(), err)
			continue
		}
		summaries = append(summaries, SessionSummary{
			ID:           session.ID,
			Name:         session.Name,
			CreatedAt:    session.CreatedAt,
			UpdatedAt:    session.UpdatedAt,
			MessageCount: len(session.Messages),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// AppendMessages 向会话追加消息并更新时间戳
func (m *Manager) AppendMessages(ctx context.Context, project, id string, msgs ...schema.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.loadSession(ctx, project, id)
	if err != nil {
		return err
	}
	session.Messages = append(session.Messages, msgs...)
	session.UpdatedAt = time.Now()
	return m.saver.Save(ctx, session)
}

// Delete 删除会话文件
func (m *Manager) Delete(ctx context.Context, project, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := os.Remove(m.sessionPath(project, id))
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.New(apperrors.ErrConversationNotFound, "Chat session not found")
		}
		return apperrors.Wrap(apperrors.ErrOperationFailed, err, "failed to delete chat session")
	}
	g.Log().Infof(ctx, "Deleted chat session %s from project %s", id, project)
	return nil
}

// Rename 重命名会话。名称由调用方保证非空。
func (m *Manager) Rename(ctx context.Context, project, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.loadSession(ctx, project, id)
	if err != nil {
		return err
	}
	session.Name = strings.TrimSpace(name)
	session.UpdatedAt = time.Now()
	return m.saver.Save(ctx, session)
}

// Share 为会话生成分享令牌并保存
func (m *Manager) Share(ctx context.Context, project, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.loadSession(ctx, project, id)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256([]byte(id + project + time.Now().Format(time.RFC3339Nano)))
	token := hex.EncodeToString(sum[:])[:16]

	session.ShareToken = token
	session.UpdatedAt = time.Now()
	if err := m.saver.Save(ctx, session); err != nil {
		return "", err
	}
	g.Log().Infof(ctx, "Created share token for chat session %s", id)
	return token, nil
}

// FindShared 按分享令牌在所有项目中查找会话
func (m *Manager) FindShared(ctx context.Context, token string) (*schema.ChatSession, error) {
	if token == "" {
		return nil, apperrors.New(apperrors.ErrShareTokenNotFound, "Shared chat not found")
	}

	dirs := []string{m.chatDir(GlobalProject)}
	projectsDir := filepath.Join(m.root, "chats", "projects")
	if entries, err := os.ReadDir(projectsDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				dirs = append(dirs, filepath.Join(projectsDir, entry.Name()))
			}
		}
	}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			session, err := m.readSessionFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				g.Log().Warningf(ctx, "Skipping unreadable chat file %s: %v", entry.Name(), err)
				continue
			}
			if session.ShareToken == token {
				return session, nil
			}
		}
	}
	return nil, apperrors.New(apperrors.ErrShareTokenNotFound, "Shared chat not found")
}

// Overview 返回所有有会话的项目及其会话摘要
func (m *Manager) Overview(ctx context.Context) (map[string][]SessionSummary, error) {
	projects := make(map[string][]SessionSummary)

	globalChats, err := m.List(ctx, GlobalProject)
	if err != nil {
		return nil, err
	}
	if len(globalChats) > 0 {
		projects[GlobalProject] = globalChats
	}

	projectsDir := filepath.Join(m.root, "chats", "projects")
	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return projects, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalError, err, "failed to read projects chat directory")
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		chats, err := m.List(ctx, entry.Name())
		if err != nil {
			return nil, err
		}
		if len(chats) > 0 {
			projects[entry.Name()] = chats
		}
	}
	return projects, nil
}

// PairMessages 把按序存储的消息折叠成一问一答的消息对：
// user 消息开启新对，assistant 消息补全当前对并带上回答模型；
// 没有前置提问的 assistant 消息被丢弃。
func PairMessages(msgs []schema.ChatMessage) []MessagePair {
	pairs := make([]MessagePair, 0, len(msgs)/2+1)
	var current *MessagePair

	for _, msg := range msgs {
		switch msg.Role {
		case "user":
			if current != nil {
				pairs = append(pairs, *current)
			}
			current = &MessagePair{
				UserMessage: msg.Content,
				Timestamp:   msg.Timestamp,
			}
		case "assistant":
			if current != nil {
				current.AIResponse = msg.Content
				current.Model = msg.Model
			}
		}
	}
	if current != nil {
		pairs = append(pairs, *current)
	}
	return pairs
}

// chatDir 返回项目的会话目录
func (m *Manager) chatDir(project string) string {
	if project == GlobalProject {
		return filepath.Join(m.root, "chats", "global")
	}
	return filepath.Join(m.root, "chats", "projects", project)
}

// sessionPath 返回会话文件路径
func (m *Manager) sessionPath(project, id string) string {
	return filepath.Join(m.chatDir(project), id+".json")
}

// loadSession 读取会话，文件缺失或损坏都视为会话不存在
func (m *Manager) loadSession(ctx context.Context, project, id string) (*schema.ChatSession, error) {
	session, err := m.readSessionFile(m.sessionPath(project, id))
	if err != nil {
		if !os.IsNotExist(err) {
			g.Log().Warningf(ctx, "Failed to load chat session %s: %v", id, err)
		}
		return nil, apperrors.New(apperrors.ErrConversationNotFound, "Chat session not found")
	}
	return session, nil
}

// readSessionFile 解析单个会话文件
func (m *Manager) readSessionFile(path string) (*schema.ChatSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var session schema.ChatSession
	if err := sonic.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// writeSession 将会话序列化落盘，保存工作协程调用
func (m *Manager) writeSession(session *schema.ChatSession) error {
	dir := m.chatDir(session.ProjectName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.Wrap(apperrors.ErrHistorySaveFailed, err, "failed to create chat directory")
	}
	data, err := sonic.MarshalIndent(session, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrHistorySaveFailed, err, "failed to encode chat session")
	}
	if err := os.WriteFile(filepath.Join(dir, session.ID+".json"), data, 0644); err != nil {
		return apperrors.Wrap(apperrors.ErrHistorySaveFailed, err, "failed to write chat session")
	}
	return nil
}
