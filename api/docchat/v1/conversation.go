package v1

import (
	"time"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/internal/logic/history"
	"github.com/Malowking/docchat/pkg/schema"
)

type ChatSessionCreateReq struct {
	g.Meta       `path:"/chats/create" method:"post" tags:"chats" summary:"Create a chat session"`
	ProjectName  string `json:"project_name"`  // 所属项目，留空为 global
	ChatName     string `json:"chat_name"`     // 会话名，留空自动生成
	FirstMessage string `json:"first_message"` // 用于生成会话名的首条消息
}

type ChatSessionCreateRes struct {
	g.Meta       `mime:"application/json"`
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

type ChatsOverviewReq struct {
	g.Meta `path:"/chats/overview" method:"get" tags:"chats" summary:"Chat sessions grouped by project"`
}

type ChatsOverviewRes struct {
	g.Meta `mime:"application/json"`
	Data   map[string][]history.SessionSummary `json:"data"`
}

type ChatSessionListReq struct {
	g.Meta  `path:"/chats/:project" method:"get" tags:"chats" summary:"List chat sessions of a project"`
	Project string `p:"project" v:"required" dc:"项目名"`
}

type ChatSessionListRes struct {
	g.Meta `mime:"application/json"`
	Data   []history.SessionSummary `json:"data"`
}

type ChatSessionDetailReq struct {
	g.Meta  `path:"/chats/:project/:chat_id" method:"get" tags:"chats" summary:"Load a chat session with messages"`
	Project string `p:"project" v:"required" dc:"项目名"`
	ChatID  string `p:"chat_id" v:"required" dc:"会话ID"`
}

type ChatSessionDetailRes struct {
	g.Meta      `mime:"application/json"`
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	ProjectName string               `json:"project_name"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Messages    []schema.ChatMessage `json:"messages"`
}

type ChatMessagesReq struct {
	g.Meta  `path:"/chats/:project/:chat_id/messages" method:"get" tags:"chats" summary:"Messages of a session as user/assistant pairs"`
	Project string `p:"project" v:"required" dc:"项目名"`
	ChatID  string `p:"chat_id" v:"required" dc:"会话ID"`
}

type ChatMessagesRes struct {
	g.Meta `mime:"application/json"`
	Data   []history.MessagePair `json:"data"`
}

type SessionChatReq struct {
	g.Meta  `path:"/chats/:project/:chat_id/chat" method:"post" tags:"chats" summary:"Send a message within a session"`
	Project string `p:"project" v:"required" dc:"项目名"`
	ChatID  string `p:"chat_id" v:"required" dc:"会话ID"`
	Query   string `json:"query" v:"required"` // 用户问题
	Model   string `json:"model"`              // 指定模型，可选
	Debug   bool   `json:"debug"`              // 记录调试日志
}

type SessionChatRes struct {
	g.Meta               `mime:"application/json"`
	Response             string `json:"response"`
	Model                string `json:"model"`
	Mode                 string `json:"mode"`
	ChunksProcessed      int    `json:"chunks_processed"`
	TotalChunksAvailable int    `json:"total_chunks_available"`
	ContextLength        int    `json:"context_length"`
}

type ChatSessionDeleteReq struct {
	g.Meta  `path:"/chats/:project/:chat_id" method:"delete" tags:"chats" summary:"Delete a chat session"`
	Project string `p:"project" v:"required" dc:"项目名"`
	ChatID  string `p:"chat_id" v:"required" dc:"会话ID"`
}

type ChatSessionDeleteRes struct {
	g.Meta  `mime:"application/json"`
	Message string `json:"message"`
}

type ChatRenameReq struct {
	g.Meta  `path:"/chats/:project/:chat_id/rename" method:"put" tags:"chats" summary:"Rename a chat session"`
	Project string `p:"project" v:"required" dc:"项目名"`
	ChatID  string `p:"chat_id" v:"required" dc:"会话ID"`
	Name    string `json:"name"` // 新名称
}

type ChatRenameRes struct {
	g.Meta  `mime:"application/json"`
	Message string `json:"message"`
}

type ChatShareReq struct {
	g.Meta  `path:"/chats/:project/:chat_id/share" method:"post" tags:"chats" summary:"Create a share link"`
	Project string `p:"project" v:"required" dc:"项目名"`
	ChatID  string `p:"chat_id" v:"required" dc:"会话ID"`
}

type ChatShareRes struct {
	g.Meta     `mime:"application/json"`
	ShareToken string `json:"share_token"`
	ShareURL   string `json:"share_url"`
}

type SharedChatReq struct {
	g.Meta `path:"/shared/:token" method:"get" tags:"chats" summary:"Load a shared chat by token"`
	Token  string `p:"token" v:"required" dc:"分享令牌"`
}

type SharedChatRes struct {
	g.Meta      `mime:"application/json"`
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	ProjectName string               `json:"project_name"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Messages    []schema.ChatMessage `json:"messages"`
	IsShared    bool                 `json:"is_shared"`
}
