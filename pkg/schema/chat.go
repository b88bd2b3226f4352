package schema

import "time"

// ChatMessage 会话中的单条消息
type ChatMessage struct {
	// Role 消息角色: user/assistant
	Role string `json:"role"`
	// Content 消息内容
	Content string `json:"content"`
	// Timestamp 消息时间
	Timestamp time.Time `json:"timestamp"`
	// Model 生成该消息的模型（助手消息才有）
	Model string `json:"model,omitempty"`
}

// ChatSession 一次持久化的会话
type ChatSession struct {
	// ID 会话唯一标识（UUID）
	ID string `json:"id"`
	// Name 会话标题
	Name string `json:"name"`
	// ProjectName 所属项目，全局会话为 "global"
	ProjectName string `json:"project_name"`
	// CreatedAt 创建时间
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt 最近更新时间
	UpdatedAt time.Time `json:"updated_at"`
	// Messages 消息列表
	Messages []ChatMessage `json:"messages"`
	// ShareToken 分享令牌，未分享时为空
	ShareToken string `json:"share_token,omitempty"`
}
