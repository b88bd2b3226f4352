package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

// ChatReq 单次聊天请求，不关联会话历史
type ChatReq struct {
	g.Meta `path:"/chat" method:"post" tags:"chat" summary:"One-shot chat with document context"`
	Query  string `p:"query" v:"required" dc:"用户问题"`
	Model  string `p:"model" dc:"指定模型，留空使用当前引擎"`
}

// ChatRes 聊天响应
type ChatRes struct {
	g.Meta               `mime:"application/json"`
	Response             string `json:"response"`
	Model                string `json:"model"`
	Mode                 string `json:"mode"`                   // document_chat / general_chat
	ChunksProcessed      int    `json:"chunks_processed"`       // 进入上下文的分块数
	TotalChunksAvailable int    `json:"total_chunks_available"` // 可用分块总数
	ContextLength        int    `json:"context_length"`         // 上下文字符数
}
