package docchat

import (
	"context"
	"sync"

	"github.com/Malowking/docchat/api/docchat/v1"
	"github.com/Malowking/docchat/core/docstore"
	"github.com/Malowking/docchat/core/engine"
	"github.com/Malowking/docchat/internal/logic/chat"
)

var (
	chatService     *chat.Service
	chatServiceOnce sync.Once
)

// getChatService 延迟初始化并获取聊天服务
func getChatService(ctx context.Context) *chat.Service {
	chatServiceOnce.Do(func() {
		chatService = chat.New(ctx, docstore.Default, engine.Default)
	})
	return chatService
}

// Chat 文档问答。有文档时带分块上下文，无文档时退化为通用问答。
func (c *ControllerV1) Chat(ctx context.Context, req *v1.ChatReq) (res *v1.ChatRes, err error) {
	result, err := getChatService(ctx).Process(ctx, req.Query, req.Model, false)
	if err != nil {
		return nil, err
	}
	return &v1.ChatRes{
		Response:             result.Response,
		Model:                result.Model,
		Mode:                 result.Mode,
		ChunksProcessed:      result.ChunksProcessed,
		TotalChunksAvailable: result.TotalChunksAvailable,
		ContextLength:        result.ContextLength,
	}, nil
}
