package docchat

import (
	"context"
	"strings"
	"time"

	"github.com/Malowking/docchat/api/docchat/v1"
	apperrors "github.com/Malowking/docchat/core/errors"
	"github.com/Malowking/docchat/internal/logic/history"
	"github.com/Malowking/docchat/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// ChatSessionCreate 创建会话，项目留空时归入 global
func (c *ControllerV1) ChatSessionCreate(ctx context.Context, req *v1.ChatSessionCreateReq) (res *v1.ChatSessionCreateRes, err error) {
	project := req.ProjectName
	if project == "" {
		project = history.GlobalProject
	}

	session, err := history.Default.Create(ctx, project, req.ChatName, req.FirstMessage)
	if err != nil {
		return nil, err
	}
	return &v1.ChatSessionCreateRes{
		ID:           session.ID,
		Name:         session.Name,
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
		MessageCount: len(session.Messages),
	}, nil
}

// ChatsOverview 全部项目的会话摘要
func (c *ControllerV1) ChatsOverview(ctx context.Context, req *v1.ChatsOverviewReq) (res *v1.ChatsOverviewRes, err error) {
	overview, err := history.Default.Overview(ctx)
	if err != nil {
		return nil, err
	}
	return &v1.ChatsOverviewRes{Data: overview}, nil
}

// ChatSessionList 项目下的会话摘要列表
func (c *ControllerV1) ChatSessionList(ctx context.Context, req *v1.ChatSessionListReq) (res *v1.ChatSessionListRes, err error) {
	summaries, err := history.Default.List(ctx, req.Project)
	if err != nil {
		return nil, err
	}
	return &v1.ChatSessionListRes{Data: summaries}, nil
}

// ChatSessionDetail 完整会话内容
func (c *ControllerV1) ChatSessionDetail(ctx context.Context, req *v1.ChatSessionDetailReq) (res *v1.ChatSessionDetailRes, err error) {
	session, err := history.Default.Get(ctx, req.Project, req.ChatID)
	if err != nil {
		return nil, err
	}
	return &v1.ChatSessionDetailRes{
		ID:          session.ID,
		Name:        session.Name,
		ProjectName: session.ProjectName,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
		Messages:    session.Messages,
	}, nil
}

// ChatMessages 会话消息的问答配对视图
func (c *ControllerV1) ChatMessages(ctx context.Context, req *v1.ChatMessagesReq) (res *v1.ChatMessagesRes, err error) {
	session, err := history.Default.Get(ctx, req.Project, req.ChatID)
	if err != nil {
		return nil, err
	}
	return &v1.ChatMessagesRes{Data: history.PairMessages(session.Messages)}, nil
}

// SessionChat 在会话中提问。问答对写入历史，保存失败只记录日志，
// 不丢弃已生成的回答。
func (c *ControllerV1) SessionChat(ctx context.Context, req *v1.SessionChatReq) (res *v1.SessionChatRes, err error) {
	if _, err = history.Default.Get(ctx, req.Project, req.ChatID); err != nil {
		return nil, err
	}

	result, err := getChatService(ctx).Process(ctx, req.Query, req.Model, req.Debug)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	saveErr := history.Default.AppendMessages(ctx, req.Project, req.ChatID,
		schema.ChatMessage{Role: "user", Content: req.Query, Timestamp: now},
		schema.ChatMessage{Role: "assistant", Content: result.Response, Timestamp: now, Model: result.Model},
	)
	if saveErr != nil {
		g.Log().Errorf(ctx, "Failed to save messages for chat session %s: %v", req.ChatID, saveErr)
	}

	return &v1.SessionChatRes{
		Response:             result.Response,
		Model:                result.Model,
		Mode:                 result.Mode,
		ChunksProcessed:      result.ChunksProcessed,
		TotalChunksAvailable: result.TotalChunksAvailable,
		ContextLength:        result.ContextLength,
	}, nil
}

// ChatSessionDelete 删除会话
func (c *ControllerV1) ChatSessionDelete(ctx context.Context, req *v1.ChatSessionDeleteReq) (res *v1.ChatSessionDeleteRes, err error) {
	if err = history.Default.Delete(ctx, req.Project, req.ChatID); err != nil {
		return nil, err
	}
	return &v1.ChatSessionDeleteRes{Message: "Chat session deleted successfully"}, nil
}

// ChatRename 重命名会话
func (c *ControllerV1) ChatRename(ctx context.Context, req *v1.ChatRenameReq) (res *v1.ChatRenameRes, err error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.ErrInvalidParameter, "Name cannot be empty")
	}
	if err = history.Default.Rename(ctx, req.Project, req.ChatID, name); err != nil {
		return nil, err
	}
	return &v1.ChatRenameRes{Message: "Chat session renamed successfully"}, nil
}

// ChatShare 生成会话分享链接
func (c *ControllerV1) ChatShare(ctx context.Context, req *v1.ChatShareReq) (res *v1.ChatShareRes, err error) {
	token, err := history.Default.Share(ctx, req.Project, req.ChatID)
	if err != nil {
		return nil, err
	}
	return &v1.ChatShareRes{
		ShareToken: token,
		ShareURL:   "/shared/" + token,
	}, nil
}

// SharedChat 通过分享令牌读取会话，无需知道所属项目
func (c *ControllerV1) SharedChat(ctx context.Context, req *v1.SharedChatReq) (res *v1.SharedChatRes, err error) {
	session, err := history.Default.FindShared(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	return &v1.SharedChatRes{
		ID:          session.ID,
		Name:        session.Name,
		ProjectName: session.ProjectName,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
		Messages:    session.Messages,
		IsShared:    true,
	}, nil
}
