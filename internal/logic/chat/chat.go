package chat

import (
	"context"
	"fmt"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/core/chunk"
	"github.com/Malowking/docchat/core/config"
	"github.com/Malowking/docchat/core/engine"
	apperrors "github.com/Malowking/docchat/core/errors"
)

// 聊天模式
const (
	ModeGeneral  = "general_chat"
	ModeDocument = "document_chat"
)

// defaultResponse 引擎未返回文本时的兜底回答
const defaultResponse = "No response generated"

// generalPrompt 无文档时的通用问答提示词
const generalPrompt = `You are a helpful AI assistant. Please provide a clear, accurate, and helpful response to the following question or request.

Question: %s

Answer:`

// documentPrompt 文档问答提示词，要求模型只依据文档内容作答
const documentPrompt = `You are an AI assistant helping to answer questions based on document content.

%s

Question: %s

Instructions:
- Answer based only on the information provided in the documents above
- If the information is not in the documents, say so clearly
- Be concise but complete in your response
- If you reference specific information, mention which document it came from

Answer:`

// DocumentSource 提供聊天上下文所需的文档内容快照
type DocumentSource interface {
	Snapshot() map[string]string
}

// Service 聊天服务：选择模型、组装文档上下文并调用推理引擎生成回答
type Service struct {
	docs     DocumentSource
	engines  *engine.Manager
	chunking config.ChunkingConfig
	chat     config.ChatConfig
}

// NewService 创建指定参数的聊天服务（测试和多实例场景使用）
func NewService(docs DocumentSource, engines *engine.Manager, chunking config.ChunkingConfig, chat config.ChatConfig) *Service {
	return &Service{
		docs:     docs,
		engines:  engines,
		chunking: chunking,
		chat:     chat,
	}
}

// New 从配置创建聊天服务
func New(ctx context.Context, docs DocumentSource, engines *engine.Manager) *Service {
	return NewService(docs, engines, config.Chunking(ctx), config.Chat(ctx))
}

// Result 一次聊天调用的结果
type Result struct {
	Response             string     `json:"response"`
	Model                string     `json:"model"`
	Mode                 string     `json:"mode"`
	ChunksProcessed      int        `json:"chunks_processed"`
	TotalChunksAvailable int        `json:"total_chunks_available"`
	ContextLength        int        `json:"context_length"`
	DebugInfo            *DebugInfo `json:"debug_info,omitempty"`
}

// DebugInfo 调试模式下附带的请求细节
type DebugInfo struct {
	OllamaURL       string                  `json:"ollama_url"`
	PromptUsed      string                  `json:"prompt_used"`
	RequestPayload  *engine.GenerateRequest `json:"ollama_request_payload"`
	ThinkingProcess string                  `json:"thinking_process"`
}

// Process 处理一次聊天请求。
// 模型选择顺序：显式指定 > 当前引擎 > 配置默认。文档快照非空时
// 走文档问答模式，把最相关的分块拼进提示词；否则走通用问答模式。
func (s *Service) Process(ctx context.Context, query, model string, debug bool) (*Result, error) {
	chosenModel := model
	if chosenModel == "" {
		chosenModel, _ = s.engines.Current()
	}
	if chosenModel == "" {
		chosenModel = s.engines.Config().DefaultModel
	}

	docs := s.docs.Snapshot()

	result := &Result{Model: chosenModel}
	var prompt string

	if len(docs) == 0 {
		prompt = fmt.Sprintf(generalPrompt, query)
		result.Mode = ModeGeneral
		result.ContextLength = len(prompt)
	} else {
		docCtx := chunk.BuildContext(docs, query, chunk.ContextParams{
			ChunkSize: s.chunking.ChatChunkSize,
			MaxChunks: s.chunking.ChatMaxChunks,
			Threshold: s.chunking.FallbackThreshold,
		})
		prompt = fmt.Sprintf(documentPrompt, docCtx.Text, query)
		result.Mode = ModeDocument
		result.ChunksProcessed = docCtx.ChunksProcessed
		result.TotalChunksAvailable = docCtx.ChunksAvailable
		result.ContextLength = docCtx.Length
	}

	g.Log().Infof(ctx, "Processing query in %s mode, model %s, context length: %d chars",
		result.Mode, chosenModel, result.ContextLength)

	var thinking string
	if debug {
		if result.Mode == ModeGeneral {
			thinking = fmt.Sprintf("🤔 General chat mode active. No documents to analyze. Using model %s to answer the question directly.", chosenModel)
		} else {
			thinking = fmt.Sprintf("🤔 Document chat mode active. Found %d total chunks in the documents. Analyzing the %d most relevant chunks for the question. Context used: %d characters. Model: %s.",
				result.TotalChunksAvailable, result.ChunksProcessed, result.ContextLength, chosenModel)
		}
	}

	genReq := &engine.GenerateRequest{
		Model:  chosenModel,
		Prompt: prompt,
		Stream: false,
		Options: &engine.GenerateOptions{
			Temperature: s.chat.Temperature,
			TopP:        s.chat.TopP,
			NumCtx:      s.chat.ContextWindow,
			NumPredict:  s.chat.MaxResponse,
			// Stop tokens to prevent prompt repetition.
			Stop: []string{"Question:", "Instructions:"},
		},
	}

	callCtx, cancel := context.WithTimeout(ctx, s.engines.Config().RequestTimeout)
	defer cancel()

	client := s.engines.Client()
	resp, err := client.Generate(callCtx, genReq)
	if err != nil {
		if appErr := apperrors.GetAppError(err); appErr != nil && appErr.Code == apperrors.ErrEngineTimeout {
			g.Log().Warningf(ctx, "Chat generation timed out for model %s: %v", chosenModel, err)
			return nil, apperrors.New(apperrors.ErrChatTimeout, "Request timed out. Try asking a more specific question.")
		}
		g.Log().Errorf(ctx, "Chat generation failed for model %s: %v", chosenModel, err)
		return nil, apperrors.Newf(apperrors.ErrGenerateFailed, "Error communicating with Ollama: %v", err)
	}

	result.Response = resp.Response
	if result.Response == "" {
		result.Response = defaultResponse
	}

	if debug {
		result.DebugInfo = &DebugInfo{
			OllamaURL:       client.BaseURL() + "/api/generate",
			PromptUsed:      prompt,
			RequestPayload:  genReq,
			ThinkingProcess: thinking,
		}
	}

	return result, nil
}
