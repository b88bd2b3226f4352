package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gogf/gf/v2/frame/g"
)

// ValidateConfiguration validates all required configuration items
func ValidateConfiguration(ctx context.Context) error {
	var missingConfigs []string
	var warnings []string

	// 验证 Ollama 配置
	ollamaBaseURL := g.Cfg().MustGet(ctx, "ollama.baseURL", "").String()
	if ollamaBaseURL == "" {
		warnings = append(warnings, "ollama.baseURL is not set, using http://ollama:11434")
	}

	// 验证对象存储配置
	storageType := g.Cfg().MustGet(ctx, "storage.type", "local").String()
	if storageType == "s3" {
		s3Endpoint := g.Cfg().MustGet(ctx, "storage.s3.endpoint", "").String()
		s3AccessKey := g.Cfg().MustGet(ctx, "storage.s3.accessKey", "").String()
		s3SecretKey := g.Cfg().MustGet(ctx, "storage.s3.secretKey", "").String()
		s3Bucket := g.Cfg().MustGet(ctx, "storage.s3.bucket", "").String()

		if s3Endpoint == "" {
			missingConfigs = append(missingConfigs, "storage.s3.endpoint")
		}
		if s3AccessKey == "" {
			missingConfigs = append(missingConfigs, "storage.s3.accessKey")
		}
		if s3SecretKey == "" {
			missingConfigs = append(missingConfigs, "storage.s3.secretKey")
		}
		if s3Bucket == "" {
			missingConfigs = append(missingConfigs, "storage.s3.bucket")
		}
	} else if storageType != "local" {
		missingConfigs = append(missingConfigs, fmt.Sprintf("storage.type (unknown value %q, expected local or s3)", storageType))
	}

	// 验证分块配置
	chunking := Chunking(ctx)
	if chunking.ChatChunkSize <= 0 {
		missingConfigs = append(missingConfigs, "chunking.chatChunkSize (must be positive)")
	}
	if chunking.SearchChunkSize <= 0 {
		missingConfigs = append(missingConfigs, "chunking.searchChunkSize (must be positive)")
	}
	if chunking.ChatMaxChunks <= 0 {
		warnings = append(warnings, "chunking.chatMaxChunks is not positive, chat context will be empty")
	}

	// 验证文档目录配置
	docsDir := g.Cfg().MustGet(ctx, "docs.dir", "docs").String()
	if docsDir == "" {
		missingConfigs = append(missingConfigs, "docs.dir")
	}

	// 输出警告信息
	if len(warnings) > 0 {
		g.Log().Warningf(ctx, "Configuration warnings:\n- %s", strings.Join(warnings, "\n- "))
	}

	// 检查是否有缺失的必需配置
	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configuration items:\n- %s\n\nPlease check your config.yaml file and ensure all required settings are properly configured", strings.Join(missingConfigs, "\n- "))
	}

	// 输出成功信息
	g.Log().Info(ctx, "✓ All required configuration items are present")

	return nil
}

// OllamaConfig 推理引擎连接配置
type OllamaConfig struct {
	BaseURL         string        // Ollama 服务地址
	RequestTimeout  time.Duration // 生成请求超时
	QuickTimeout    time.Duration // 管理类请求超时
	HealthTimeout   time.Duration // 健康检查超时
	DefaultModel    string        // 默认模型名称
	PreferredModels []string      // 自动选择时的候选模型，按优先级排列
}

// Ollama 读取推理引擎配置
func Ollama(ctx context.Context) OllamaConfig {
	return OllamaConfig{
		BaseURL:        g.Cfg().MustGet(ctx, "ollama.baseURL", "http://ollama:11434").String(),
		RequestTimeout: time.Duration(g.Cfg().MustGet(ctx, "ollama.timeout", 300).Int()) * time.Second,
		QuickTimeout:   time.Duration(g.Cfg().MustGet(ctx, "ollama.quickTimeout", 10).Int()) * time.Second,
		HealthTimeout:  time.Duration(g.Cfg().MustGet(ctx, "ollama.healthTimeout", 30).Int()) * time.Second,
		DefaultModel:   g.Cfg().MustGet(ctx, "ollama.defaultModel", "llama3.2").String(),
		PreferredModels: g.Cfg().MustGet(ctx, "ollama.preferredModels", []string{
			"llama3.2:1b", "phi3.5:mini", "gemma2:2b", "llama3.2:3b",
		}).Strings(),
	}
}

// ChunkingConfig 文档分块与检索参数
type ChunkingConfig struct {
	ChatChunkSize     int     // 聊天上下文分块大小（字符）
	SearchChunkSize   int     // 搜索分块大小（字符）
	MaxSearchResults  int     // 搜索返回的最大块数
	ChatMaxChunks     int     // 聊天上下文包含的最大块数
	FallbackThreshold float64 // 相关性兜底阈值
}

// Chunking 读取分块配置
func Chunking(ctx context.Context) ChunkingConfig {
	return ChunkingConfig{
		ChatChunkSize:     g.Cfg().MustGet(ctx, "chunking.chatChunkSize", 6000).Int(),
		SearchChunkSize:   g.Cfg().MustGet(ctx, "chunking.searchChunkSize", 4000).Int(),
		MaxSearchResults:  g.Cfg().MustGet(ctx, "chunking.maxChunksPerQuery", 5).Int(),
		ChatMaxChunks:     g.Cfg().MustGet(ctx, "chunking.chatMaxChunks", 3).Int(),
		FallbackThreshold: g.Cfg().MustGet(ctx, "chunking.fallbackThreshold", 0.1).Float64(),
	}
}

// ChatConfig 生成参数配置
type ChatConfig struct {
	ContextWindow int     // 模型上下文窗口（token）
	MaxResponse   int     // 单次回复的最大 token 数
	Temperature   float64 // 采样温度
	TopP          float64 // 核采样阈值
}

// Chat 读取生成参数配置
func Chat(ctx context.Context) ChatConfig {
	return ChatConfig{
		ContextWindow: g.Cfg().MustGet(ctx, "chat.contextWindow", 12288).Int(),
		MaxResponse:   g.Cfg().MustGet(ctx, "chat.maxResponse", 2048).Int(),
		Temperature:   g.Cfg().MustGet(ctx, "chat.temperature", 0.7).Float64(),
		TopP:          g.Cfg().MustGet(ctx, "chat.topP", 0.9).Float64(),
	}
}

// DocsConfig 文档库配置
type DocsConfig struct {
	Dir           string // 文档根目录
	MaxFileSizeMB int64  // 上传文件大小上限（MB）
}

// Docs 读取文档库配置
func Docs(ctx context.Context) DocsConfig {
	return DocsConfig{
		Dir:           g.Cfg().MustGet(ctx, "docs.dir", "docs").String(),
		MaxFileSizeMB: g.Cfg().MustGet(ctx, "docs.maxFileSizeMb", 100).Int64(),
	}
}

// HistoryConfig 会话历史存储配置
type HistoryConfig struct {
	Dir       string // 会话数据根目录，聊天记录位于其下的 chats 子目录
	QueueSize int    // 异步保存队列长度
	Workers   int    // 异步保存工作协程数
}

// History 读取会话历史配置
func History(ctx context.Context) HistoryConfig {
	return HistoryConfig{
		Dir:       g.Cfg().MustGet(ctx, "history.dir", "data").String(),
		QueueSize: g.Cfg().MustGet(ctx, "history.queueSize", 100).Int(),
		Workers:   g.Cfg().MustGet(ctx, "history.workers", 2).Int(),
	}
}

// ModelsConfig 模型目录配置
type ModelsConfig struct {
	CacheTTL   time.Duration // 可下载模型列表缓存时长
	LibraryURL string        // 模型库页面地址
}

// Models 读取模型目录配置
func Models(ctx context.Context) ModelsConfig {
	return ModelsConfig{
		CacheTTL:   time.Duration(g.Cfg().MustGet(ctx, "models.cacheTTL", 300).Int()) * time.Second,
		LibraryURL: g.Cfg().MustGet(ctx, "models.libraryURL", "https://ollama.com/library").String(),
	}
}
