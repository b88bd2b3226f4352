package models

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/core/config"
	"github.com/Malowking/docchat/core/engine"
)

// ModelEntry 目录里的一个模型与其内存需求
type ModelEntry struct {
	Name           string `json:"name"`
	EstimatedRAMGB int    `json:"estimated_ram_gb"`
	Category       string `json:"category"`
}

// ListResult 本地与远端模型目录
type ListResult struct {
	Local        []ModelEntry `json:"local"`
	Remote       []ModelEntry `json:"remote"`
	SystemMemory MemoryStats  `json:"system_memory"`
	RemoteError  string       `json:"remote_error,omitempty"`
}

// ModelDetail 单个模型的详细信息
type ModelDetail struct {
	Name           string     `json:"name"`
	IsLocal        bool       `json:"is_local"`
	EstimatedRAMGB int        `json:"estimated_ram_gb"`
	Category       string     `json:"category"`
	ModelInfo      MemoryInfo `json:"model_info"`
}

// ProgressFrame 模型拉取进度帧
type ProgressFrame struct {
	Status          string  `json:"status"`
	ProgressPercent float64 `json:"progress_percent"`
	Downloaded      string  `json:"downloaded,omitempty"`
	Total           string  `json:"total,omitempty"`
	ModelName       string  `json:"model_name"`
	Completed       bool    `json:"completed"`
	Error           string  `json:"error,omitempty"`
}

// Service 模型目录服务，聚合本地模型、远端目录与系统内存信息
type Service struct {
	catalog *Catalog
	manager *engine.Manager
}

// Default 全局模型目录服务，Init 后可用
var Default *Service

// Init 从配置初始化全局模型目录服务
func Init(ctx context.Context) {
	Default = NewService(NewCatalog(config.Models(ctx)), engine.Default)
	g.Log().Info(ctx, "Model catalog service initialized")
}

// NewService 创建模型目录服务（测试和多实例场景使用）
func NewService(catalog *Catalog, manager *engine.Manager) *Service {
	return &Service{catalog: catalog, manager: manager}
}

// List 返回本地与远端模型目录。远端目录抓取失败时降级为
// remote_error 提示，不影响本地模型的返回。
func (s *Service) List(ctx context.Context) ListResult {
	result := ListResult{Local: []ModelEntry{}, Remote: []ModelEntry{}}

	remote, err := s.catalog.Remote(ctx)
	if err != nil {
		g.Log().Warningf(ctx, "Remote model catalog unavailable: %v", err)
		result.RemoteError = remoteErrorMessage(err)
	}
	for _, name := range remote {
		result.Remote = append(result.Remote, newModelEntry(name))
	}

	local, err := s.manager.LocalModels(ctx)
	if err != nil {
		g.Log().Warningf(ctx, "Failed to list local models: %v", err)
	}
	for _, info := range local {
		result.Local = append(result.Local, newModelEntry(info.Name))
	}

	result.SystemMemory = SystemMemory(ctx)
	return result
}

// Detail 返回单个模型的内存需求与本地安装状态
func (s *Service) Detail(ctx context.Context, name string) ModelDetail {
	info := EstimateMemory(name)
	detail := ModelDetail{
		Name:           name,
		EstimatedRAMGB: info.EstimatedRAMGB,
		Category:       info.Category,
		ModelInfo:      info,
	}

	local, err := s.manager.LocalModels(ctx)
	if err != nil {
		g.Log().Warningf(ctx, "Failed to list local models: %v", err)
		return detail
	}
	for _, m := range local {
		if m.Name == name {
			detail.IsLocal = true
			break
		}
	}
	return detail
}

// Pull 拉取模型并等待完成，成功后刷新远端目录缓存
func (s *Service) Pull(ctx context.Context, name string) error {
	if err := s.manager.Client().Pull(ctx, name, nil); err != nil {
		return err
	}
	s.catalog.Invalidate(ctx)
	g.Log().Infof(ctx, "Model %s pulled", name)
	return nil
}

// PullWithProgress 拉取模型并把进度帧交给 send 回调。
// 状态变化或有可量化进度时才发帧，success 状态额外发一个完成帧。
func (s *Service) PullWithProgress(ctx context.Context, name string, send func(ProgressFrame) error) error {
	var lastStatus string
	var downloaded, total int64

	err := s.manager.Client().Pull(ctx, name, func(p engine.PullProgress) error {
		percent := 0.0
		if p.Total > 0 {
			percent = math.Min(100, float64(p.Completed)/float64(p.Total)*100)
			downloaded = p.Completed
			total = p.Total
		}
		frame := ProgressFrame{
			Status:          p.Status,
			ProgressPercent: math.Round(percent*10) / 10,
			Downloaded:      formatBytes(downloaded),
			Total:           formatBytes(total),
			ModelName:       name,
		}

		if p.Status != lastStatus || percent > 0 {
			if err := send(frame); err != nil {
				return err
			}
			lastStatus = p.Status
		}
		if strings.Contains(strings.ToLower(p.Status), "success") {
			frame.Completed = true
			frame.ProgressPercent = 100
			return send(frame)
		}
		return nil
	})
	if err != nil {
		sendErr := send(ProgressFrame{
			Status:    "error",
			Error:     fmt.Sprintf("Failed to pull model %s: %v", name, err),
			ModelName: name,
			Completed: true,
		})
		if sendErr != nil {
			g.Log().Warningf(ctx, "Failed to deliver pull error frame: %v", sendErr)
		}
		return err
	}

	s.catalog.Invalidate(ctx)
	g.Log().Infof(ctx, "Model %s pulled", name)
	return nil
}

// Delete 删除本地模型并刷新远端目录缓存
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.manager.Client().Delete(ctx, name); err != nil {
		return err
	}
	s.catalog.Invalidate(ctx)
	g.Log().Infof(ctx, "Model %s deleted", name)
	return nil
}

// newModelEntry 构造带内存估算的目录项
func newModelEntry(name string) ModelEntry {
	info := EstimateMemory(name)
	return ModelEntry{
		Name:           name,
		EstimatedRAMGB: info.EstimatedRAMGB,
		Category:       info.Category,
	}
}

// remoteErrorMessage 把目录抓取错误转成面向用户的提示
func remoteErrorMessage(err error) string {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "connection") || strings.Contains(lower, "timeout"):
		return "⚠️ Ollama servers for downloading models are temporarily unreachable. Please try again later."
	case strings.Contains(lower, "network"):
		return "⚠️ Network error while fetching remote models. Please check your internet connection."
	}
	return fmt.Sprintf("⚠️ Error fetching remote models: %s", msg)
}

func formatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}
