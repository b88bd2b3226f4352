package engine

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/core/config"
	apperrors "github.com/Malowking/docchat/core/errors"
)

// Manager 管理当前激活的推理引擎（模型）。所有网络调用不持锁，
// 状态切换通过写锁原子完成。
type Manager struct {
	mu       sync.RWMutex
	client   *Client
	cfg      config.OllamaConfig
	current  string // 当前激活的模型名
	verified bool   // 当前模型是否通过了生成探测
}

// Default 全局引擎管理器
var Default = &Manager{}

// EngineState 当前引擎的状态快照
type EngineState struct {
	Name       string `json:"name"`
	Available  bool   `json:"available"`
	Responding bool   `json:"responding"`
	Verified   bool   `json:"verified"`
}

// Status 引擎子系统的整体状态
type Status struct {
	Connected   bool        `json:"connected"`
	Engine      EngineState `json:"engine"`
	LocalModels []string    `json:"local_models"`
	TotalModels int         `json:"total_models"`
}

// Health 健康探测结果
type Health struct {
	Responding   bool    `json:"responding"`
	ResponseTime float64 `json:"response_time"` // 秒，保留两位小数
	Model        string  `json:"model"`
}

// VerifyResult 手动验证的结果
type VerifyResult struct {
	Verified       bool   `json:"verified"`
	Engine         string `json:"engine,omitempty"`
	PreviousEngine string `json:"previous_engine,omitempty"`
	Reinitialized  bool   `json:"reinitialized"`
}

// NewManager 创建指定配置的管理器（测试和多实例场景使用）
func NewManager(cfg config.OllamaConfig) *Manager {
	return &Manager{
		cfg:    cfg,
		client: NewClient(cfg.BaseURL),
	}
}

// Init 从配置初始化全局管理器并尝试选择默认引擎。
// 引擎不可达不是致命错误，服务照常启动。
func (m *Manager) Init(ctx context.Context) {
	cfg := config.Ollama(ctx)

	m.mu.Lock()
	m.cfg = cfg
	m.client = NewClient(cfg.BaseURL)
	m.mu.Unlock()

	if err := m.InitializeDefault(ctx); err != nil {
		g.Log().Warningf(ctx, "Engine not ready at startup: %v (will retry on demand)", err)
		return
	}
	name, _ := m.Current()
	g.Log().Infof(ctx, "Engine initialized with model %s", name)
}

// Client 返回底层 Ollama 客户端
func (m *Manager) Client() *Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// Config 返回引擎配置
func (m *Manager) Config() config.OllamaConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Current 返回当前引擎名称与验证状态
func (m *Manager) Current() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.verified
}

// InitializeDefault 连接引擎并选择一个可用的默认模型：
// 优先配置的默认模型，其次按优先级排列的候选模型，最后任一本地模型。
// 每个候选都要通过一次最小生成探测才会被采用。
func (m *Manager) InitializeDefault(ctx context.Context) error {
	local, err := m.LocalModels(ctx)
	if err != nil {
		return err
	}
	if len(local) == 0 {
		return apperrors.New(apperrors.ErrModelNotFound, "no local models installed")
	}

	for _, candidate := range m.candidates(local) {
		if err := m.VerifyModel(ctx, candidate); err != nil {
			g.Log().Warningf(ctx, "Model %s failed verification: %v", candidate, err)
			continue
		}
		m.mu.Lock()
		m.current = candidate
		m.verified = true
		m.mu.Unlock()
		return nil
	}

	return apperrors.New(apperrors.ErrModelVerifyFailed, "no local model passed verification")
}

// candidates 按选择优先级排列本地模型
func (m *Manager) candidates(local []ModelInfo) []string {
	m.mu.RLock()
	cfg := m.cfg
	m.mu.RUnlock()

	var out []string
	seen := make(map[string]struct{})
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	if match := matchLocal(local, cfg.DefaultModel); match != "" {
		add(match)
	}
	for _, preferred := range cfg.PreferredModels {
		if match := matchLocal(local, preferred); match != "" {
			add(match)
		}
	}
	rest := make([]string, 0, len(local))
	for _, info := range local {
		rest = append(rest, info.Name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		add(name)
	}
	return out
}

// matchLocal 在本地模型中查找名称匹配：完全一致、latest 标签或同名前缀
func matchLocal(local []ModelInfo, want string) string {
	if want == "" {
		return ""
	}
	for _, info := range local {
		if info.Name == want || info.Name == want+":latest" {
			return info.Name
		}
	}
	for _, info := range local {
		if strings.HasPrefix(info.Name, want+":") {
			return info.Name
		}
	}
	return ""
}

// VerifyModel 用最小生成请求探测模型是否真正可用
func (m *Manager) VerifyModel(ctx context.Context, name string) error {
	quickCtx, cancel := context.WithTimeout(ctx, m.Config().QuickTimeout)
	defer cancel()

	resp, err := m.Client().Generate(quickCtx, &GenerateRequest{
		Model:  name,
		Prompt: "Test",
		Stream: false,
		Options: &GenerateOptions{
			NumPredict:  1,
			Temperature: 0.1,
		},
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrModelVerifyFailed, err, "verification probe failed")
	}
	if !resp.Done {
		return apperrors.Newf(apperrors.ErrModelVerifyFailed, "model %s returned an incomplete response", name)
	}
	return nil
}

// SetEngine 切换当前引擎。新模型必须先通过验证，验证失败时
// 保持原引擎不变。
func (m *Manager) SetEngine(ctx context.Context, name string) error {
	if err := m.VerifyModel(ctx, name); err != nil {
		old, _ := m.Current()
		g.Log().Warningf(ctx, "Engine switch to %s rejected, keeping %s: %v", name, old, err)
		return err
	}

	m.mu.Lock()
	m.current = name
	m.verified = true
	m.mu.Unlock()

	g.Log().Infof(ctx, "Engine switched to %s", name)
	return nil
}

// LocalModels 返回本地已安装模型
func (m *Manager) LocalModels(ctx context.Context) ([]ModelInfo, error) {
	quickCtx, cancel := context.WithTimeout(ctx, m.Config().HealthTimeout)
	defer cancel()
	return m.Client().Tags(quickCtx)
}

// HealthCheck 发送一次短生成请求测量引擎响应状况
func (m *Manager) HealthCheck(ctx context.Context) Health {
	name, _ := m.Current()
	if name == "" {
		return Health{}
	}

	healthCtx, cancel := context.WithTimeout(ctx, m.Config().HealthTimeout)
	defer cancel()

	start := time.Now()
	_, err := m.Client().Generate(healthCtx, &GenerateRequest{
		Model:  name,
		Prompt: "Say 'OK'",
		Stream: false,
		Options: &GenerateOptions{
			NumPredict: 5,
		},
	})
	elapsed := math.Round(time.Since(start).Seconds()*100) / 100

	if err != nil {
		g.Log().Warningf(ctx, "Engine health check failed for %s: %v", name, err)
		return Health{Model: name, ResponseTime: elapsed}
	}
	return Health{Responding: true, ResponseTime: elapsed, Model: name}
}

// EngineStatus 汇总引擎连接状态、当前模型与本地模型列表
func (m *Manager) EngineStatus(ctx context.Context) Status {
	status := Status{}

	local, err := m.LocalModels(ctx)
	if err != nil {
		g.Log().Warningf(ctx, "Engine unreachable: %v", err)
		return status
	}
	status.Connected = true
	status.TotalModels = len(local)
	status.LocalModels = make([]string, 0, len(local))
	for _, info := range local {
		status.LocalModels = append(status.LocalModels, info.Name)
	}

	name, verified := m.Current()
	if name == "" {
		return status
	}
	state := EngineState{Name: name, Verified: verified}
	for _, info := range local {
		if info.Name == name {
			state.Available = true
			break
		}
	}
	if state.Available {
		state.Responding = m.HealthCheck(ctx).Responding
	}
	status.Engine = state
	return status
}

// ManualVerify 重新验证当前引擎。验证失败时回到默认引擎选择流程，
// 并在结果中带上之前的引擎名。
func (m *Manager) ManualVerify(ctx context.Context) (VerifyResult, error) {
	name, _ := m.Current()
	if name != "" {
		if err := m.VerifyModel(ctx, name); err == nil {
			m.mu.Lock()
			m.verified = true
			m.mu.Unlock()
			return VerifyResult{Verified: true, Engine: name}, nil
		}
		g.Log().Warningf(ctx, "Engine %s failed manual verification, selecting a new default", name)
		m.mu.Lock()
		m.verified = false
		m.mu.Unlock()
	}

	if err := m.InitializeDefault(ctx); err != nil {
		return VerifyResult{PreviousEngine: name}, err
	}
	current, _ := m.Current()
	return VerifyResult{Verified: true, Engine: current, PreviousEngine: name, Reinitialized: true}, nil
}
