package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	apperrors "github.com/Malowking/docchat/core/errors"
)

// Client Ollama HTTP API 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// GenerateOptions 生成参数
type GenerateOptions struct {
	Temperature float64  `json:"temperature,omitempty"`
	TopP        float64  `json:"top_p,omitempty"`
	NumCtx      int      `json:"num_ctx,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// GenerateRequest /api/generate 请求结构
type GenerateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	Stream  bool             `json:"stream"`
	Options *GenerateOptions `json:"options,omitempty"`
}

// GenerateResponse /api/generate 响应结构
type GenerateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	TotalDuration   int64  `json:"total_duration,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
}

// ModelInfo 本地模型信息
type ModelInfo struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	Digest     string `json:"digest,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

// tagsResponse /api/tags 响应结构
type tagsResponse struct {
	Models []ModelInfo `json:"models"`
}

// PullProgress 模型拉取进度（NDJSON 流中的一帧）
type PullProgress struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`
	Error     string `json:"error,omitempty"`
}

// apiError Ollama 错误响应
type apiError struct {
	Error string `json:"error"`
}

// NewClient 创建 Ollama 客户端。超时由调用方通过 context 控制，
// 以便长时间的拉取流不受固定超时限制。
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// BaseURL 返回引擎地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Generate 执行一次非流式文本生成
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrGenerateFailed, "failed to marshal request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewBuffer(payload))
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrGenerateFailed, "failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.transportError(ctx, err, "generate")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp, apperrors.ErrGenerateFailed)
	}

	var genResp GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, apperrors.Newf(apperrors.ErrGenerateFailed, "failed to decode response: %v", err)
	}
	return &genResp, nil
}

// Tags 返回本地已安装的模型列表
func (c *Client) Tags(ctx context.Context) ([]ModelInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrModelListFailed, "failed to create request: %v", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.transportError(ctx, err, "tags")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp, apperrors.ErrModelListFailed)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, apperrors.Newf(apperrors.ErrModelListFailed, "failed to decode response: %v", err)
	}
	return tags.Models, nil
}

// Pull 拉取模型并逐帧回调进度。回调返回错误时终止拉取。
func (c *Client) Pull(ctx context.Context, name string, onProgress func(PullProgress) error) error {
	payload, err := json.Marshal(map[string]interface{}{
		"name":   name,
		"stream": true,
	})
	if err != nil {
		return apperrors.Newf(apperrors.ErrModelPullFailed, "failed to marshal request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/pull", bytes.NewBuffer(payload))
	if err != nil {
		return apperrors.Newf(apperrors.ErrModelPullFailed, "failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.transportError(ctx, err, "pull")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.decodeError(resp, apperrors.ErrModelPullFailed)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var progress PullProgress
		if err := sonic.Unmarshal(line, &progress); err != nil {
			// Skip unparseable frames.
			continue
		}
		if progress.Error != "" {
			return apperrors.Newf(apperrors.ErrModelPullFailed, "pull failed: %s", progress.Error)
		}
		if onProgress != nil {
			if err := onProgress(progress); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return apperrors.Newf(apperrors.ErrModelPullFailed, "pull stream interrupted: %v", err)
	}
	return nil
}

// Delete 删除本地模型
func (c *Client) Delete(ctx context.Context, name string) error {
	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return apperrors.Newf(apperrors.ErrModelDeleteFailed, "failed to marshal request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/delete", bytes.NewBuffer(payload))
	if err != nil {
		return apperrors.Newf(apperrors.ErrModelDeleteFailed, "failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.transportError(ctx, err, "delete")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.Newf(apperrors.ErrModelNotFound, "model %s not found", name)
	}
	if resp.StatusCode != http.StatusOK {
		return c.decodeError(resp, apperrors.ErrModelDeleteFailed)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// transportError 将传输层错误归类为超时或不可用
func (c *Client) transportError(ctx context.Context, err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.Newf(apperrors.ErrEngineTimeout, "%s request to %s timed out", op, c.baseURL)
	}
	return apperrors.Newf(apperrors.ErrEngineUnavailable, "%s request to %s failed: %v", op, c.baseURL, err)
}

// decodeError 解析错误响应体并构造业务错误
func (c *Client) decodeError(resp *http.Response, code apperrors.ErrCode) error {
	var apiErr apiError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
		return apperrors.Newf(code, "HTTP %d from %s", resp.StatusCode, c.baseURL)
	}
	return apperrors.Newf(code, "API error (HTTP %d): %s", resp.StatusCode, apiErr.Error)
}
