package v1

import (
	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/core/models"
)

// ModelsListReq 模型目录请求
type ModelsListReq struct {
	g.Meta `path:"/models" method:"get" tags:"models" summary:"List local and remote models"`
}

// ModelsListRes 模型目录响应，含本地、远端与系统内存信息
type ModelsListRes struct {
	g.Meta `mime:"application/json"`
	models.ListResult
}

// ModelInfoReq 模型详情请求
type ModelInfoReq struct {
	g.Meta `path:"/models/:name/info" method:"get" tags:"models" summary:"Memory requirements for one model"`
	Name   string `p:"name" v:"required" dc:"模型名"`
}

// ModelInfoRes 模型详情响应
type ModelInfoRes struct {
	g.Meta `mime:"application/json"`
	models.ModelDetail
}

// ModelPullReq 拉取模型请求
type ModelPullReq struct {
	g.Meta `path:"/models/pull" method:"post" tags:"models" summary:"Pull a model and wait for completion"`
	Name   string `json:"name" v:"required"` // 模型名
}

// ModelPullRes 拉取模型响应
type ModelPullRes struct {
	g.Meta `mime:"application/json"`
	Pulled string `json:"pulled"`
}

// ModelPullProgressReq 带进度的拉取请求，进度帧以 SSE 推送
type ModelPullProgressReq struct {
	g.Meta `path:"/models/pull-progress" method:"post" tags:"models" summary:"Pull a model with SSE progress"`
	Name   string `json:"name" v:"required"` // 模型名
}

// ModelPullProgressRes 流式输出响应
type ModelPullProgressRes struct {
	g.Meta `mime:"text/event-stream"`
	// 进度帧通过 HTTP 响应流返回，无固定响应体
}

// ModelDeleteReq 删除本地模型请求
type ModelDeleteReq struct {
	g.Meta `path:"/models/:name" method:"delete" tags:"models" summary:"Delete a local model"`
	Name   string `p:"name" v:"required" dc:"模型名"`
}

// ModelDeleteRes 删除本地模型响应
type ModelDeleteRes struct {
	g.Meta  `mime:"application/json"`
	Deleted string `json:"deleted"`
}

// ModelRunReq 切换当前引擎请求
type ModelRunReq struct {
	g.Meta `path:"/models/run" method:"post" tags:"models" summary:"Activate a local model as the chat engine"`
	Name   string `json:"name" v:"required"` // 模型名
}

// ModelRunRes 切换当前引擎响应
type ModelRunRes struct {
	g.Meta   `mime:"application/json"`
	Running  string `json:"running"`
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}
