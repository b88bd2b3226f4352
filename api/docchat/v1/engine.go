package v1

import (
	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/core/engine"
)

// EngineVerifyReq 手动验证当前引擎请求
type EngineVerifyReq struct {
	g.Meta `path:"/engine/verify" method:"post" tags:"engine" summary:"Verify the current engine"`
}

// EngineVerifyRes 手动验证结果
type EngineVerifyRes struct {
	g.Meta         `mime:"application/json"`
	Verified       bool   `json:"verified"`
	Engine         string `json:"engine,omitempty"`
	Message        string `json:"message"`
	PreviousEngine string `json:"previous_engine,omitempty"`
}

// EngineHealthReq 引擎健康检查请求
type EngineHealthReq struct {
	g.Meta `path:"/engine/health" method:"get" tags:"engine" summary:"Detailed engine health"`
}

// EngineHealthRes 引擎健康检查结果
type EngineHealthRes struct {
	g.Meta              `mime:"application/json"`
	Healthy             bool    `json:"healthy"`
	Engine              string  `json:"engine,omitempty"`
	ResponseTimeSeconds float64 `json:"response_time_seconds,omitempty"`
	Message             string  `json:"message"`
}

// StatusReq 引擎连接状态请求
type StatusReq struct {
	g.Meta `path:"/status" method:"get" tags:"engine" summary:"Engine connectivity status"`
}

// StatusRes 引擎连接状态
type StatusRes struct {
	g.Meta `mime:"application/json"`
	engine.Status
}
