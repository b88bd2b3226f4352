package docchat

import (
	"context"
	"fmt"

	"github.com/Malowking/docchat/api/docchat/v1"
	"github.com/Malowking/docchat/core/engine"
)

// EngineVerify 手动验证当前引擎，失败时尝试重新选择默认引擎。
// 始终返回 200，结果由 verified 字段表达。
func (c *ControllerV1) EngineVerify(ctx context.Context, req *v1.EngineVerifyReq) (res *v1.EngineVerifyRes, err error) {
	result, verifyErr := engine.Default.ManualVerify(ctx)
	if verifyErr != nil {
		return &v1.EngineVerifyRes{
			Verified:       false,
			Message:        "No working engines available. Please download a model first.",
			PreviousEngine: result.PreviousEngine,
		}, nil
	}

	res = &v1.EngineVerifyRes{
		Verified: result.Verified,
		Engine:   result.Engine,
		Message:  fmt.Sprintf("Engine %s is working correctly", result.Engine),
	}
	if result.Reinitialized {
		res.Message = fmt.Sprintf("Previous engine failed, switched to %s", result.Engine)
		res.PreviousEngine = result.PreviousEngine
	}
	return res, nil
}

// EngineHealth 当前引擎的健康探测结果
func (c *ControllerV1) EngineHealth(ctx context.Context, req *v1.EngineHealthReq) (res *v1.EngineHealthRes, err error) {
	if name, _ := engine.Default.Current(); name == "" {
		return &v1.EngineHealthRes{Healthy: false, Message: "No engine selected"}, nil
	}

	health := engine.Default.HealthCheck(ctx)
	res = &v1.EngineHealthRes{
		Healthy:             health.Responding,
		Engine:              health.Model,
		ResponseTimeSeconds: health.ResponseTime,
	}
	if health.Responding {
		res.Message = fmt.Sprintf("Engine %s is healthy", health.Model)
	} else {
		res.Message = fmt.Sprintf("Engine %s failed health check", health.Model)
	}
	return res, nil
}

// Status 引擎连接状态与本地模型列表
func (c *ControllerV1) Status(ctx context.Context, req *v1.StatusReq) (res *v1.StatusRes, err error) {
	return &v1.StatusRes{Status: engine.Default.EngineStatus(ctx)}, nil
}
