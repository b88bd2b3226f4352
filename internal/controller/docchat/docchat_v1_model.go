package docchat

import (
	"context"
	"fmt"

	"github.com/Malowking/docchat/api/docchat/v1"
	"github.com/Malowking/docchat/core/common"
	"github.com/Malowking/docchat/core/engine"
	apperrors "github.com/Malowking/docchat/core/errors"
	"github.com/Malowking/docchat/core/models"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/net/ghttp"
)

// ModelsList 列出本地与可下载模型，附带内存需求和系统内存
func (c *ControllerV1) ModelsList(ctx context.Context, req *v1.ModelsListReq) (res *v1.ModelsListRes, err error) {
	return &v1.ModelsListRes{ListResult: models.Default.List(ctx)}, nil
}

// ModelInfo 单个模型的内存需求详情
func (c *ControllerV1) ModelInfo(ctx context.Context, req *v1.ModelInfoReq) (res *v1.ModelInfoRes, err error) {
	return &v1.ModelInfoRes{ModelDetail: models.Default.Detail(ctx, req.Name)}, nil
}

// ModelPull 拉取模型并等待完成
func (c *ControllerV1) ModelPull(ctx context.Context, req *v1.ModelPullReq) (res *v1.ModelPullRes, err error) {
	g.Log().Infof(ctx, "Pulling model %s", req.Name)
	if err = models.Default.Pull(ctx, req.Name); err != nil {
		return nil, err
	}
	return &v1.ModelPullRes{Pulled: req.Name}, nil
}

// ModelPullProgress 拉取模型，进度帧以SSE流推送
func (c *ControllerV1) ModelPullProgress(ctx context.Context, req *v1.ModelPullProgressReq) (res *v1.ModelPullProgressRes, err error) {
	r := ghttp.RequestFromCtx(ctx)
	common.SetSSEHeaders(r)

	pullErr := models.Default.PullWithProgress(ctx, req.Name, func(frame models.ProgressFrame) error {
		return common.WriteSSEFrame(r, frame)
	})
	if pullErr != nil {
		g.Log().Errorf(ctx, "Model pull failed for %s: %v", req.Name, pullErr)
	}
	common.WriteSSEDone(r)
	return nil, nil
}

// ModelDelete 删除本地模型
func (c *ControllerV1) ModelDelete(ctx context.Context, req *v1.ModelDeleteReq) (res *v1.ModelDeleteRes, err error) {
	if err = models.Default.Delete(ctx, req.Name); err != nil {
		return nil, err
	}
	return &v1.ModelDeleteRes{Deleted: req.Name}, nil
}

// ModelRun 把本地模型设为当前引擎，切换前做一次生成验证
func (c *ControllerV1) ModelRun(ctx context.Context, req *v1.ModelRunReq) (res *v1.ModelRunRes, err error) {
	local, err := engine.Default.LocalModels(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEngineNotConnected, err, "Cannot reach Ollama")
	}
	found := false
	for _, m := range local {
		if m.Name == req.Name {
			found = true
			break
		}
	}
	if !found {
		return nil, apperrors.Newf(apperrors.ErrModelNotFound, "Model %s not found locally", req.Name)
	}

	if err = engine.Default.SetEngine(ctx, req.Name); err != nil {
		return nil, apperrors.Newf(apperrors.ErrModelVerifyFailed,
			"Model %s failed verification test. It may be loading or corrupted.", req.Name)
	}
	return &v1.ModelRunRes{
		Running:  req.Name,
		Verified: true,
		Message:  fmt.Sprintf("Model %s is now active and responding", req.Name),
	}, nil
}
