package docchat

import (
	"context"
	"sync"

	"github.com/Malowking/docchat/api/docchat/v1"
	"github.com/Malowking/docchat/core/docstore"
	"github.com/Malowking/docchat/core/file_store"
	"github.com/Malowking/docchat/internal/logic/history"
	"github.com/Malowking/docchat/internal/logic/project"
)

var (
	projectService     *project.Service
	projectServiceOnce sync.Once
)

// getProjectService 延迟初始化并获取项目服务
func getProjectService(ctx context.Context) *project.Service {
	projectServiceOnce.Do(func() {
		projectService = project.New(ctx, file_store.Default, docstore.Default, history.Default)
	})
	return projectService
}

// ProjectsOverview 项目总览，含文档与会话分组
func (c *ControllerV1) ProjectsOverview(ctx context.Context, req *v1.ProjectsOverviewReq) (res *v1.ProjectsOverviewRes, err error) {
	result, err := getProjectService(ctx).Overview(ctx)
	if err != nil {
		return nil, err
	}
	return &v1.ProjectsOverviewRes{OverviewResult: *result}, nil
}

// ProjectCreate 创建项目
func (c *ControllerV1) ProjectCreate(ctx context.Context, req *v1.ProjectCreateReq) (res *v1.ProjectCreateRes, err error) {
	result, err := getProjectService(ctx).Create(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	return &v1.ProjectCreateRes{CreateResult: *result}, nil
}

// ProjectDelete 删除项目，force 时连同项目文档一并清除
func (c *ControllerV1) ProjectDelete(ctx context.Context, req *v1.ProjectDeleteReq) (res *v1.ProjectDeleteRes, err error) {
	result, err := getProjectService(ctx).Delete(ctx, req.Name, req.Force)
	if err != nil {
		return nil, err
	}
	return &v1.ProjectDeleteRes{DeleteResult: *result}, nil
}

// ProjectNames 项目名列表
func (c *ControllerV1) ProjectNames(ctx context.Context, req *v1.ProjectNamesReq) (res *v1.ProjectNamesRes, err error) {
	names, err := getProjectService(ctx).Names(ctx)
	if err != nil {
		return nil, err
	}
	return &v1.ProjectNamesRes{Data: names}, nil
}

// ProjectDetail 单个项目的文档加载详情
func (c *ControllerV1) ProjectDetail(ctx context.Context, req *v1.ProjectDetailReq) (res *v1.ProjectDetailRes, err error) {
	result, err := getProjectService(ctx).Detail(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	return &v1.ProjectDetailRes{Detail: *result}, nil
}

// ProjectRefresh 与磁盘重新对账并返回项目最新计数
func (c *ControllerV1) ProjectRefresh(ctx context.Context, req *v1.ProjectRefreshReq) (res *v1.ProjectRefreshRes, err error) {
	result, err := getProjectService(ctx).Refresh(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	return &v1.ProjectRefreshRes{RefreshResult: *result}, nil
}

// MoveDocument 在项目之间移动文档
func (c *ControllerV1) MoveDocument(ctx context.Context, req *v1.MoveDocumentReq) (res *v1.MoveDocumentRes, err error) {
	result, err := getProjectService(ctx).MoveDocument(ctx, req.Filename, req.TargetProject)
	if err != nil {
		return nil, err
	}
	return &v1.MoveDocumentRes{MoveResult: *result}, nil
}
