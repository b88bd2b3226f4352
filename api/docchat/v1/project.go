package v1

import (
	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/internal/logic/project"
)

// ProjectsOverviewReq 项目总览请求
type ProjectsOverviewReq struct {
	g.Meta `path:"/projects" method:"get" tags:"projects" summary:"List projects with document counts"`
}

// ProjectsOverviewRes 项目总览
type ProjectsOverviewRes struct {
	g.Meta `mime:"application/json"`
	project.OverviewResult
}

// ProjectCreateReq 创建项目请求
type ProjectCreateReq struct {
	g.Meta `path:"/projects" method:"post" tags:"projects" summary:"Create a project"`
	Name   string `json:"name" v:"required"` // 项目名
}

// ProjectCreateRes 创建项目响应
type ProjectCreateRes struct {
	g.Meta `mime:"application/json"`
	project.CreateResult
}

// ProjectDeleteReq 删除项目请求
type ProjectDeleteReq struct {
	g.Meta `path:"/projects/:name" method:"delete" tags:"projects" summary:"Delete a project"`
	Name   string `p:"name" v:"required" dc:"项目名"`
	Force  bool   `p:"force" d:"false" dc:"项目非空时强制删除"`
}

// ProjectDeleteRes 删除项目响应
type ProjectDeleteRes struct {
	g.Meta `mime:"application/json"`
	project.DeleteResult
}

// ProjectNamesReq 项目名列表请求
type ProjectNamesReq struct {
	g.Meta `path:"/projects/names" method:"get" tags:"projects" summary:"List project names"`
}

// ProjectNamesRes 项目名列表
type ProjectNamesRes struct {
	g.Meta `mime:"application/json"`
	Data   []string `json:"data"`
}

// ProjectDetailReq 项目详情请求
type ProjectDetailReq struct {
	g.Meta `path:"/projects/:name/overview" method:"get" tags:"projects" summary:"Project overview with documents and chats"`
	Name   string `p:"name" v:"required" dc:"项目名"`
}

// ProjectDetailRes 项目详情
type ProjectDetailRes struct {
	g.Meta `mime:"application/json"`
	project.Detail
}

// ProjectRefreshReq 刷新项目数据请求
type ProjectRefreshReq struct {
	g.Meta `path:"/projects/:name/refresh" method:"post" tags:"projects" summary:"Re-sync project documents from disk"`
	Name   string `p:"name" v:"required" dc:"项目名"`
}

// ProjectRefreshRes 刷新项目数据响应
type ProjectRefreshRes struct {
	g.Meta `mime:"application/json"`
	project.RefreshResult
}

// MoveDocumentReq 移动文档请求
type MoveDocumentReq struct {
	g.Meta        `path:"/projects/move-document" method:"post" tags:"projects" summary:"Move a document between projects"`
	Filename      string `json:"filename" v:"required"`       // 文件名或文档键
	TargetProject string `json:"target_project" v:"required"` // 目标项目，global 表示全局
}

// MoveDocumentRes 移动文档响应
type MoveDocumentRes struct {
	g.Meta `mime:"application/json"`
	project.MoveResult
}
