package v1

import (
	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/core/models"
)

// SystemMemoryReq 系统内存信息请求
type SystemMemoryReq struct {
	g.Meta `path:"/system/memory" method:"get" tags:"system" summary:"System memory info"`
}

// SystemMemoryRes 系统内存信息
type SystemMemoryRes struct {
	g.Meta `mime:"application/json"`
	models.MemoryStats
}

// SystemInfoReq 系统资源信息请求
type SystemInfoReq struct {
	g.Meta `path:"/system/info" method:"get" tags:"system" summary:"Memory, CPU and disk info"`
}

// SystemInfoRes 系统资源信息
type SystemInfoRes struct {
	g.Meta `mime:"application/json"`
	models.SystemInfo
}
