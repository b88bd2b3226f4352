package docchat

import (
	"context"

	"github.com/Malowking/docchat/api/docchat/v1"
	"github.com/Malowking/docchat/core/models"
)

// SystemMemory 系统内存概况
func (c *ControllerV1) SystemMemory(ctx context.Context, req *v1.SystemMemoryReq) (res *v1.SystemMemoryRes, err error) {
	return &v1.SystemMemoryRes{MemoryStats: models.SystemMemory(ctx)}, nil
}

// SystemInfo 内存、CPU 与磁盘概况
func (c *ControllerV1) SystemInfo(ctx context.Context, req *v1.SystemInfoReq) (res *v1.SystemInfoRes, err error) {
	return &v1.SystemInfoRes{SystemInfo: models.Info(ctx)}, nil
}
