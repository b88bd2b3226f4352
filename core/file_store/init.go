package file_store

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/core/config"
)

// Init 按配置初始化全局存储。storage.type 为 s3 且配置完整时
// 启用镜像，否则仅使用本地存储。
func Init(ctx context.Context) error {
	store := New(config.Docs(ctx).Dir)

	storageType := g.Cfg().MustGet(ctx, "storage.type", "local").String()
	switch storageType {
	case "s3":
		endpoint := g.Cfg().MustGet(ctx, "storage.s3.endpoint", "").String()
		if endpoint == "" {
			g.Log().Info(ctx, "S3 mirror not configured, using local storage only")
			break
		}
		accessKey := g.Cfg().MustGet(ctx, "storage.s3.accessKey").String()
		secretKey := g.Cfg().MustGet(ctx, "storage.s3.secretKey").String()
		bucket := g.Cfg().MustGet(ctx, "storage.s3.bucket").String()
		ssl := g.Cfg().MustGet(ctx, "storage.s3.ssl", false).Bool()

		mirror, err := newS3Mirror(ctx, endpoint, accessKey, secretKey, bucket, ssl)
		if err != nil {
			return err
		}
		store.mirror = mirror
		g.Log().Info(ctx, "Using local storage with S3 mirror")
	default:
		g.Log().Info(ctx, "Using local storage")
	}

	if err := store.EnsureDirectories(); err != nil {
		return err
	}
	Default = store
	return nil
}
