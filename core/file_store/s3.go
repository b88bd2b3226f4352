package file_store

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Malowking/docchat/core/errors"
)

// s3Mirror 文档的 S3 兼容对象存储镜像
type s3Mirror struct {
	client *minio.Client
	bucket string
}

// newS3Mirror 创建镜像客户端并确保 bucket 存在
func newS3Mirror(ctx context.Context, endpoint, accessKey, secretKey, bucket string, ssl bool) (*s3Mirror, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: ssl,
	})
	if err != nil {
		return nil, errors.Newf(errors.ErrStorageInit, "failed to create MinIO client: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, errors.Newf(errors.ErrStorageInit, "failed to check if bucket exists: %v", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Newf(errors.ErrStorageInit, "failed to create bucket: %v", err)
		}
		g.Log().Infof(ctx, "Created bucket '%s'", bucket)
	}

	return &s3Mirror{client: client, bucket: bucket}, nil
}

// upload 将本地文件上传到镜像桶
func (m *s3Mirror) upload(ctx context.Context, localPath, key string) error {
	uploadFile, err := os.Open(localPath)
	if err != nil {
		return errors.Newf(errors.ErrFileReadFailed, "failed to open local file for upload: %v", err)
	}
	defer uploadFile.Close()

	stat, err := uploadFile.Stat()
	if err != nil {
		return errors.Newf(errors.ErrFileReadFailed, "failed to get file stat: %v", err)
	}

	// 读取文件头部以判断内容类型
	buffer := make([]byte, 512)
	n, err := uploadFile.Read(buffer)
	if err != nil && err != io.EOF {
		return errors.Newf(errors.ErrFileReadFailed, "failed to read file header: %v", err)
	}
	if _, err = uploadFile.Seek(0, io.SeekStart); err != nil {
		return errors.Newf(errors.ErrFileReadFailed, "failed to seek file to beginning: %v", err)
	}
	contentType := http.DetectContentType(buffer[:n])

	_, err = m.client.PutObject(ctx, m.bucket, key, uploadFile, stat.Size(),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Newf(errors.ErrStorageUpload, "failed to upload to mirror: %v", err)
	}

	g.Log().Infof(ctx, "File uploaded to mirror: bucket=%s, key=%s", m.bucket, key)
	return nil
}

// remove 删除镜像桶中的对象
func (m *s3Mirror) remove(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Newf(errors.ErrStorageDelete, "failed to delete object %s: %v", key, err)
	}
	g.Log().Infof(ctx, "Deleted object '%s' from bucket '%s'", key, m.bucket)
	return nil
}

// move 在镜像桶内移动对象
func (m *s3Mirror) move(ctx context.Context, fromKey, toKey string) error {
	_, err := m.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: m.bucket, Object: toKey},
		minio.CopySrcOptions{Bucket: m.bucket, Object: fromKey})
	if err != nil {
		return errors.Newf(errors.ErrStorageUpload, "failed to copy object %s: %v", fromKey, err)
	}
	return m.remove(ctx, fromKey)
}
