package docchat

import (
	"context"
	"fmt"
	"strings"

	"github.com/Malowking/docchat/api/docchat/v1"
	"github.com/Malowking/docchat/core/docstore"
	"github.com/Malowking/docchat/core/extract"
	"github.com/Malowking/docchat/core/file_store"
	"github.com/gogf/gf/v2/frame/g"
)

// Upload 文档上传。文件立即落盘，文本提取进入后台队列；
// 提供 url 时抓取网页正文存为 HTML 文档。
func (c *ControllerV1) Upload(ctx context.Context, req *v1.UploadReq) (res *v1.UploadRes, err error) {
	res = &v1.UploadRes{
		Uploaded:   make([]string, 0),
		Existing:   make([]string, 0),
		Errors:     make([]string, 0),
		Processing: make([]string, 0),
	}

	for _, f := range req.Files {
		filename := file_store.SafeFilename(f.Filename)
		if !extract.Supported(filename) {
			res.Errors = append(res.Errors, fmt.Sprintf("Unsupported file type: %s", f.Filename))
			continue
		}
		if file_store.Default.Exists("", filename) && !req.Overwrite {
			res.Existing = append(res.Existing, filename)
			continue
		}

		src, openErr := f.Open()
		if openErr != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Error uploading %s: %v", filename, openErr))
			continue
		}
		path, saveErr := file_store.Default.Save(ctx, "", filename, src)
		_ = src.Close()
		if saveErr != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Error uploading %s: %v", filename, saveErr))
			continue
		}

		key := docstore.Default.Track("", filename, path)
		docstore.Default.Schedule(key)
		res.Uploaded = append(res.Uploaded, key)
		res.Processing = append(res.Processing, key)
	}

	if url := strings.TrimSpace(req.URL); url != "" {
		c.uploadFromURL(ctx, url, req.Overwrite, res)
	}
	return res, nil
}

// uploadFromURL 抓取网页正文并走与文件上传相同的入库流程
func (c *ControllerV1) uploadFromURL(ctx context.Context, url string, overwrite bool, res *v1.UploadRes) {
	filename := file_store.FileNameFromURL(url)
	if file_store.Default.Exists("", filename) && !overwrite {
		res.Existing = append(res.Existing, filename)
		return
	}

	text, err := extract.Default.URL(ctx, url)
	if err != nil {
		g.Log().Warningf(ctx, "URL fetch failed for %s: %v", url, err)
		res.Errors = append(res.Errors, fmt.Sprintf("Error fetching %s: %v", url, err))
		return
	}
	path, err := file_store.Default.Save(ctx, "", filename, strings.NewReader(text))
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("Error uploading %s: %v", filename, err))
		return
	}

	key := docstore.Default.Track("", filename, path)
	docstore.Default.Schedule(key)
	res.Uploaded = append(res.Uploaded, key)
	res.Processing = append(res.Processing, key)
}
