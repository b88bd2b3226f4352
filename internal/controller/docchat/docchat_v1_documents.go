package docchat

import (
	"context"
	"fmt"
	"strings"

	"github.com/Malowking/docchat/api/docchat/v1"
	"github.com/Malowking/docchat/core/chunk"
	"github.com/Malowking/docchat/core/config"
	"github.com/Malowking/docchat/core/docstore"
	apperrors "github.com/Malowking/docchat/core/errors"
	"github.com/Malowking/docchat/core/file_store"
	"github.com/gogf/gf/v2/frame/g"
)

// DocumentsList 文档总览，含处理进度和分块统计
func (c *ControllerV1) DocumentsList(ctx context.Context, req *v1.DocumentsListReq) (res *v1.DocumentsListRes, err error) {
	overview := docstore.Default.BuildOverview(ctx, config.Chunking(ctx).ChatChunkSize)
	return &v1.DocumentsListRes{Overview: overview}, nil
}

// DocumentChunks 返回单个文档的分块明细
func (c *ControllerV1) DocumentChunks(ctx context.Context, req *v1.DocumentChunksReq) (res *v1.DocumentChunksRes, err error) {
	doc, ok := docstore.Default.Get(req.Filename)
	if !ok || doc.Status != docstore.StatusCompleted {
		return nil, apperrors.Newf(apperrors.ErrDocumentNotFound, "Document %s not found", req.Filename)
	}

	segments := chunk.Segment(doc.Content, config.Chunking(ctx).SearchChunkSize)
	res = &v1.DocumentChunksRes{
		Filename:    req.Filename,
		TotalChunks: len(segments),
		Chunks:      make([]v1.ChunkInfo, 0, len(segments)),
	}
	for i, text := range segments {
		res.Chunks = append(res.Chunks, v1.ChunkInfo{
			ChunkIndex: i + 1,
			CharCount:  len(text),
			Preview:    chunk.Preview(text),
		})
	}
	return res, nil
}

// DocumentDelete 删除文档文件并从仓库移除
func (c *ControllerV1) DocumentDelete(ctx context.Context, req *v1.DocumentDeleteReq) (res *v1.DocumentDeleteRes, err error) {
	project, filename := file_store.SplitDocKey(req.Filename)
	if !file_store.Default.Exists(project, filename) {
		return nil, apperrors.Newf(apperrors.ErrDocumentNotFound, "Document %s not found", req.Filename)
	}
	if err = file_store.Default.Delete(ctx, project, filename); err != nil {
		return nil, err
	}
	docstore.Default.Remove(req.Filename)
	g.Log().Infof(ctx, "Document %s deleted", req.Filename)
	return &v1.DocumentDeleteRes{Deleted: req.Filename}, nil
}

// DocumentReprocess 同步重新提取文档内容
func (c *ControllerV1) DocumentReprocess(ctx context.Context, req *v1.DocumentReprocessReq) (res *v1.DocumentReprocessRes, err error) {
	project, filename := file_store.SplitDocKey(req.Filename)
	if !file_store.Default.Exists(project, filename) {
		return nil, apperrors.Newf(apperrors.ErrDocumentNotFound, "File %s not found", req.Filename)
	}

	key := docstore.Default.Track(project, filename, file_store.Default.DocPath(project, filename))
	doc, err := docstore.Default.Reprocess(ctx, key)
	if err != nil {
		return nil, err
	}
	return &v1.DocumentReprocessRes{
		Filename:    key,
		Reprocessed: true,
		TextLength:  len(doc.Content),
		HasContent:  len(strings.TrimSpace(doc.Content)) > 100,
	}, nil
}

// DocumentsStatus 全部文档的处理状态
func (c *ControllerV1) DocumentsStatus(ctx context.Context, req *v1.DocumentsStatusReq) (res *v1.DocumentsStatusRes, err error) {
	docs := docstore.Default.List()
	res = &v1.DocumentsStatusRes{
		DocumentStatus:     make(map[string]v1.DocumentState, len(docs)),
		ProcessedDocuments: make([]string, 0, len(docs)),
		TotalDocuments:     len(docs),
	}
	for _, doc := range docs {
		res.DocumentStatus[doc.Key] = documentState(doc)
		if doc.Status == docstore.StatusCompleted {
			res.ProcessedDocuments = append(res.ProcessedDocuments, doc.Key)
		}
	}
	return res, nil
}

// DocumentStatus 单个文档的处理状态
func (c *ControllerV1) DocumentStatus(ctx context.Context, req *v1.DocumentStatusReq) (res *v1.DocumentStatusRes, err error) {
	doc, ok := docstore.Default.Get(req.Filename)
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrDocumentNotFound, "Document %s not found", req.Filename)
	}
	return &v1.DocumentStatusRes{
		Filename:    req.Filename,
		Status:      documentState(doc),
		IsProcessed: doc.Status == docstore.StatusCompleted,
		TextLength:  len(doc.Content),
	}, nil
}

// DocumentRetry 重置状态并重新调度后台提取
func (c *ControllerV1) DocumentRetry(ctx context.Context, req *v1.DocumentRetryReq) (res *v1.DocumentRetryRes, err error) {
	project, filename := file_store.SplitDocKey(req.Filename)
	if !file_store.Default.Exists(project, filename) {
		return nil, apperrors.Newf(apperrors.ErrDocumentNotFound, "File %s not found", req.Filename)
	}

	key := docstore.Default.Track(project, filename, file_store.Default.DocPath(project, filename))
	if err = docstore.Default.Retry(key); err != nil {
		return nil, err
	}
	return &v1.DocumentRetryRes{
		Message: fmt.Sprintf("Retry processing initialized for %s", key),
		Status:  docstore.StatusPending,
	}, nil
}

// documentState 转换为接口层的状态明细
func documentState(doc docstore.Document) v1.DocumentState {
	return v1.DocumentState{
		Status:     doc.Status,
		Progress:   doc.Progress,
		Error:      doc.Error,
		UploadedAt: doc.UploadedAt,
	}
}
