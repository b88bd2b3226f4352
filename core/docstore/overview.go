package docstore

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/core/chunk"
)

// DocumentInfo 单个文档的处理与分块信息
type DocumentInfo struct {
	ProcessingStatus   Status `json:"processing_status"`
	ProcessingProgress int    `json:"processing_progress"`
	IsProcessed        bool   `json:"is_processed"`
	Error              string `json:"error,omitempty"`
	TotalChunks        int    `json:"total_chunks"`
	TotalChars         int    `json:"total_chars"`
}

// ProcessingSummary 按状态统计的文档数
type ProcessingSummary struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Error      int `json:"error"`
}

// Overview 文档总览
type Overview struct {
	Documents         []string                `json:"documents"`
	DocumentInfo      map[string]DocumentInfo `json:"document_info"`
	TotalChunks       int                     `json:"total_chunks"`
	ProcessingSummary ProcessingSummary       `json:"processing_summary"`
}

// BuildOverview 生成文档总览。仓库为空时先与文件系统同步一次。
func (s *Store) BuildOverview(ctx context.Context, chunkSize int) Overview {
	s.mu.RLock()
	empty := len(s.docs) == 0
	s.mu.RUnlock()
	if empty {
		if _, _, err := s.Sync(ctx); err != nil {
			g.Log().Warningf(ctx, "Document sync failed: %v", err)
		}
	}

	docs := s.List()
	chunks := chunk.Assemble(s.Snapshot(), chunkSize)

	overview := Overview{
		Documents:    make([]string, 0, len(docs)),
		DocumentInfo: make(map[string]DocumentInfo, len(docs)),
		TotalChunks:  len(chunks),
	}
	for _, doc := range docs {
		overview.Documents = append(overview.Documents, doc.Key)
		overview.DocumentInfo[doc.Key] = DocumentInfo{
			ProcessingStatus:   doc.Status,
			ProcessingProgress: doc.Progress,
			IsProcessed:        doc.Status == StatusCompleted,
			Error:              doc.Error,
		}
		switch doc.Status {
		case StatusPending:
			overview.ProcessingSummary.Pending++
		case StatusProcessing:
			overview.ProcessingSummary.Processing++
		case StatusCompleted:
			overview.ProcessingSummary.Completed++
		case StatusError:
			overview.ProcessingSummary.Error++
		}
	}
	for _, ch := range chunks {
		info, ok := overview.DocumentInfo[ch.Source]
		if !ok {
			continue
		}
		info.TotalChunks = ch.Total
		info.TotalChars += ch.Length
		overview.DocumentInfo[ch.Source] = info
	}
	return overview
}
