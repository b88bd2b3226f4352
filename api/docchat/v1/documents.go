package v1

import (
	"time"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/net/ghttp"

	"github.com/Malowking/docchat/core/docstore"
)

// DocumentsListReq 文档总览请求
type DocumentsListReq struct {
	g.Meta `path:"/documents" method:"get" tags:"documents" summary:"List loaded documents with processing info"`
}

// DocumentsListRes 文档总览响应
type DocumentsListRes struct {
	g.Meta `mime:"application/json"`
	docstore.Overview
}

// DocumentChunksReq 单文档分块信息请求
type DocumentChunksReq struct {
	g.Meta   `path:"/documents/:filename/chunks" method:"get" tags:"documents" summary:"Chunk details for one document"`
	Filename string `p:"filename" v:"required" dc:"文档键"`
}

// DocumentChunksRes 单文档分块信息响应
type DocumentChunksRes struct {
	g.Meta      `mime:"application/json"`
	Filename    string      `json:"filename"`
	TotalChunks int         `json:"total_chunks"`
	Chunks      []ChunkInfo `json:"chunks"`
}

// ChunkInfo 一个分块的摘要
type ChunkInfo struct {
	ChunkIndex int    `json:"chunk_index"`
	CharCount  int    `json:"char_count"`
	Preview    string `json:"preview"`
}

// UploadReq 文档上传请求，支持多文件与网页抓取
type UploadReq struct {
	g.Meta    `path:"/upload" method:"post" mime:"multipart/form-data" tags:"documents" summary:"Upload documents"`
	Files     ghttp.UploadFiles `p:"files" type:"file" dc:"上传文件，可多选"`
	URL       string            `p:"url" dc:"抓取该网页作为文档"`
	Overwrite bool              `p:"overwrite" d:"false" dc:"覆盖同名文档"`
}

// UploadRes 文档上传结果
type UploadRes struct {
	g.Meta     `mime:"application/json"`
	Uploaded   []string `json:"uploaded"`
	Existing   []string `json:"existing"`
	Errors     []string `json:"errors"`
	Processing []string `json:"processing"`
}

// DocumentDeleteReq 删除文档请求
type DocumentDeleteReq struct {
	g.Meta   `path:"/documents/:filename" method:"delete" tags:"documents" summary:"Delete a document"`
	Filename string `p:"filename" v:"required" dc:"文档键"`
}

// DocumentDeleteRes 删除文档响应
type DocumentDeleteRes struct {
	g.Meta  `mime:"application/json"`
	Deleted string `json:"deleted"`
}

// DocumentReprocessReq 同步重新提取请求
type DocumentReprocessReq struct {
	g.Meta   `path:"/documents/reprocess/:filename" method:"post" tags:"documents" summary:"Re-extract a document synchronously"`
	Filename string `p:"filename" v:"required" dc:"文档键"`
}

// DocumentReprocessRes 同步重新提取结果
type DocumentReprocessRes struct {
	g.Meta      `mime:"application/json"`
	Filename    string `json:"filename"`
	Reprocessed bool   `json:"reprocessed"`
	TextLength  int    `json:"text_length"`
	HasContent  bool   `json:"has_content"`
}

// DocumentsStatusReq 全部文档处理状态请求
type DocumentsStatusReq struct {
	g.Meta `path:"/documents/status" method:"get" tags:"documents" summary:"Processing status of all documents"`
}

// DocumentsStatusRes 全部文档处理状态
type DocumentsStatusRes struct {
	g.Meta             `mime:"application/json"`
	DocumentStatus     map[string]DocumentState `json:"document_status"`
	ProcessedDocuments []string                 `json:"processed_documents"`
	TotalDocuments     int                      `json:"total_documents"`
}

// DocumentStatusReq 单文档处理状态请求
type DocumentStatusReq struct {
	g.Meta   `path:"/documents/status/:filename" method:"get" tags:"documents" summary:"Processing status of one document"`
	Filename string `p:"filename" v:"required" dc:"文档键"`
}

// DocumentStatusRes 单文档处理状态
type DocumentStatusRes struct {
	g.Meta      `mime:"application/json"`
	Filename    string        `json:"filename"`
	Status      DocumentState `json:"status"`
	IsProcessed bool          `json:"is_processed"`
	TextLength  int           `json:"text_length"`
}

// DocumentState 文档处理状态明细
type DocumentState struct {
	Status     docstore.Status `json:"status"`
	Progress   int             `json:"progress"`
	Error      string          `json:"error,omitempty"`
	UploadedAt time.Time       `json:"uploaded_at"`
}

// DocumentRetryReq 重试文档处理请求
type DocumentRetryReq struct {
	g.Meta   `path:"/documents/:filename/retry" method:"post" tags:"documents" summary:"Retry processing a failed document"`
	Filename string `p:"filename" v:"required" dc:"文档键"`
}

// DocumentRetryRes 重试文档处理响应
type DocumentRetryRes struct {
	g.Meta  `mime:"application/json"`
	Message string          `json:"message"`
	Status  docstore.Status `json:"status"`
}
