package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

type SearchChunksReq struct {
	g.Meta     `path:"/search-chunks" method:"post" tags:"search" summary:"Search chunks across all documents"`
	Query      string `p:"query" dc:"search query" v:"required"`
	MaxResults int    `p:"max_results" dc:"maximum hits returned, defaults to chunking.maxChunksPerQuery" v:"min:0"`
}

type SearchChunksRes struct {
	g.Meta         `mime:"application/json"`
	Query          string      `json:"query"`
	Chunks         []SearchHit `json:"chunks"`
	TotalFound     int         `json:"total_found"`
	TotalAvailable int         `json:"total_available"`
}

// SearchHit 单个命中分块，preview 截断到 500 字符
type SearchHit struct {
	Filename    string `json:"filename"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
	CharCount   int    `json:"char_count"`
	Preview     string `json:"preview"`
}
