package docchat

import (
	"context"

	"github.com/Malowking/docchat/api/docchat/v1"
	"github.com/Malowking/docchat/core/chunk"
	"github.com/Malowking/docchat/core/config"
	"github.com/Malowking/docchat/core/docstore"
)

// SearchChunks 跨全部文档按相关性搜索分块
func (c *ControllerV1) SearchChunks(ctx context.Context, req *v1.SearchChunksReq) (res *v1.SearchChunksRes, err error) {
	chunking := config.Chunking(ctx)
	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = chunking.MaxSearchResults
	}

	result := chunk.Search(docstore.Default.Snapshot(), req.Query, chunk.SearchParams{
		ChunkSize:  chunking.SearchChunkSize,
		MaxResults: maxResults,
	})

	res = &v1.SearchChunksRes{
		Query:          result.Query,
		Chunks:         make([]v1.SearchHit, 0, len(result.Chunks)),
		TotalFound:     result.TotalFound,
		TotalAvailable: result.TotalAvailable,
	}
	for _, hit := range result.Chunks {
		res.Chunks = append(res.Chunks, v1.SearchHit{
			Filename:    hit.Source,
			ChunkIndex:  hit.Index,
			TotalChunks: hit.Total,
			CharCount:   hit.CharCount,
			Preview:     hit.Preview,
		})
	}
	return res, nil
}
