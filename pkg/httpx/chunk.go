package httpx

import (
	"context"
	"errors"
	"fmt"

	"github.com/MehtiSini/HappyTools-sub000/pkg/collection"
	"go.uber.org/zap"
)

// ChunkFailure describes one chunk that could not be posted.
type ChunkFailure struct {
	Index  int
	Offset int
	Size   int
	Err    error
}

// ChunkReport summarizes a PostChunk call.
type ChunkReport struct {
	Chunks    int
	Succeeded int
	Failed    []ChunkFailure
}

// Err joins the errors of every failed chunk, or returns nil.
func (r ChunkReport) Err() error {
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f.Err
	}
	return errors.Join(errs...)
}

// PostChunk posts items to path as JSON arrays of at most size elements, one
// chunk after the other. A size of zero or less uses the client's configured
// chunk size. When continueOnChunkError is false the first failure stops the
// remaining chunks and is returned; otherwise failures are logged, recorded
// in the report and posting goes on. Cancelling ctx stops before the next
// chunk.
func PostChunk[T any](ctx context.Context, c *Client, path string, items []T, size int, continueOnChunkError bool) (ChunkReport, error) {
	if size <= 0 {
		size = c.chunkSize
	}
	chunks := collection.Chunk(items, size)
	report := ChunkReport{Chunks: len(chunks)}

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("post chunk %d of %d: %w", i+1, len(chunks), err)
		}
		err := c.PostJSON(ctx, path, chunk, nil)
		if err == nil {
			report.Succeeded++
			continue
		}
		if !continueOnChunkError {
			return report, fmt.Errorf("post chunk %d of %d: %w", i+1, len(chunks), err)
		}
		zap.L().Warn("httpx: chunk failed, continuing",
			zap.String("path", path),
			zap.Int("chunk", i+1),
			zap.Int("size", len(chunk)),
			zap.Error(err))
		report.Failed = append(report.Failed, ChunkFailure{Index: i, Offset: i * size, Size: len(chunk), Err: err})
	}
	return report, nil
}
