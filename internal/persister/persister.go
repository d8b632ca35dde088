// Package persister writes product image rows in bounded chunks. Each
// chunk is an independent unit: one failing chunk is logged and
// reported, and the rest of the run keeps going.
package persister

import (
	"context"
	"fmt"
	"log"

	"github.com/getsentry/sentry-go"

	"github.com/trunov/catalogpix/internal/entities"
)

// DefaultChunkSize keeps each write comfortably under the store's
// statement limits.
const DefaultChunkSize = 100

type Store interface {
	UpsertImages(ctx context.Context, rows []entities.ProductImage) error
}

// ChunkError records one failed chunk by its index in the run.
type ChunkError struct {
	Index int
	Err   error
}

func (e ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Err)
}

type Persister struct {
	store     Store
	chunkSize int
}

func New(store Store) *Persister {
	return &Persister{store: store, chunkSize: DefaultChunkSize}
}

// Persist upserts rows in chunks of at most chunkSize. It returns the
// number of rows actually persisted and one ChunkError per failed
// chunk; it never aborts early.
func (p *Persister) Persist(ctx context.Context, rows []entities.ProductImage) (int, []ChunkError) {
	size := p.chunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}

	var (
		persisted int
		failures  []ChunkError
	)
	for start, idx := 0, 0; start < len(rows); start, idx = start+size, idx+1 {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		if err := p.store.UpsertImages(ctx, chunk); err != nil {
			log.Printf("persister: chunk %d failed (%d rows): %v", idx, len(chunk), err)
			sentry.CaptureException(fmt.Errorf("persist chunk %d: %w", idx, err))
			failures = append(failures, ChunkError{Index: idx, Err: err})
			continue
		}
		persisted += len(chunk)
	}
	return persisted, failures
}
