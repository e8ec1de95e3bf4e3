package ibu

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eunmann/ibu/internal/logctx"
)

// Processor is the per-chunk record callback for ProcessParallel.
//
// Each worker operates on its own clone, so ProcessRecord and OnChunkComplete
// never race within a clone. State shared across clones (for global
// aggregation) is the implementation's responsibility to protect, typically a
// mutex-guarded accumulator or atomics held behind a shared pointer; the
// engine performs no synchronization beyond joining workers.
type Processor interface {
	// ProcessRecord is called once per record, in the record's file order
	// within the chunk. Returning an error stops this worker's chunk.
	ProcessRecord(rec Record) error

	// OnChunkComplete is called exactly once after the worker exhausts its
	// chunk, the join point for folding thread-local state into shared state.
	OnChunkComplete() error

	// Clone returns an independent copy for one worker. Local fields must not
	// be shared between clones.
	Clone() Processor
}

// ProcessParallel partitions the record region into contiguous non-overlapping
// chunks of near-equal size (the last chunk absorbs the remainder) and runs
// one cloned processor per chunk concurrently. Chunk-to-worker completion
// order is unspecified; within a chunk records are processed in file order.
//
// workers == 0 means all logically available processors. The chunk count
// never exceeds the record count. The first error encountered is returned
// after all in-flight workers have finished or failed; cancellation is
// error-driven only and already-running workers are not preempted.
//
// The context carries the logger only.
func (r *MmapReader) ProcessParallel(ctx context.Context, proto Processor, workers int) error {
	k := len(r.records)
	if k == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > k {
		workers = k
	}

	log := logctx.FromContext(ctx)
	start := time.Now()
	log.Debug().
		Int("records_count", k).
		Int("workers_count", workers).
		Msg("starting parallel processing")

	per := k / workers
	rem := k % workers

	g := new(errgroup.Group)
	for i := range workers {
		lo := i * per
		hi := lo + per
		if i == workers-1 {
			hi += rem
		}
		chunk := r.records[lo:hi]
		p := proto.Clone()
		g.Go(func() error {
			for _, rec := range chunk {
				if err := p.ProcessRecord(rec); err != nil {
					return fmt.Errorf("chunk %d: %w", i, err)
				}
			}
			if err := p.OnChunkComplete(); err != nil {
				return fmt.Errorf("chunk %d complete: %w", i, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.Debug().
		Int("records_count", k).
		Int("workers_count", workers).
		Dur("duration_ms", time.Since(start)).
		Msg("parallel processing complete")
	return nil
}
