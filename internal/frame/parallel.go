package frame

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/spacephys/driftframe/internal/monitoring"
)

// DefaultChunkSize is the number of samples handed to one worker at a time.
const DefaultChunkSize = 4096

// ParallelOptions configures RotateParallel. Zero values select defaults.
type ParallelOptions struct {
	ChunkSize int
	Workers   int
}

func (o ParallelOptions) chunkSize() int {
	if o.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return o.ChunkSize
}

func (o ParallelOptions) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// RotateParallel is Rotate split into disjoint chunks processed concurrently.
// Output is bit-identical to Rotate. Cancelling ctx stops scheduling further
// chunks and returns ctx.Err().
func RotateParallel(ctx context.Context, b *SampleBatch, opts ParallelOptions) (*Result, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	n := b.Len()
	res := newResult(n)
	chunk := opts.chunkSize()
	if n <= chunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rotateRange(b, res, 0, n)
		return res, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	chunks := 0
	for lo := 0; lo < n; lo += chunk {
		if gctx.Err() != nil {
			break
		}
		lo, hi := lo, min(lo+chunk, n)
		chunks++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rotateRange(b, res, lo, hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	monitoring.Logf("frame: rotated %d samples in %d chunks", n, chunks)
	return res, nil
}
