package cipher

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/BackendStack21/tricipher-go/key"
)

// Job pairs a text with the key it should be processed with.
type Job struct {
	Text string
	Key  *key.Key
}

// EncodeAll encodes every job concurrently. Results keep the order of jobs.
// The first failure cancels the remaining work and is returned.
func EncodeAll(ctx context.Context, jobs []Job) ([]string, error) {
	return runAll(ctx, jobs, Encode)
}

// DecodeAll decodes every job concurrently. Results keep the order of jobs.
func DecodeAll(ctx context.Context, jobs []Job) ([]string, error) {
	return runAll(ctx, jobs, Decode)
}

func runAll(ctx context.Context, jobs []Job, fn func(string, *key.Key) (string, error)) ([]string, error) {
	results := make([]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := fn(job.Text, job.Key)
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
