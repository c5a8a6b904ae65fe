package verify

import (
	"context"
	"slices"
	"sync/atomic"

	"hashsum/internal/digest"
	"hashsum/internal/manifest"
	"hashsum/internal/metrics"
	"hashsum/internal/pool"
)

// HashFiles digests files and passes each one to emit as a manifest entry,
// in the order given. The first file that cannot be read stops the run and
// its *digest.ReadError is returned; entries for earlier files have already
// been emitted by then.
func HashFiles(ctx context.Context, files []string, alg digest.Algorithm, opts Options, emit func(manifest.Entry) error) error {
	if opts.Stats == nil {
		opts.Stats = &metrics.Stats{}
	}
	stats := opts.Stats
	onBytes := opts.onBytes()
	atomic.AddInt64(&stats.Total, int64(len(files)))

	return pool.Ordered(ctx, opts.Workers, slices.Values(files),
		func(_ context.Context, path string) (string, error) {
			sum, err := digest.File(path, alg, onBytes)
			if err != nil {
				if digest.IsNotFound(err) {
					atomic.AddInt64(&stats.NotFound, 1)
				} else {
					atomic.AddInt64(&stats.ReadErrors, 1)
				}
				return "", err
			}
			return sum, nil
		},
		func(path, sum string) error {
			atomic.AddInt64(&stats.Processed, 1)
			atomic.AddInt64(&stats.OK, 1)
			return emit(manifest.Entry{Digest: sum, Filename: path})
		},
	)
}
