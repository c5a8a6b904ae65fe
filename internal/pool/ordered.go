// Package pool runs independent jobs on a bounded set of goroutines while
// keeping results in submission order.
package pool

import (
	"context"
	"iter"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type slot[T, R any] struct {
	in   T
	out  R
	err  error
	done chan struct{}
}

// Ordered pulls inputs from next, runs fn on up to workers of them at a
// time and hands each result to emit in the order the inputs were produced.
// next is consumed on a single goroutine; emit always runs on the caller's
// goroutine.
//
// The first error from fn or emit stops the run. An fn error is the one for
// the earliest failing input, and results for inputs before it are still
// emitted.
func Ordered[T, R any](
	ctx context.Context,
	workers int,
	next iter.Seq[T],
	fn func(context.Context, T) (R, error),
	emit func(T, R) error,
) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	pending := make(chan *slot[T, R], workers)
	go func() {
		defer close(pending)
		for in := range next {
			s := &slot[T, R]{in: in, done: make(chan struct{})}
			select {
			case pending <- s:
			case <-gctx.Done():
				return
			}
			g.Go(func() error {
				defer close(s.done)
				s.out, s.err = fn(gctx, s.in)
				return s.err
			})
		}
	}()

	var fnErr, emitErr error
	failed := false
	for s := range pending {
		if failed {
			continue
		}
		<-s.done
		if s.err != nil {
			fnErr = s.err
			failed = true
			continue
		}
		if err := emit(s.in, s.out); err != nil {
			emitErr = err
			failed = true
			cancel()
		}
	}

	// errgroup keeps the earliest error in time; report the earliest in
	// input order instead.
	waitErr := g.Wait()
	if fnErr != nil {
		return fnErr
	}
	if waitErr != nil {
		return waitErr
	}
	if emitErr != nil {
		return emitErr
	}
	return ctx.Err()
}
