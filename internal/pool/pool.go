// Package pool runs independent units of work with bounded concurrency.
//
// A batch never cancels itself: one failing unit does not stop the others,
// and the caller blocks until every unit has finished or timed out.
package pool

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Limits used by the task fan-out operations.
const (
	NetworkLimit = 3 // push, pull
	LocalLimit   = 5 // status refresh, safety checks
)

// Run calls fn for every item with at most limit calls in flight and returns
// the results in completion order. A limit below 1 means one at a time.
func Run[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) R) []R {
	results := make([]R, 0, len(items))
	var mu sync.Mutex

	each(limit, len(items), func(i int) {
		r := fn(ctx, items[i])
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	})

	return results
}

// Each calls fn(i) for every index in [0, n) with at most limit calls in
// flight. Each call may write only to state owned by index i.
func Each(ctx context.Context, limit, n int, fn func(ctx context.Context, i int)) {
	each(limit, n, func(i int) { fn(ctx, i) })
}

func each(limit, n int, fn func(i int)) {
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i := range n {
		g.Go(func() error {
			fn(i)
			return nil // units report their own failures
		})
	}

	_ = g.Wait()
}
