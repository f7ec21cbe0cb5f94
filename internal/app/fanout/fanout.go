// Package fanout runs a function over a slice of inputs with bounded
// concurrency. It is used to load procedure definitions from storage in
// parallel; one failing input never cancels the others.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome for one input. Err is set when Value is not.
type Result[R any] struct {
	Value R
	Err   error
}

// Run calls fn for every item using at most limit concurrent goroutines and
// returns the results in input order. Items not yet started when ctx is
// canceled record ctx.Err() instead of calling fn. A limit below one runs
// the items sequentially.
func Run[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(max(limit, 1))
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			v, err := fn(ctx, item)
			results[i] = Result[R]{Value: v, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Split separates results into the values of successful items and the
// errors of failed ones, keyed by the input item.
func Split[T comparable, R any](items []T, results []Result[R]) (map[T]R, map[T]error) {
	values := make(map[T]R, len(results))
	errs := make(map[T]error)
	for i, r := range results {
		if r.Err != nil {
			errs[items[i]] = r.Err
			continue
		}
		values[items[i]] = r.Value
	}
	return values, errs
}
