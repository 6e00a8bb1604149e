// Package pipeline provides composable query stages for building
// denormalized views over normalized relations: filter rows, attach related
// records, derive computed fields. A lookup that finds nothing attaches an
// empty result — absence of relations is never an error.
package pipeline

import "context"

// Stage transforms a working set of rows.
type Stage[T any] func(ctx context.Context, rows []T) ([]T, error)

// Run threads the seed rows through each stage in order, short-circuiting on
// the first error.
func Run[T any](ctx context.Context, seed []T, stages ...Stage[T]) ([]T, error) {
	rows := seed
	var err error
	for _, stage := range stages {
		rows, err = stage(ctx, rows)
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// Match keeps only rows the predicate accepts.
func Match[T any](keep func(T) bool) Stage[T] {
	return func(ctx context.Context, rows []T) ([]T, error) {
		out := rows[:0:0]
		for _, row := range rows {
			if keep(row) {
				out = append(out, row)
			}
		}
		return out, nil
	}
}

// Lookup attaches related records to each row. The fetch function returns the
// enriched row; fetching zero relations is expected to produce an empty
// attachment, not an error.
func Lookup[T any](fetch func(ctx context.Context, row T) (T, error)) Stage[T] {
	return func(ctx context.Context, rows []T) ([]T, error) {
		out := make([]T, 0, len(rows))
		for _, row := range rows {
			enriched, err := fetch(ctx, row)
			if err != nil {
				return nil, err
			}
			out = append(out, enriched)
		}
		return out, nil
	}
}

// Derive computes fields on each row without touching the store.
func Derive[T any](fn func(row T) T) Stage[T] {
	return func(ctx context.Context, rows []T) ([]T, error) {
		out := make([]T, 0, len(rows))
		for _, row := range rows {
			out = append(out, fn(row))
		}
		return out, nil
	}
}

// Project maps the working rows into their final shape. It runs after the
// pipeline because it changes the row type.
func Project[T, U any](rows []T, fn func(row T) U) []U {
	out := make([]U, 0, len(rows))
	for _, row := range rows {
		out = append(out, fn(row))
	}
	return out
}
