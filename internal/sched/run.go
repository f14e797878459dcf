package sched

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrMemoryPressure marks a failure caused by memory exhaustion.
// Workers wrap allocation failures with it so Execute can retry the
// workload sequentially instead of giving up.
var ErrMemoryPressure = errors.New("memory pressure")

// Map applies fn to every item under the given plan and returns results
// in input order. Chunks run concurrently up to plan.Workers; output
// order is fixed by item index, not completion order.
func Map[T, R any](ctx context.Context, plan Plan, items []T, fn func(T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	if plan.Workers <= 1 {
		for i, item := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := fn(item)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(plan.Workers)

	for start := 0; start < len(items); start += plan.ChunkRows {
		end := min(start+plan.ChunkRows, len(items))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				r, err := fn(items[i])
				if err != nil {
					return err
				}
				results[i] = r
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Execute plans and runs a workload, falling back to a single
// sequential retry if the parallel pass fails under memory pressure. A
// sequential failure is final.
func Execute[T, R any](ctx context.Context, p *Planner, items []T, fn func(T) (R, error)) ([]R, error) {
	plan := p.Plan(len(items))

	results, err := Map(ctx, plan, items, fn)
	if err == nil {
		return results, nil
	}
	if !errors.Is(err, ErrMemoryPressure) || plan.Workers <= 1 {
		return nil, err
	}

	p.logger.Warn("parallel pass hit memory pressure, retrying sequentially",
		zap.Int("rows", len(items)),
		zap.Int("workers", plan.Workers))

	results, err = Map(ctx, Sequential(len(items)), items, fn)
	if err != nil {
		if errors.Is(err, ErrMemoryPressure) {
			return nil, fmt.Errorf("workload exceeds memory even sequentially: %w", err)
		}
		return nil, err
	}
	return results, nil
}
