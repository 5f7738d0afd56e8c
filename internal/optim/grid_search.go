// Package optim searches engine parameter grids for the best value of a
// run metric.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/sim"
)

// Evaluate runs one candidate config and returns its metrics.
type Evaluate func(ctx context.Context, cfg *config.Config) (map[string]float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize flips the search to keep the largest metric value.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

// Search tries every combination of the ranges on a copy of base. Failed
// candidates are skipped; an error is returned only when none succeed or
// ctx is cancelled.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	eval Evaluate,
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	for _, name := range g.paramNames {
		if _, ok := base.GetParam(name); !ok {
			return nil, 0, fmt.Errorf("unknown parameter %q", name)
		}
	}

	best := math.Inf(1)
	if g.maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), base, eval, metricName, &best, &bestParams)

	if err := ctx.Err(); err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("no candidate produced %q", metricName)
	}
	return bestParams, best, nil
}

func (g *GridSearch) better(val, best float64) bool {
	if g.maximize {
		return val > best
	}
	return val < best
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	eval Evaluate,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		cfg := base.Clone()
		for k, v := range current {
			_ = cfg.SetParam(k, v)
		}

		metrics, err := eval(ctx, cfg)
		if err != nil {
			return
		}

		val, ok := metrics[metricName]
		if ok && g.better(val, *best) {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, base, eval, metricName, best, bestParams)
	}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// SimEvaluator evaluates candidates with a headless run.
func SimEvaluator(run sim.Config, newSim func(*config.Config) (*sim.Simulator, error)) Evaluate {
	return func(ctx context.Context, cfg *config.Config) (map[string]float64, error) {
		s, err := newSim(cfg)
		if err != nil {
			return nil, err
		}
		res, err := s.Run(ctx, run)
		if err != nil {
			return nil, err
		}
		return res.Metrics, nil
	}
}
