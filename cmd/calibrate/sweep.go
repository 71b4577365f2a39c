package main

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"lifeboard/internal/core"
	"lifeboard/internal/health"
	"lifeboard/internal/scene"
	"lifeboard/internal/telemetry"
	pcore "lifeboard/pkg/core"
	"lifeboard/pkg/sims/life"
)

type job struct {
	scene int
	seed  uint32
}

// runResult is one scene evolved from one seed.
type runResult struct {
	Scene       string  `csv:"scene"`
	Index       int     `csv:"index"`
	Seed        uint32  `csv:"seed"`
	Generations int     `csv:"generations"`
	Initial     int     `csv:"pop_initial"`
	Mean        float64 `csv:"pop_mean"`
	StdDev      float64 `csv:"pop_std"`
	Min         int     `csv:"pop_min"`
	Max         int     `csv:"pop_max"`
	Final       int     `csv:"pop_final"`
	Churn       float64 `csv:"churn_mean"`
	Thriving    float64 `csv:"thriving_frac"` // frames whose hue is at or past the thriving band
	Extinct     bool    `csv:"extinct"`
}

// sceneSummary aggregates every seed of one scene.
type sceneSummary struct {
	Scene     string
	Runs      int
	MeanPop   float64
	StdPop    float64
	MeanFinal float64
	Extinct   int
}

// runScene evolves scene j.scene from j.seed for gens generations and
// summarizes the population the board would report.
func runScene(v core.Variant, table scene.Table, j job, gens int) runResult {
	torus := life.NewTorus(v.World.W, v.World.H)
	rng := pcore.NewXorShift32(j.seed)
	name := table.Load(torus.Current(), j.scene, rng, v.Screen)

	window := telemetry.NewWindow(gens)
	res := runResult{Scene: name, Index: j.scene, Seed: j.seed, Generations: gens}
	prev, thriving := 0, 0
	for g := 0; g < gens; g++ {
		pop := torus.Population()
		if g == 0 {
			res.Initial = pop
		}
		if health.Hue(pop, v.Midpoint) >= health.HueThriving {
			thriving++
		}
		window.Add(telemetry.FrameSample{Generation: torus.Generation(), Scene: name, Population: pop, Previous: prev})
		prev = pop
		torus.Step()
	}
	if stats, ok := window.Flush(); ok {
		res.Mean, res.StdDev, res.Min, res.Max, res.Churn = stats.Mean, stats.StdDev, stats.Min, stats.Max, stats.Churn
	}
	res.Final = torus.Population()
	res.Extinct = res.Final == 0
	if gens > 0 {
		res.Thriving = float64(thriving) / float64(gens)
	}
	return res
}

// sweep runs every scene over every seed on up to workers goroutines. Results
// come back ordered by scene then seed.
func sweep(ctx context.Context, v core.Variant, table scene.Table, scenes []int, seeds []uint32, gens, workers int) ([]runResult, error) {
	jobs := make([]job, 0, len(scenes)*len(seeds))
	for _, s := range scenes {
		if s < 0 || s >= table.Len() {
			return nil, fmt.Errorf("scene %d out of range [0, %d)", s, table.Len())
		}
		for _, seed := range seeds {
			jobs = append(jobs, job{scene: s, seed: seed})
		}
	}

	results := make([]runResult, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = runScene(v, table, j, gens)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func summarize(results []runResult) []sceneSummary {
	byScene := map[int][]runResult{}
	for _, r := range results {
		byScene[r.Index] = append(byScene[r.Index], r)
	}
	idx := make([]int, 0, len(byScene))
	for i := range byScene {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	out := make([]sceneSummary, 0, len(idx))
	for _, i := range idx {
		runs := byScene[i]
		means := make([]float64, len(runs))
		finals := make([]float64, len(runs))
		s := sceneSummary{Scene: runs[0].Scene, Runs: len(runs)}
		for k, r := range runs {
			means[k] = r.Mean
			finals[k] = float64(r.Final)
			if r.Extinct {
				s.Extinct++
			}
		}
		s.MeanPop, s.StdPop = stat.MeanStdDev(means, nil)
		if len(runs) < 2 {
			s.StdPop = 0
		}
		s.MeanFinal = stat.Mean(finals, nil)
		out = append(out, s)
	}
	return out
}

// suggestMidpoint returns the median mean population over the surviving
// runs, the value a board should treat as thriving.
func suggestMidpoint(results []runResult) int {
	var means []float64
	for _, r := range results {
		if !r.Extinct {
			means = append(means, r.Mean)
		}
	}
	if len(means) == 0 {
		return 0
	}
	slices.Sort(means)
	return int(stat.Quantile(0.5, stat.Empirical, means, nil) + 0.5)
}
