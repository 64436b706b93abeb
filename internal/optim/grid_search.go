package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/experiment"
)

// Point is one combination of parameter values, keyed by name.
type Point map[string]float64

// Params lists the names Apply understands.
var Params = []string{"sub_steps", "particle_radius", "gravity", "particles", "max_frame_dt"}

// Apply writes the point's values into cfg.
func Apply(cfg *config.Config, p Point) error {
	for name, v := range p {
		switch name {
		case "sub_steps":
			cfg.Physics.SubSteps = int(v)
		case "particle_radius":
			cfg.Physics.ParticleRadius = v
		case "gravity":
			cfg.Physics.GravityY = v
		case "particles":
			cfg.InitialCount = int(v)
		case "max_frame_dt":
			cfg.Physics.MaxFrameDt = v
		default:
			return fmt.Errorf("unknown parameter: %s (available: %v)", name, Params)
		}
	}
	return nil
}

// Objective scores a finished run; lower is better.
type Objective func(r *dynamo.Result) float64

// MetricObjective scores a run by one of its metrics plus costPerStep for
// every sub-step spent per frame, so accuracy can be traded against work.
func MetricObjective(name string, costPerStep float64) Objective {
	return func(r *dynamo.Result) float64 {
		v := r.Metrics[name]
		if r.FramesRun > 0 {
			v += costPerStep * float64(r.StepsTaken) / float64(r.FramesRun)
		}
		return v
	}
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of points the search will run.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every point of the grid and returns the lowest-scoring one.
// Points whose experiment cannot be built or fails are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(p Point) (*experiment.Experiment, error),
	score Objective,
) (Point, float64, error) {
	best := math.Inf(1)
	var bestParams Point

	if err := g.searchRecursive(ctx, 0, Point{}, buildExperiment, score, &best, &bestParams); err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("no grid point completed")
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current Point,
	buildExperiment func(Point) (*experiment.Experiment, error),
	score Objective,
	best *float64,
	bestParams *Point,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return nil
		}
		result, err := exp.Run(ctx)
		if err != nil || len(result.Errors) > 0 {
			return ctx.Err()
		}

		if val := score(result); val < *best {
			*best = val
			*bestParams = clonePoint(current)
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := clonePoint(current)
		next[name] = val
		if err := g.searchRecursive(ctx, depth+1, next, buildExperiment, score, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

func clonePoint(p Point) Point {
	out := make(Point, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// String prints the point with its names sorted.
func (p Point) String() string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	s := ""
	for i, k := range names {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%g", k, p[k])
	}
	return s
}
