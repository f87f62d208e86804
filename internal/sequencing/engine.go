// Package sequencing orders the stops of one day so that travel distance is
// short while opening windows are respected. The first stop is locked.
//
// The engine is a pure computation: it holds no shared state and the same
// input set always yields the same order, regardless of the order the
// remaining stops were supplied in.
package sequencing

import (
	"cmp"
	"itinerary-route-service/internal/domain"
	"math"
	"slices"
)

const (
	// Candidates within this distance of the nearest one are ranked by window
	// urgency instead of distance.
	toleranceMeters = 250.0
	toleranceRatio  = 0.10

	defaultMaxPasses = 64
	epsilon          = 1e-6
)

// Point is a stop reduced to what sequencing needs.
type Point struct {
	ID          string
	Coordinates domain.Coordinates
	Window      domain.Window
}

// Result is a visiting order and its estimated schedule.
type Result struct {
	Order          []string
	DistanceMeters float64
	// Violations counts stops whose service would start after closing time.
	Violations int
	// Arrivals holds the estimated service start of each stop, in minutes
	// after midnight, aligned with Order.
	Arrivals []int
}

func (r Result) Feasible() bool { return r.Violations == 0 }

type Engine struct {
	mode      domain.TransportMode
	profile   domain.PaceProfile
	maxPasses int
}

type Option func(*Engine)

// WithMaxPasses bounds the number of improvement passes over the route.
func WithMaxPasses(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPasses = n
		}
	}
}

func NewEngine(mode domain.TransportMode, pace domain.Pace, opts ...Option) *Engine {
	e := &Engine{
		mode:      mode,
		profile:   pace.Profile(),
		maxPasses: defaultMaxPasses,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sequence returns an order that starts with locked and covers every point of
// rest exactly once. Days of two stops or fewer are returned as given. When no
// order satisfies every window the best order by distance alone is returned.
func (e *Engine) Sequence(locked Point, rest []Point) Result {
	pts := make([]Point, 0, len(rest)+1)
	pts = append(pts, locked)
	pts = append(pts, rest...)

	r := newRoute(e, pts)
	if len(pts) <= 2 {
		order := make([]int, len(pts))
		for i := range order {
			order[i] = i
		}
		return r.result(order)
	}

	order := r.construct()
	order = r.repair(order)
	order = r.improve(order, false)
	if _, v := r.cost(order); v > 0 {
		order = r.improve(order, true)
	}
	return r.result(order)
}

type route struct {
	e      *Engine
	pts    []Point
	dist   [][]float64
	class  []domain.WindowClass
	dwell  float64
	cutoff float64
}

func newRoute(e *Engine, pts []Point) *route {
	n := len(pts)
	r := &route{
		e:      e,
		pts:    pts,
		dist:   make([][]float64, n),
		class:  make([]domain.WindowClass, n),
		dwell:  e.profile.Dwell.Minutes(),
		cutoff: float64(e.profile.Cutoff()),
	}
	for i := range pts {
		r.dist[i] = make([]float64, n)
		for j := range pts {
			if i != j {
				r.dist[i][j] = pts[i].Coordinates.DistanceMeters(pts[j].Coordinates)
			}
		}
		r.class[i] = pts[i].Window.Classify(e.profile.Cutoff())
	}
	return r
}

// construct builds a nearest-neighbour route from the locked stop. Remaining
// stops are visited in id order so ties never depend on input order.
func (r *route) construct() []int {
	remaining := make([]int, 0, len(r.pts)-1)
	for i := 1; i < len(r.pts); i++ {
		remaining = append(remaining, i)
	}
	slices.SortStableFunc(remaining, func(a, b int) int {
		return cmp.Compare(r.pts[a].ID, r.pts[b].ID)
	})

	order := []int{0}
	cur := 0
	clock := r.serviceStart(0, float64(r.e.profile.DayStart)) + r.dwell

	for len(remaining) > 0 {
		nearest := math.Inf(1)
		for _, c := range remaining {
			nearest = min(nearest, r.dist[cur][c])
		}
		limit := nearest + max(toleranceMeters, nearest*toleranceRatio)

		pick := -1
		for i, c := range remaining {
			if r.dist[cur][c] > limit {
				continue
			}
			if pick < 0 || r.moreUrgent(c, remaining[pick], cur, clock) {
				pick = i
			}
		}

		next := remaining[pick]
		remaining = slices.Delete(remaining, pick, pick+1)
		clock = r.serviceStart(next, clock+r.travel(cur, next)) + r.dwell
		order = append(order, next)
		cur = next
	}
	return order
}

// moreUrgent reports whether a should be visited before b from cur at clock.
func (r *route) moreUrgent(a, b, cur int, clock float64) bool {
	ua, ub := r.urgency(a, clock), r.urgency(b, clock)
	if ua != ub {
		return ua < ub
	}
	return r.dist[cur][a] < r.dist[cur][b]-epsilon
}

// urgency ranks early windows first and late windows last. Once the day has
// passed the cutoff a late window is no longer deferred.
func (r *route) urgency(i int, clock float64) int {
	switch r.class[i] {
	case domain.ClassEarly:
		return 0
	case domain.ClassLate:
		if clock < r.cutoff {
			return 2
		}
	}
	return 1
}

// repair swaps stops, position 0 excepted, while a swap lowers the number of
// window violations. Distance is ignored here and may grow.
func (r *route) repair(order []int) []int {
	order = slices.Clone(order)
	_, bestV := r.cost(order)

	for pass := 0; pass < r.e.maxPasses && bestV > 0; pass++ {
		improved := false
		for i := 1; i < len(order)-1; i++ {
			for j := i + 1; j < len(order); j++ {
				order[i], order[j] = order[j], order[i]
				if _, v := r.cost(order); v < bestV {
					bestV = v
					improved = true
					continue
				}
				order[i], order[j] = order[j], order[i]
			}
		}
		if !improved {
			break
		}
	}
	return order
}

// improve runs bounded passes of pairwise swaps that never touch position 0.
// A swap is kept only if it strictly shortens the route; in strict mode it
// must also not add a window violation.
func (r *route) improve(order []int, soft bool) []int {
	order = slices.Clone(order)
	bestD, bestV := r.cost(order)

	for pass := 0; pass < r.e.maxPasses; pass++ {
		improved := false
		for i := 1; i < len(order)-1; i++ {
			for j := i + 1; j < len(order); j++ {
				order[i], order[j] = order[j], order[i]
				d, v := r.cost(order)

				better := d < bestD-epsilon
				if !soft {
					better = better && v <= bestV
				}
				if better {
					bestD, bestV = d, v
					improved = true
					continue
				}
				order[i], order[j] = order[j], order[i]
			}
		}
		if !improved {
			break
		}
	}
	return order
}

// cost returns total route distance and the number of window violations.
func (r *route) cost(order []int) (float64, int) {
	d, v, _ := r.simulate(order)
	return d, v
}

// simulate walks the route from the start of the day. Arriving before a stop
// opens means waiting; starting service after it closes is a violation.
func (r *route) simulate(order []int) (float64, int, []float64) {
	var total float64
	var violations int
	starts := make([]float64, len(order))

	clock := float64(r.e.profile.DayStart)
	for k, idx := range order {
		if k > 0 {
			prev := order[k-1]
			total += r.dist[prev][idx]
			clock += r.travel(prev, idx)
		}
		start := r.serviceStart(idx, clock)
		if start > float64(r.pts[idx].Window.Close)+epsilon {
			violations++
		}
		starts[k] = start
		clock = start + r.dwell
	}
	return total, violations, starts
}

func (r *route) serviceStart(i int, arrival float64) float64 {
	return max(arrival, float64(r.pts[i].Window.Open))
}

func (r *route) travel(from, to int) float64 {
	return r.e.mode.TravelTime(r.dist[from][to]).Minutes()
}

func (r *route) result(order []int) Result {
	d, v, starts := r.simulate(order)
	res := Result{
		Order:          make([]string, len(order)),
		DistanceMeters: d,
		Violations:     v,
		Arrivals:       make([]int, len(order)),
	}
	for k, idx := range order {
		res.Order[k] = r.pts[idx].ID
		res.Arrivals[k] = int(math.Round(starts[k]))
	}
	return res
}
