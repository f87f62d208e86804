package sequencing

import (
	"itinerary-route-service/internal/domain"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(id string, lat, lng float64, hours string) Point {
	return Point{
		ID:          id,
		Coordinates: domain.Coordinates{Lat: lat, Lng: lng},
		Window:      domain.ParseWindow(hours),
	}
}

func indexOf(order []string, id string) int {
	return slices.Index(order, id)
}

func TestSequenceDegenerate(t *testing.T) {
	e := NewEngine(domain.ModePublic, domain.PaceModerate)
	s0 := point("s0", 34.05, -118.25, "24 Hours")

	res := e.Sequence(s0, nil)
	assert.Equal(t, []string{"s0"}, res.Order)

	far := point("far", 34.5, -118.9, "")
	res = e.Sequence(s0, []Point{far})
	assert.Equal(t, []string{"s0", "far"}, res.Order)
}

func TestSequenceNearestAlongLine(t *testing.T) {
	e := NewEngine(domain.ModeCar, domain.PaceModerate)
	s0 := point("s0", 34.0, -118.00, "24 Hours")
	p1 := point("p1", 34.0, -117.99, "24 Hours")
	p2 := point("p2", 34.0, -117.98, "24 Hours")
	p3 := point("p3", 34.0, -117.97, "24 Hours")

	res := e.Sequence(s0, []Point{p3, p1, p2})
	assert.Equal(t, []string{"s0", "p1", "p2", "p3"}, res.Order)
	assert.True(t, res.Feasible())
	assert.InDelta(t, 2760, res.DistanceMeters, 50)
}

func TestSequenceLockedStartIsNeverMoved(t *testing.T) {
	e := NewEngine(domain.ModeWalk, domain.PaceRelaxed)
	// the locked stop is the worst possible start
	s0 := point("s0", 34.0, -117.90, "")
	rest := []Point{
		point("a", 34.0, -118.00, ""),
		point("b", 34.0, -117.99, ""),
		point("c", 34.0, -117.98, ""),
	}

	res := e.Sequence(s0, rest)
	require.Len(t, res.Order, 4)
	assert.Equal(t, "s0", res.Order[0])
	assert.Equal(t, []string{"s0", "c", "b", "a"}, res.Order)
}

func TestSequenceWindowOrdering(t *testing.T) {
	e := NewEngine(domain.ModePublic, domain.PaceModerate)

	s0 := point("s0", 34.05, -118.25, "24 Hours")
	// B is next door but opens in the evening, A is across town and closes early
	a := point("a", 34.0195, -118.4912, "09:00-14:00")
	b := point("b", 34.0522, -118.2437, "18:00-23:00")
	c := point("c", 34.1016, -118.3267, "24 Hours")

	res := e.Sequence(s0, []Point{b, c, a})
	require.Len(t, res.Order, 4)
	assert.Equal(t, "s0", res.Order[0])
	assert.Less(t, indexOf(res.Order, "a"), indexOf(res.Order, "b"))
	assert.ElementsMatch(t, []string{"s0", "a", "b", "c"}, res.Order)
	assert.True(t, res.Feasible())

	// b is never served before it opens
	assert.GreaterOrEqual(t, res.Arrivals[indexOf(res.Order, "b")], 18*60)
	assert.LessOrEqual(t, res.Arrivals[indexOf(res.Order, "a")], 14*60)
}

func TestSequenceIdempotent(t *testing.T) {
	e := NewEngine(domain.ModePublic, domain.PaceModerate)

	pts := map[string]Point{
		"s0": point("s0", 34.05, -118.25, "24 Hours"),
		"a":  point("a", 34.0195, -118.4912, "09:00 - 14:00"),
		"b":  point("b", 34.0522, -118.2437, "18:00 - 23:00"),
		"c":  point("c", 34.1016, -118.3267, ""),
		"d":  point("d", 34.0639, -118.3592, "10:00 - 17:00"),
		"e":  point("e", 34.1184, -118.3004, "24 Hours"),
	}
	rest := []Point{pts["e"], pts["d"], pts["c"], pts["b"], pts["a"]}

	first := e.Sequence(pts["s0"], rest)

	again := make([]Point, 0, len(first.Order)-1)
	for _, id := range first.Order[1:] {
		again = append(again, pts[id])
	}
	second := e.Sequence(pts["s0"], again)

	assert.Equal(t, first.Order, second.Order)
	assert.Equal(t, first.DistanceMeters, second.DistanceMeters)
}

func TestSequenceOverConstrained(t *testing.T) {
	e := NewEngine(domain.ModeCar, domain.PaceModerate)

	s0 := point("s0", 34.05, -118.25, "24 Hours")
	// neither can be reached before they close
	x := point("x", 34.05, -117.75, "09:00 - 09:30")
	y := point("y", 34.05, -118.75, "09:00 - 09:30")
	z := point("z", 34.06, -118.25, "")

	res := e.Sequence(s0, []Point{x, y, z})
	assert.False(t, res.Feasible())
	assert.Equal(t, 2, res.Violations)
	assert.Equal(t, "s0", res.Order[0])
	assert.ElementsMatch(t, []string{"s0", "x", "y", "z"}, res.Order)
	// distance alone puts the nearby stop first
	assert.Equal(t, "z", res.Order[1])
}

func TestSequencePaceChangesSchedule(t *testing.T) {
	s0 := point("s0", 34.0, -118.00, "24 Hours")
	p1 := point("p1", 34.0, -117.99, "24 Hours")
	p2 := point("p2", 34.0, -117.98, "24 Hours")

	relaxed := NewEngine(domain.ModeCar, domain.PaceRelaxed).Sequence(s0, []Point{p1, p2})
	power := NewEngine(domain.ModeCar, domain.PacePower).Sequence(s0, []Point{p1, p2})

	assert.Equal(t, relaxed.Order, power.Order)
	assert.Greater(t, relaxed.Arrivals[2], power.Arrivals[2])
}

func TestImproveNeverLengthensRoute(t *testing.T) {
	e := NewEngine(domain.ModePublic, domain.PaceModerate)
	pts := []Point{
		point("s0", 34.05, -118.25, "24 Hours"),
		point("a", 34.0195, -118.4912, "09:00 - 14:00"),
		point("b", 34.0522, -118.2437, "18:00 - 23:00"),
		point("c", 34.1016, -118.3267, "24 Hours"),
	}
	r := newRoute(e, pts)

	// s0, b, c, a: short, but a is reached after it closes
	start := []int{0, 2, 3, 1}
	startD, startV := r.cost(start)
	require.Equal(t, 1, startV)

	improved := r.improve(start, false)
	d, v := r.cost(improved)
	assert.LessOrEqual(t, d, startD)
	assert.LessOrEqual(t, v, startV)

	repaired := r.repair(start)
	d, v = r.cost(repaired)
	assert.Equal(t, 0, v)
	assert.Greater(t, d, startD)
	assert.Equal(t, 0, repaired[0])
}
