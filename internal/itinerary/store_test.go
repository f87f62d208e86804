package itinerary

import (
	"fmt"
	"itinerary-route-service/internal/domain"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs() func() string {
	var n int
	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func newTestStore(opts ...Option) *Store {
	return NewStore(append([]Option{WithIDGenerator(seqIDs())}, opts...)...)
}

func stop(id string) domain.Stop {
	return domain.Stop{ID: id, Name: "Stop " + id, Coordinates: domain.Coordinates{Lat: 34.05, Lng: -118.25}}
}

func ids(stops []domain.Stop) []string {
	out := make([]string, len(stops))
	for i, s := range stops {
		out[i] = s.ID
	}
	return out
}

func TestAddStop(t *testing.T) {
	s := newTestStore()

	day := s.AddStop(stop("a"), 1)
	require.Len(t, day, 1)
	assert.Equal(t, 1, day[0].DayIndex)

	day = s.AddStop(stop("b"), 1)
	assert.Equal(t, []string{"a", "b"}, ids(day))

	// beyond the last day creates a new one
	day = s.AddStop(stop("c"), 7)
	assert.Equal(t, []string{"c"}, ids(day))
	assert.Equal(t, 2, day[0].DayIndex)
	assert.Equal(t, 2, s.DayCount())

	// zero targets the last day
	day = s.AddStop(stop("d"), 0)
	assert.Equal(t, []string{"c", "d"}, ids(day))

	require.NoError(t, s.CheckIntegrity())
}

func TestAddStopAssignsIDs(t *testing.T) {
	s := newTestStore()

	ch := s.Add(domain.Stop{Name: "Griffith Observatory"}, 1)
	assert.Equal(t, "gen-1", ch.StopID)

	// duplicate ids are re-issued outside strict mode
	s.AddStop(stop("x"), 1)
	ch = s.Add(stop("x"), 1)
	assert.Equal(t, "gen-2", ch.StopID)
	require.NoError(t, s.CheckIntegrity())
}

func TestAddStopDuplicateStrictPanics(t *testing.T) {
	s := newTestStore(WithStrictIntegrity(true))
	s.AddStop(stop("x"), 1)

	assert.Panics(t, func() { s.AddStop(stop("x"), 1) })
}

func TestUpdateStop(t *testing.T) {
	s := newTestStore()
	s.AddStop(stop("a"), 1)
	before, _ := s.SnapshotAt(1)

	name := "Getty Center"
	hours := "10:00 - 17:30"
	ok := s.UpdateStop("a", domain.StopPatch{Name: &name, OpeningHours: &hours})
	require.True(t, ok)

	got, ok := s.Stop("a")
	require.True(t, ok)
	assert.Equal(t, name, got.Name)
	assert.Equal(t, hours, got.OpeningHours)
	assert.Equal(t, 1, got.DayIndex)

	after, _ := s.SnapshotAt(1)
	assert.Greater(t, after.Version, before.Version)
}

func TestUpdateMissingStopIsNoop(t *testing.T) {
	s := newTestStore()
	s.AddStop(stop("a"), 1)
	before, _ := s.SnapshotAt(1)

	name := "ghost"
	assert.False(t, s.UpdateStop("missing", domain.StopPatch{Name: &name}))

	after, _ := s.SnapshotAt(1)
	assert.Equal(t, before, after)
}

func TestDeleteStopPrunesAndReindexes(t *testing.T) {
	s := newTestStore()
	s.AddStop(stop("a"), 1)
	s.AddStop(stop("b"), 2)
	s.AddStop(stop("c"), 3)
	s.AddStop(stop("d"), 3)

	keyOfThird, _ := s.SnapshotAt(3)

	require.True(t, s.DeleteStop("b"))
	assert.Equal(t, 2, s.DayCount())

	day2 := s.Day(2)
	assert.Equal(t, []string{"c", "d"}, ids(day2))
	for _, st := range day2 {
		assert.Equal(t, 2, st.DayIndex)
	}

	// keys survive re-indexing
	snap, ok := s.SnapshotDay(keyOfThird.Key)
	require.True(t, ok)
	assert.Equal(t, 2, snap.Index)

	assert.False(t, s.DeleteStop("b"))
	require.NoError(t, s.CheckIntegrity())
}

func TestReplaceDayOrderPermutation(t *testing.T) {
	tests := []struct {
		name    string
		ordered []string
		want    []string
	}{
		{name: "full permutation", ordered: []string{"d", "c", "b", "a"}, want: []string{"d", "c", "b", "a"}},
		{name: "missing ids appended", ordered: []string{"c", "a"}, want: []string{"c", "a", "b", "d"}},
		{name: "duplicates ignored", ordered: []string{"b", "b", "a", "b"}, want: []string{"b", "a", "c", "d"}},
		{name: "foreign ids ignored", ordered: []string{"zz", "d", "yy"}, want: []string{"d", "a", "b", "c"}},
		{name: "empty", ordered: nil, want: []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			for _, id := range []string{"a", "b", "c", "d"} {
				s.AddStop(stop(id), 1)
			}

			got := s.ReplaceDayOrder(1, tt.ordered)
			assert.Equal(t, tt.want, ids(got))
			assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, ids(got))
			require.NoError(t, s.CheckIntegrity())
		})
	}
}

func TestReplaceDayOrderVersioning(t *testing.T) {
	s := newTestStore()
	for _, id := range []string{"a", "b", "c"} {
		s.AddStop(stop(id), 1)
	}
	v0, _ := s.SnapshotAt(1)

	s.ReplaceDayOrder(1, []string{"a", "b", "c"})
	v1, _ := s.SnapshotAt(1)
	assert.Equal(t, v0.Version, v1.Version, "unchanged order keeps the version")

	s.ReplaceDayOrder(1, []string{"a", "c", "b"})
	v2, _ := s.SnapshotAt(1)
	assert.Greater(t, v2.Version, v1.Version)

	assert.Nil(t, s.ReplaceDayOrder(9, []string{"a"}))
}

func TestReplaceDayOrderIf(t *testing.T) {
	s := newTestStore()
	for _, id := range []string{"a", "b", "c"} {
		s.AddStop(stop(id), 1)
	}
	snap, _ := s.SnapshotAt(1)

	s.AddStop(stop("d"), 1)

	_, applied := s.ReplaceDayOrderIf(snap.Key, snap.Version, []string{"a", "c", "b"})
	assert.False(t, applied)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(s.Day(1)))

	fresh, _ := s.SnapshotAt(1)
	got, applied := s.ReplaceDayOrderIf(fresh.Key, fresh.Version, []string{"a", "d", "c", "b"})
	require.True(t, applied)
	assert.Equal(t, []string{"a", "d", "c", "b"}, ids(got))
}

func TestSnapshotIsolation(t *testing.T) {
	s := newTestStore()
	st := stop("a")
	st.Tips = []string{"arrive early"}
	s.AddStop(st, 1)

	snap, _ := s.SnapshotAt(1)
	snap.Stops[0].Tips[0] = "mutated"
	snap.Stops[0].Name = "mutated"

	got, _ := s.Stop("a")
	assert.Equal(t, "arrive early", got.Tips[0])
	assert.Equal(t, "Stop a", got.Name)
}

func TestLoad(t *testing.T) {
	s := newTestStore()
	s.AddStop(stop("old"), 1)

	s.Load([][]domain.Stop{
		{stop("a"), stop("b")},
		{},
		{stop("c"), stop("a")},
	})

	days := s.Days()
	require.Len(t, days, 2)
	assert.Equal(t, []string{"a", "b"}, ids(days[0]))
	assert.Equal(t, []string{"c", "gen-1"}, ids(days[1]))
	assert.Equal(t, 2, days[1][0].DayIndex)
	_, ok := s.Stop("old")
	assert.False(t, ok)
	require.NoError(t, s.CheckIntegrity())
}

func TestConcurrentMutations(t *testing.T) {
	s := newTestStore()
	for _, id := range []string{"a", "b", "c"} {
		s.AddStop(stop(id), 1)
	}

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.AddStop(stop(fmt.Sprintf("n-%d", i)), 1)
		}()
		go func() {
			defer wg.Done()
			s.ReplaceDayOrder(1, []string{"c", "b"})
		}()
	}
	wg.Wait()

	assert.Len(t, s.Day(1), 53)
	require.NoError(t, s.CheckIntegrity())
}

func TestStopNames(t *testing.T) {
	s := newTestStore()
	s.AddStop(stop("a"), 1)
	s.AddStop(stop("b"), 2)
	assert.Equal(t, []string{"Stop a", "Stop b"}, s.StopNames())
}
