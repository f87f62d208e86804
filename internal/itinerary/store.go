// Package itinerary owns the day-partitioned, ordered collection of stops for
// one planning session.
//
// Every exported operation is atomic with respect to the others. Days are
// addressed externally by their 1-based index; internally each day also has a
// stable DayKey that survives re-indexing when an earlier day is pruned, and a
// version stamp that advances on every mutation of that day.
package itinerary

import (
	"fmt"
	"itinerary-route-service/internal/domain"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// DayKey identifies a day independently of its current index.
type DayKey uint64

type day struct {
	key     DayKey
	version uint64
	stops   []domain.Stop
}

// Snapshot is an immutable copy of one day at a specific version.
type Snapshot struct {
	Key     DayKey
	Index   int
	Version uint64
	Stops   []domain.Stop
}

// IDs returns the stop identifiers of the snapshot in order.
func (s Snapshot) IDs() []string {
	ids := make([]string, len(s.Stops))
	for i, st := range s.Stops {
		ids[i] = st.ID
	}
	return ids
}

// Change describes the day touched by a mutation.
type Change struct {
	Key     DayKey
	Index   int
	Version uint64
	StopID  string
	Stops   []domain.Stop
}

type Store struct {
	mu      sync.RWMutex
	days    []*day
	nextKey DayKey
	clock   uint64

	strict bool
	newID  func() string
	logger *slog.Logger
}

type Option func(*Store)

// WithStrictIntegrity makes integrity violations panic instead of self-healing.
func WithStrictIntegrity(strict bool) Option {
	return func(s *Store) { s.strict = strict }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddStop appends stop to the target day and returns that day's new stop list.
// A target beyond the current day count creates a new day; a target below 1
// selects the last day. Stops without an ID receive one.
func (s *Store) AddStop(stop domain.Stop, targetDay int) []domain.Stop {
	return s.Add(stop, targetDay).Stops
}

// Add is AddStop that also reports which day was touched.
func (s *Store) Add(stop domain.Stop, targetDay int) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	stop = stop.Clone()
	if stop.ID == "" {
		stop.ID = s.newID()
	} else if _, _, ok := s.locate(stop.ID); ok {
		s.violation("add stop: duplicate stop id %q", stop.ID)
		stop.ID = s.newID()
	}

	var d *day
	switch {
	case targetDay > len(s.days) || len(s.days) == 0:
		d = s.appendDay()
	case targetDay < 1:
		d = s.days[len(s.days)-1]
	default:
		d = s.days[targetDay-1]
	}

	idx := s.indexOf(d)
	stop.DayIndex = idx
	d.stops = append(d.stops, stop)
	s.touch(d)

	return Change{Key: d.key, Index: idx, Version: d.version, StopID: stop.ID, Stops: cloneStops(d.stops)}
}

// UpdateStop merges patch into the stop with the given id. A missing id is a
// recoverable race and reports false without changing anything.
func (s *Store) UpdateStop(id string, patch domain.StopPatch) bool {
	_, ok := s.Update(id, patch)
	return ok
}

// Update is UpdateStop that also reports which day was touched.
func (s *Store) Update(id string, patch domain.StopPatch) (Change, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, pos, ok := s.locate(id)
	if !ok {
		return Change{}, false
	}

	updated := patch.Apply(d.stops[pos])
	updated.ID = d.stops[pos].ID
	updated.DayIndex = d.stops[pos].DayIndex
	d.stops[pos] = updated
	s.touch(d)

	return Change{Key: d.key, Index: s.indexOf(d), Version: d.version, StopID: id, Stops: cloneStops(d.stops)}, true
}

// DeleteStop removes the stop. An emptied day is pruned and later days shift
// down so indices stay contiguous.
func (s *Store) DeleteStop(id string) bool {
	_, ok := s.Delete(id)
	return ok
}

// Delete is DeleteStop that also reports which day was touched. When the day
// was pruned the returned Change has Index 0 and no stops.
func (s *Store) Delete(id string) (Change, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, pos, ok := s.locate(id)
	if !ok {
		return Change{}, false
	}

	d.stops = slices.Delete(d.stops, pos, pos+1)
	s.touch(d)

	if len(d.stops) > 0 {
		return Change{Key: d.key, Index: s.indexOf(d), Version: d.version, StopID: id, Stops: cloneStops(d.stops)}, true
	}

	i := s.indexOf(d) - 1
	s.days = slices.Delete(s.days, i, i+1)
	s.reindexFrom(i)

	return Change{Key: d.key, Version: d.version, StopID: id}, true
}

// ReplaceDayOrder reorders the day at dayIndex. Unknown and repeated ids are
// ignored and any id of the day not named is appended in its prior relative
// order, so the day never gains or loses a stop. Out of range indices return nil.
func (s *Store) ReplaceDayOrder(dayIndex int, orderedIDs []string) []domain.Stop {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dayIndex < 1 || dayIndex > len(s.days) {
		return nil
	}
	d := s.days[dayIndex-1]
	s.reorder(d, orderedIDs)
	return cloneStops(d.stops)
}

// ReplaceDayOrderIf applies orderedIDs only when the day identified by key is
// still at version. It reports whether the order was applied.
func (s *Store) ReplaceDayOrderIf(key DayKey, version uint64, orderedIDs []string) ([]domain.Stop, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.byKey(key)
	if d == nil || d.version != version {
		return nil, false
	}
	s.reorder(d, orderedIDs)
	return cloneStops(d.stops), true
}

// SnapshotDay copies the day with the given key.
func (s *Store) SnapshotDay(key DayKey) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := s.byKey(key)
	if d == nil {
		return Snapshot{}, false
	}
	return Snapshot{Key: d.key, Index: s.indexOf(d), Version: d.version, Stops: cloneStops(d.stops)}, true
}

// SnapshotAt copies the day at the 1-based index.
func (s *Store) SnapshotAt(dayIndex int) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if dayIndex < 1 || dayIndex > len(s.days) {
		return Snapshot{}, false
	}
	d := s.days[dayIndex-1]
	return Snapshot{Key: d.key, Index: dayIndex, Version: d.version, Stops: cloneStops(d.stops)}, true
}

// Day returns a copy of the stops of the day at the 1-based index.
func (s *Store) Day(dayIndex int) []domain.Stop {
	snap, ok := s.SnapshotAt(dayIndex)
	if !ok {
		return nil
	}
	return snap.Stops
}

// Days returns a deep copy of every day in order.
func (s *Store) Days() [][]domain.Stop {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([][]domain.Stop, len(s.days))
	for i, d := range s.days {
		out[i] = cloneStops(d.stops)
	}
	return out
}

func (s *Store) DayCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.days)
}

// Stop looks up a stop by id across all days.
func (s *Store) Stop(id string) (domain.Stop, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, pos, ok := s.locate(id)
	if !ok {
		return domain.Stop{}, false
	}
	return d.stops[pos].Clone(), true
}

// StopNames lists every stop name in visiting order across days.
func (s *Store) StopNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for _, d := range s.days {
		for _, st := range d.stops {
			names = append(names, st.Name)
		}
	}
	return names
}

// Load replaces the whole collection. Empty days are skipped, indices are
// reassigned, and duplicate ids go through the integrity path.
func (s *Store) Load(days [][]domain.Stop) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.days = nil
	seen := make(map[string]struct{})
	for _, stops := range days {
		if len(stops) == 0 {
			continue
		}
		d := s.appendDay()
		for _, st := range stops {
			st = st.Clone()
			if st.ID == "" {
				st.ID = s.newID()
			} else if _, dup := seen[st.ID]; dup {
				s.violation("load: duplicate stop id %q", st.ID)
				st.ID = s.newID()
			}
			seen[st.ID] = struct{}{}
			st.DayIndex = len(s.days)
			d.stops = append(d.stops, st)
		}
		s.touch(d)
	}
}

// CheckIntegrity verifies the data model invariants: unique ids, no empty
// days, and day indices that match positions.
func (s *Store) CheckIntegrity() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for i, d := range s.days {
		if len(d.stops) == 0 {
			return &IntegrityError{Msg: fmt.Sprintf("day %d is empty", i+1)}
		}
		for _, st := range d.stops {
			if _, dup := seen[st.ID]; dup {
				return &IntegrityError{Msg: fmt.Sprintf("duplicate stop id %q", st.ID)}
			}
			seen[st.ID] = struct{}{}
			if st.DayIndex != i+1 {
				return &IntegrityError{Msg: fmt.Sprintf("stop %q has day index %d, want %d", st.ID, st.DayIndex, i+1)}
			}
		}
	}
	return nil
}

func (s *Store) appendDay() *day {
	s.nextKey++
	d := &day{key: s.nextKey}
	s.days = append(s.days, d)
	return d
}

func (s *Store) touch(d *day) {
	s.clock++
	d.version = s.clock
}

func (s *Store) reorder(d *day, orderedIDs []string) {
	next := permute(d.stops, orderedIDs)
	if slices.EqualFunc(next, d.stops, func(a, b domain.Stop) bool { return a.ID == b.ID }) {
		return
	}
	d.stops = next
	s.touch(d)
}

func (s *Store) reindexFrom(i int) {
	for ; i < len(s.days); i++ {
		for j := range s.days[i].stops {
			s.days[i].stops[j].DayIndex = i + 1
		}
	}
}

func (s *Store) locate(id string) (*day, int, bool) {
	for _, d := range s.days {
		for i, st := range d.stops {
			if st.ID == id {
				return d, i, true
			}
		}
	}
	return nil, 0, false
}

func (s *Store) byKey(key DayKey) *day {
	for _, d := range s.days {
		if d.key == key {
			return d
		}
	}
	return nil
}

func (s *Store) indexOf(d *day) int {
	for i, x := range s.days {
		if x == d {
			return i + 1
		}
	}
	return 0
}

func (s *Store) violation(format string, args ...any) {
	err := &IntegrityError{Msg: fmt.Sprintf(format, args...)}
	if s.strict {
		panic(err)
	}
	s.logger.Error("itinerary integrity violation", "err", err)
}

// permute orders stops by ids, dropping unknown and repeated ids and
// appending unnamed stops in their prior relative order.
func permute(stops []domain.Stop, ids []string) []domain.Stop {
	pos := make(map[string]int, len(stops))
	for i, st := range stops {
		pos[st.ID] = i
	}

	used := make([]bool, len(stops))
	out := make([]domain.Stop, 0, len(stops))
	for _, id := range ids {
		i, ok := pos[id]
		if !ok || used[i] {
			continue
		}
		used[i] = true
		out = append(out, stops[i])
	}
	for i, st := range stops {
		if !used[i] {
			out = append(out, st)
		}
	}
	return out
}

func cloneStops(stops []domain.Stop) []domain.Stop {
	out := make([]domain.Stop, len(stops))
	for i, st := range stops {
		out[i] = st.Clone()
	}
	return out
}
