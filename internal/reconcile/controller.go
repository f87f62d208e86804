// Package reconcile runs sequencing asynchronously against a live itinerary
// and folds the results back in without ever blocking or undoing user edits.
//
// Each day is either idle or sequencing. A trigger while a day is sequencing
// is remembered and re-evaluated once the running attempt resolves. Results
// are applied only if the day's version is unchanged since the snapshot.
package reconcile

import (
	"context"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/itinerary"
	"itinerary-route-service/internal/ports"
	"slices"
	"sync"
	"time"
)

const (
	DefaultThreshold = 3
	DefaultTimeout   = 20 * time.Second
)

type completion struct {
	snap     itinerary.Snapshot
	explicit bool
	ids      []string
	err      error
	duration time.Duration
}

type reply struct {
	ids []string
	err error
}

type Controller struct {
	store     *itinerary.Store
	oracle    ports.SequencingOracle
	mode      domain.TransportMode
	pace      domain.Pace
	threshold int
	timeout   time.Duration
	observer  Observer

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	inflight map[itinerary.DayKey]bool
	// pending holds deferred triggers; true marks an explicit request.
	pending map[itinerary.DayKey]bool
	closed  bool
	active  int
	idle    chan struct{}

	tasks       sync.WaitGroup
	completions chan completion
	loopDone    chan struct{}
}

type Option func(*Controller)

// WithThreshold sets the stop count at which an add triggers sequencing.
func WithThreshold(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.threshold = n
		}
	}
}

// WithTimeout bounds each oracle call.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// New starts a controller for store. Call Close when the session ends.
func New(
	store *itinerary.Store,
	oracle ports.SequencingOracle,
	mode domain.TransportMode,
	pace domain.Pace,
	opts ...Option,
) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		store:       store,
		oracle:      oracle,
		mode:        mode,
		pace:        pace,
		threshold:   DefaultThreshold,
		timeout:     DefaultTimeout,
		observer:    NoopObserver{},
		ctx:         ctx,
		cancel:      cancel,
		inflight:    make(map[itinerary.DayKey]bool),
		pending:     make(map[itinerary.DayKey]bool),
		completions: make(chan completion),
		loopDone:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.loop()
	return c
}

func (c *Controller) Store() *itinerary.Store { return c.store }

// AddStop applies the add immediately and triggers sequencing when the day
// has reached the threshold.
func (c *Controller) AddStop(stop domain.Stop, targetDay int) itinerary.Change {
	ch := c.store.Add(stop, targetDay)
	if len(ch.Stops) >= c.threshold {
		c.trigger(ch.Key, false)
	}
	return ch
}

// UpdateStop applies the edit immediately. A running attempt for the day
// will find its snapshot stale.
func (c *Controller) UpdateStop(id string, patch domain.StopPatch) bool {
	return c.store.UpdateStop(id, patch)
}

func (c *Controller) DeleteStop(id string) bool {
	return c.store.DeleteStop(id)
}

// ReplaceDayOrder applies an explicit user order, including a new first stop.
func (c *Controller) ReplaceDayOrder(dayIndex int, orderedIDs []string) []domain.Stop {
	return c.store.ReplaceDayOrder(dayIndex, orderedIDs)
}

// RequestReorder explicitly asks for the day to be sequenced regardless of
// its size.
func (c *Controller) RequestReorder(dayIndex int) error {
	snap, ok := c.store.SnapshotAt(dayIndex)
	if !ok {
		return fmt.Errorf("request reorder day %d: %w", dayIndex, ErrDayNotFound)
	}
	c.trigger(snap.Key, true)
	return nil
}

// Sequencing lists the indices of days with an attempt in flight.
func (c *Controller) Sequencing() []int {
	c.mu.Lock()
	keys := make([]itinerary.DayKey, 0, len(c.inflight))
	for k := range c.inflight {
		keys = append(keys, k)
	}
	c.mu.Unlock()

	var days []int
	for _, k := range keys {
		if snap, ok := c.store.SnapshotDay(k); ok {
			days = append(days, snap.Index)
		}
	}
	slices.Sort(days)
	return days
}

// WaitIdle blocks until no attempt is in flight or ctx is done.
func (c *Controller) WaitIdle(ctx context.Context) error {
	for {
		c.mu.Lock()
		if c.active == 0 {
			c.mu.Unlock()
			return nil
		}
		idle := c.idle
		c.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels every running attempt. Their completions become no-ops and
// later mutations no longer trigger sequencing. Close does not block.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	go func() {
		c.tasks.Wait()
		close(c.completions)
	}()
}

// trigger starts an attempt for the day or defers it if one is running.
func (c *Controller) trigger(key itinerary.DayKey, explicit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.inflight[key] {
		c.pending[key] = c.pending[key] || explicit
		return
	}

	snap, ok := c.store.SnapshotDay(key)
	if !ok || len(snap.Stops) == 0 {
		return
	}

	c.inflight[key] = true
	if c.active == 0 {
		c.idle = make(chan struct{})
	}
	c.active++
	c.tasks.Add(1)
	go c.run(snap, explicit)
}

func (c *Controller) run(snap itinerary.Snapshot, explicit bool) {
	defer c.tasks.Done()

	start := time.Now()
	ids, err := c.call(snap)
	c.completions <- completion{snap: snap, explicit: explicit, ids: ids, err: err, duration: time.Since(start)}
}

// call bounds the oracle by the timeout even when it ignores ctx. A late
// reply lands in the buffered channel and is dropped.
func (c *Controller) call(snap itinerary.Snapshot) ([]string, error) {
	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	req := c.request(snap)
	replies := make(chan reply, 1)
	go func() {
		var r reply
		defer func() {
			if p := recover(); p != nil {
				r = reply{err: fmt.Errorf("%w: oracle panic: %v", ports.ErrOracleUnavailable, p)}
			}
			replies <- r
		}()
		r.ids, r.err = c.oracle.Sequence(ctx, req)
	}()

	select {
	case r := <-replies:
		return r.ids, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ports.ErrOracleTimeout, ctx.Err())
	}
}

func (c *Controller) request(snap itinerary.Snapshot) ports.SequencingRequest {
	wps := make([]ports.Waypoint, len(snap.Stops))
	for i, s := range snap.Stops {
		wps[i] = ports.Waypoint{
			ID:           s.ID,
			Name:         s.Name,
			Lat:          s.Coordinates.Lat,
			Lng:          s.Coordinates.Lng,
			OpeningHours: s.OpeningHours,
		}
	}
	return ports.SequencingRequest{
		LockedStartID: snap.Stops[0].ID,
		Waypoints:     wps,
		Mode:          c.mode,
		Pace:          c.pace,
	}
}

func (c *Controller) loop() {
	defer close(c.loopDone)
	for comp := range c.completions {
		c.handle(comp)
	}
}

func (c *Controller) handle(comp completion) {
	snap := comp.snap
	ev := Event{
		Key:      snap.Key,
		Day:      snap.Index,
		Version:  snap.Version,
		Stops:    len(snap.Stops),
		Duration: comp.duration,
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()

	switch {
	case closed:
		ev.Outcome = OutcomeDropped
	case comp.err != nil:
		ev.Outcome = OutcomeFailed
		ev.Err = newOracleError(snap.Index, comp.err)
	default:
		if err := checkPermutation(snap, comp.ids); err != nil {
			ev.Outcome = OutcomeFailed
			ev.Err = newOracleError(snap.Index, err)
			break
		}
		if _, applied := c.store.ReplaceDayOrderIf(snap.Key, snap.Version, comp.ids); applied {
			ev.Outcome = OutcomeApplied
		} else if _, exists := c.store.SnapshotDay(snap.Key); exists {
			ev.Outcome = OutcomeStale
		} else {
			ev.Outcome = OutcomeDropped
		}
	}

	c.observer.OnSequenced(ev)
	c.settle(snap.Key, ev.Outcome, comp.explicit)
}

// settle marks the day idle and re-evaluates deferred or stale triggers
// before releasing the active count, so WaitIdle never observes a gap.
// A stale explicit attempt is rerun whatever the day's size.
func (c *Controller) settle(key itinerary.DayKey, outcome Outcome, wasExplicit bool) {
	c.mu.Lock()
	delete(c.inflight, key)
	explicit, deferred := c.pending[key]
	delete(c.pending, key)
	c.mu.Unlock()

	if outcome == OutcomeStale && wasExplicit {
		explicit = true
	}

	if deferred || outcome == OutcomeStale {
		if snap, ok := c.store.SnapshotDay(key); ok && (explicit || len(snap.Stops) >= c.threshold) {
			c.trigger(key, explicit)
		}
	}

	c.mu.Lock()
	c.active--
	if c.active == 0 {
		close(c.idle)
	}
	c.mu.Unlock()
}

// checkPermutation accepts ids only if they are exactly the snapshot's ids
// with the first one unchanged.
func checkPermutation(snap itinerary.Snapshot, ids []string) error {
	want := snap.IDs()
	if len(ids) != len(want) {
		return fmt.Errorf("%w: got %d ids for %d stops", ports.ErrOracleInvalidPermutation, len(ids), len(want))
	}
	if len(ids) > 0 && ids[0] != want[0] {
		return fmt.Errorf("%w: locked start %q moved", ports.ErrOracleInvalidPermutation, want[0])
	}

	remaining := make(map[string]bool, len(want))
	for _, id := range want {
		remaining[id] = true
	}
	for _, id := range ids {
		if !remaining[id] {
			return fmt.Errorf("%w: unexpected or repeated id %q", ports.ErrOracleInvalidPermutation, id)
		}
		delete(remaining, id)
	}
	return nil
}
