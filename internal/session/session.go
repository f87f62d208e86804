// Package session owns the state of one planning session: the trip
// configuration, the itinerary, its reconciliation controller and the notices
// shown to the user. Sessions are created and looked up through a Manager.
package session

import (
	"context"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/itinerary"
	"itinerary-route-service/internal/ports"
	"itinerary-route-service/internal/reconcile"
	"itinerary-route-service/internal/share"
	"sync"
	"time"
)

type Session struct {
	ID string

	mu         sync.RWMutex
	config     domain.TripConfig
	ctrl       *reconcile.Controller
	epoch      uint64
	notices    []Notice
	generating bool
	createdAt  time.Time

	deps *Manager
	now  func() time.Time
}

// View is a consistent read-only copy of the session.
type View struct {
	ID         string            `json:"id"`
	Config     domain.TripConfig `json:"config"`
	TotalDays  int               `json:"total_days"`
	Days       [][]domain.Stop   `json:"days"`
	Sequencing []int             `json:"sequencing"`
	Generating bool              `json:"generating"`
	Notices    []Notice          `json:"notices"`
	CreatedAt  time.Time         `json:"created_at"`
}

func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return View{
		ID:         s.ID,
		Config:     s.config,
		TotalDays:  s.config.TotalDays(),
		Days:       s.ctrl.Store().Days(),
		Sequencing: s.ctrl.Sequencing(),
		Generating: s.generating,
		Notices:    s.activeNotices(),
		CreatedAt:  s.createdAt,
	}
}

func (s *Session) Config() domain.TripConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// AddStop adds a stop to targetDay and returns the day's stops. A target of
// zero or less selects the last day.
func (s *Session) AddStop(stop domain.Stop, targetDay int) itinerary.Change {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctrl.AddStop(stop, targetDay)
}

func (s *Session) UpdateStop(id string, patch domain.StopPatch) (domain.Stop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ctrl.UpdateStop(id, patch) {
		return domain.Stop{}, fmt.Errorf("update stop %q: %w", id, ErrStopNotFound)
	}
	st, _ := s.ctrl.Store().Stop(id)
	return st, nil
}

func (s *Session) DeleteStop(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ctrl.DeleteStop(id) {
		return fmt.Errorf("delete stop %q: %w", id, ErrStopNotFound)
	}
	return nil
}

func (s *Session) ReplaceDayOrder(day int, orderedIDs []string) ([]domain.Stop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stops := s.ctrl.ReplaceDayOrder(day, orderedIDs)
	if stops == nil {
		return nil, fmt.Errorf("replace order of day %d: %w", day, ErrDayNotFound)
	}
	return stops, nil
}

func (s *Session) RequestReorder(day int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ctrl.RequestReorder(day); err != nil {
		return fmt.Errorf("optimize day %d: %w", day, ErrDayNotFound)
	}
	return nil
}

// WaitIdle blocks until no sequencing attempt is running.
func (s *Session) WaitIdle(ctx context.Context) error {
	s.mu.RLock()
	ctrl := s.ctrl
	s.mu.RUnlock()
	return ctrl.WaitIdle(ctx)
}

// GenerateNextDay asks the day generator for the day after the last planned
// one and appends it in the generator's order. Places already in the
// itinerary are passed along so they are not suggested again.
func (s *Session) GenerateNextDay(ctx context.Context) ([]domain.Stop, error) {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return nil, ErrGenerationInProgress
	}
	store := s.ctrl.Store()
	day := store.DayCount() + 1
	if day > s.config.TotalDays() {
		s.mu.Unlock()
		return nil, ErrTripComplete
	}
	s.generating = true
	epoch := s.epoch
	req := ports.DayRequest{Day: day, Trip: s.config, PreviousStops: store.StopNames()}
	s.mu.Unlock()

	stops, err := s.deps.generator.GenerateDay(ctx, req)
	if err != nil {
		s.finishGenerating(epoch)
		s.notify(epoch, Notice{Level: NoticeWarning, Message: fmt.Sprintf("Couldn't generate day %d.", day), Day: day})
		return nil, fmt.Errorf("generate day %d: %w", day, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return nil, ErrSessionReset
	}
	s.generating = false
	if len(stops) == 0 {
		return nil, nil
	}

	target := s.ctrl.Store().DayCount() + 1
	var out []domain.Stop
	for _, st := range stops {
		// generator ids are not trusted to be unique across days
		st.ID = ""
		out = s.ctrl.Store().Add(st, target).Stops
	}
	return out, nil
}

func (s *Session) finishGenerating(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch == s.epoch {
		s.generating = false
	}
}

// Export encodes the session into a share token.
func (s *Session) Export() (string, error) {
	s.mu.RLock()
	state := share.State{Config: s.config, Days: s.ctrl.Store().Days()}
	s.mu.RUnlock()

	token, err := s.deps.codec.Encode(state)
	if err != nil {
		return "", fmt.Errorf("export session %s: %w", s.ID, err)
	}
	return token, nil
}

// reset starts over with a new trip. Running attempts of the old itinerary
// are cancelled and their results dropped.
func (s *Session) reset(cfg domain.TripConfig, days [][]domain.Stop) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl != nil {
		s.ctrl.Close()
	}
	s.epoch++
	s.config = cfg
	s.notices = nil
	s.generating = false

	store := itinerary.NewStore(
		itinerary.WithStrictIntegrity(s.deps.opts.strict),
		itinerary.WithLogger(s.deps.opts.logger.With("session", s.ID)),
	)
	if len(days) > 0 {
		store.Load(days)
	}

	observers := append(reconcile.Observers{noticeObserver{s: s, epoch: s.epoch}}, s.deps.opts.observers...)
	s.ctrl = reconcile.New(store, s.deps.oracle, cfg.Mode, cfg.Pace,
		reconcile.WithThreshold(s.deps.opts.threshold),
		reconcile.WithTimeout(s.deps.opts.timeout),
		reconcile.WithObserver(observers),
	)
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.ctrl.Close()
}
