package session

import (
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"itinerary-route-service/internal/reconcile"
	"itinerary-route-service/internal/share"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type options struct {
	threshold int
	timeout   time.Duration
	strict    bool
	observers []reconcile.Observer
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*options)

func WithThreshold(n int) Option { return func(o *options) { o.threshold = n } }

func WithSequencingTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

// WithStrictIntegrity makes itinerary integrity violations panic.
func WithStrictIntegrity(strict bool) Option { return func(o *options) { o.strict = strict } }

// WithObserver adds an observer shared by every session's controller.
func WithObserver(obs reconcile.Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// Manager owns every live session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	oracle    ports.SequencingOracle
	generator ports.DayGenerator
	codec     *share.Codec
	opts      options
}

func NewManager(oracle ports.SequencingOracle, generator ports.DayGenerator, codec *share.Codec, opts ...Option) *Manager {
	o := options{
		threshold: reconcile.DefaultThreshold,
		timeout:   reconcile.DefaultTimeout,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager{
		sessions:  make(map[string]*Session),
		oracle:    oracle,
		generator: generator,
		codec:     codec,
		opts:      o,
	}
}

// Create validates cfg and starts an empty session.
func (m *Manager) Create(cfg domain.TripConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return m.start(cfg, nil), nil
}

// Import starts a session from a share token. A malformed token creates nothing.
func (m *Manager) Import(token string) (*Session, error) {
	state, err := m.codec.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("import session: %w", err)
	}
	return m.start(state.Config, state.Days), nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("get session %q: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// Reset replaces the trip and itinerary of an existing session.
func (m *Manager) Reset(id string, cfg domain.TripConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("reset session: %w", err)
	}
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	s.reset(cfg, nil)
	m.opts.logger.Info("session reset", "session", id)
	return s, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("delete session %q: %w", id, ErrSessionNotFound)
	}
	s.close()
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close ends every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

func (m *Manager) start(cfg domain.TripConfig, days [][]domain.Stop) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		createdAt: m.opts.now(),
		deps:      m,
		now:       m.opts.now,
	}
	s.reset(cfg, days)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.opts.logger.Info("session started", "session", s.ID, "days", len(days))
	return s
}
