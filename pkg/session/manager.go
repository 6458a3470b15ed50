package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hodaniel/graphwalker"
	"github.com/hodaniel/graphwalker/internal/compiler"
	"github.com/hodaniel/graphwalker/internal/logging"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
	"github.com/hodaniel/graphwalker/pkg/strategy"
)

// CreateRequest describes a new session.
// Strategy wins over Expression; with neither, the default strategy is used.
type CreateRequest struct {
	Model      string         `json:"model"`
	Strategy   *strategy.Spec `json:"strategy,omitempty"`
	Expression string         `json:"expression,omitempty"`
	Seed       *uint64        `json:"seed,omitempty"`
}

// Info is the public view of a session.
type Info struct {
	ID         string            `json:"id"`
	Model      string            `json:"model"`
	Strategy   string            `json:"strategy"`
	CreatedAt  time.Time         `json:"created_at"`
	Statistics domain.Statistics `json:"statistics"`
}

type session struct {
	id        string
	model     string
	createdAt time.Time
	walker    *graphwalker.Walker
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	models ports.ModelStore

	mu    sync.Mutex            // Global lock for the lock map
	locks map[string]*lockEntry // Map of active locks

	smu      sync.RWMutex
	sessions map[string]*session

	hooks   domain.LifecycleHooks
	walkOpt []graphwalker.Option
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager and its walkers.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLifecycleHooks registers hooks on every walker the manager creates.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithWalkerOptions appends options applied to every walker.
func WithWalkerOptions(opts ...graphwalker.Option) Option {
	return func(m *Manager) {
		m.walkOpt = append(m.walkOpt, opts...)
	}
}

// NewManager creates a new Session Manager reading models from the given store.
func NewManager(models ports.ModelStore, opts ...Option) *Manager {
	m := &Manager{
		models:   models,
		locks:    make(map[string]*lockEntry),
		sessions: make(map[string]*session),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Models returns the model catalog.
func (m *Manager) Models() ports.ModelStore {
	return m.models
}

// Create loads the requested model and starts a session on it.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (Info, error) {
	model, err := m.models.Load(ctx, req.Model)
	if err != nil {
		return Info{}, err
	}

	spec := strategy.Default()
	switch {
	case req.Strategy != nil:
		spec = *req.Strategy
	case req.Expression != "":
		spec, err = compiler.NewParser().Parse(req.Expression)
		if err != nil {
			return Info{}, fmt.Errorf("invalid strategy expression: %w", err)
		}
	}

	id := uuid.NewString()
	opts := append([]graphwalker.Option{
		graphwalker.WithStrategy(spec),
		graphwalker.WithLifecycleHooks(m.hooks),
		graphwalker.WithLogger(m.logger.With("session_id", id)),
	}, m.walkOpt...)
	if req.Seed != nil {
		opts = append(opts, graphwalker.WithSeed(*req.Seed))
	}

	w, err := graphwalker.New(model, opts...)
	if err != nil {
		return Info{}, err
	}

	s := &session{id: id, model: model.Name, createdAt: time.Now().UTC(), walker: w}
	m.smu.Lock()
	m.sessions[id] = s
	m.smu.Unlock()

	m.logger.Info("Session created", "session_id", id, "model", model.Name)
	return m.info(s), nil
}

func (m *Manager) info(s *session) Info {
	return Info{
		ID:         s.id,
		Model:      s.model,
		Strategy:   s.walker.Generator().String(),
		CreatedAt:  s.createdAt,
		Statistics: s.walker.Statistics(),
	}
}

func (m *Manager) lookup(id string) (*session, error) {
	m.smu.RLock()
	defer m.smu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return s, nil
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes fn with exclusive access to the session's walker.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context, *graphwalker.Walker) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	s, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	return fn(ctx, s.walker)
}

// HasNext reports whether the session's strategy can produce another step.
func (m *Manager) HasNext(ctx context.Context, sessionID string) (bool, error) {
	var has bool
	err := m.WithLock(ctx, sessionID, func(_ context.Context, w *graphwalker.Walker) error {
		has = w.HasNext()
		return nil
	})
	return has, err
}

// Next advances the session by one step.
func (m *Manager) Next(ctx context.Context, sessionID string) (domain.Step, error) {
	var step domain.Step
	err := m.WithLock(ctx, sessionID, func(ctx context.Context, w *graphwalker.Walker) error {
		var err error
		step, err = w.Next(ctx)
		return err
	})
	return step, err
}

// Statistics returns the coverage of the session.
func (m *Manager) Statistics(ctx context.Context, sessionID string) (domain.Statistics, error) {
	var stats domain.Statistics
	err := m.WithLock(ctx, sessionID, func(_ context.Context, w *graphwalker.Walker) error {
		stats = w.Statistics()
		return nil
	})
	return stats, err
}

// Reset restarts the session from the start vertex.
func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(_ context.Context, w *graphwalker.Walker) error {
		return w.Reset()
	})
}

// Get returns the public view of a session.
func (m *Manager) Get(ctx context.Context, sessionID string) (Info, error) {
	var info Info
	err := m.WithLock(ctx, sessionID, func(context.Context, *graphwalker.Walker) error {
		s, err := m.lookup(sessionID)
		if err != nil {
			return err
		}
		info = m.info(s)
		return nil
	})
	return info, err
}

// Delete ends a session.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(context.Context, *graphwalker.Walker) error {
		m.smu.Lock()
		delete(m.sessions, sessionID)
		m.smu.Unlock()
		m.logger.Info("Session deleted", "session_id", sessionID)
		return nil
	})
}

// List returns the IDs of active sessions in sorted order.
func (m *Manager) List(ctx context.Context) []string {
	m.smu.RLock()
	defer m.smu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
