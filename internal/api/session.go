package api

import (
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/flowmodeler/internal/domain"
	"github.com/shaiso/flowmodeler/internal/modeler"
	"github.com/shaiso/flowmodeler/internal/telemetry"
)

var (
	// ErrSessionNotFound — сессия не найдена.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionLimit — достигнут лимит открытых сессий.
	ErrSessionLimit = errors.New("session limit reached")
)

// Session — сессия редактирования: один Store и его владелец.
//
// Store не потокобезопасен, поэтому все обращения к нему идут под mu.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu       sync.Mutex
	store    *modeler.Store
	recorder *modeler.Recorder
}

// SessionState — снимок состояния сессии.
type SessionState struct {
	ID        uuid.UUID
	CreatedAt time.Time
	FlowID    string
	SubflowID string
	Subflows  []string
	Loaded    bool
}

// UpdateResult — результат UpdateElement.
type UpdateResult struct {
	Applied   bool
	Reason    modeler.SkipReason
	ElementID string
	FlowID    string
	SubflowID string
}

// State возвращает снимок состояния сессии.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() SessionState {
	flow := s.store.Flow()
	state := SessionState{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		SubflowID: s.store.SubflowID(),
		Loaded:    flow != nil,
	}
	if flow != nil {
		state.FlowID = flow.ID
		state.Subflows = slices.Sorted(maps.Keys(flow.Subflows))
	}
	return state
}

// SelectFlow вызывает Store.SelectFlow.
func (s *Session) SelectFlow(flowID string) SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.SelectFlow(flowID)
	return s.stateLocked()
}

// SelectSubflow вызывает Store.SelectSubflow.
func (s *Session) SelectSubflow(subflowID string) SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.SelectSubflow(subflowID)
	return s.stateLocked()
}

// UpdateElement вызывает Store.UpdateElement и сообщает, применилась ли правка.
func (s *Session) UpdateElement(loc domain.Location, value domain.ElementValue) UpdateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recorder.Reset()
	s.store.UpdateElement(loc, value)

	result := UpdateResult{
		Applied:   s.recorder.Last == modeler.SkipNone,
		Reason:    s.recorder.Last,
		ElementID: s.recorder.ElementID,
		SubflowID: s.store.SubflowID(),
	}
	if flow := s.store.Flow(); flow != nil {
		result.FlowID = flow.ID
	}
	return result
}

// Layout возвращает слоты текущего subflow.
func (s *Session) Layout() (SessionState, []modeler.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stateLocked(), s.store.Layout()
}

// Sessions — реестр открытых сессий.
type Sessions struct {
	catalog  modeler.Catalog
	observer modeler.Observer
	limit    int
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// SessionsConfig — конфигурация реестра сессий.
type SessionsConfig struct {
	// Catalog — каталог, из которого сессии загружают flows.
	Catalog modeler.Catalog

	// Observer — общий Observer всех сессий (логи, метрики).
	Observer modeler.Observer

	// Limit — максимальное число сессий (0 — без ограничения).
	Limit int

	Logger *slog.Logger
}

// NewSessions создаёт пустой реестр.
func NewSessions(cfg SessionsConfig) *Sessions {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Sessions{
		catalog:  cfg.Catalog,
		observer: cfg.Observer,
		limit:    cfg.Limit,
		logger:   logger,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Open открывает сессию для flowID.
//
// Как при монтировании редактора: сначала сбрасывается subflow,
// затем выбирается flow. Неизвестный flowID даёт сессию в пустом состоянии.
func (r *Sessions) Open(flowID string) (*Session, error) {
	id := uuid.New()
	logger := telemetry.WithSessionID(r.logger, id.String())

	recorder := &modeler.Recorder{}
	observers := modeler.Observers{recorder, modeler.NewLogObserver(logger)}
	if r.observer != nil {
		observers = append(observers, r.observer)
	}

	session := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		recorder:  recorder,
		store: modeler.New(modeler.Config{
			Catalog:  r.catalog,
			Observer: observers,
		}),
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	r.mu.Lock()
	if r.limit > 0 && len(r.sessions) >= r.limit {
		r.mu.Unlock()
		return nil, ErrSessionLimit
	}
	r.sessions[id] = session
	active := len(r.sessions)
	r.mu.Unlock()

	telemetry.SessionsActive.Set(float64(active))

	session.store.SelectSubflow("")
	session.store.SelectFlow(flowID)

	return session, nil
}

// Get возвращает сессию по ID.
func (r *Sessions) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Close закрывает сессию.
func (r *Sessions) Close(id uuid.UUID) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	active := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	telemetry.SessionsActive.Set(float64(active))
	r.logger.Info("session closed", "session_id", id)
	return nil
}

// Len возвращает количество открытых сессий.
func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
