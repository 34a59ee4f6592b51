package logbook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/faizmokh/belajar/internal/kv"
	"github.com/faizmokh/belajar/internal/logging"
)

// Keys used in the key-value slot.
const (
	SessionsKey = "studies"
	ThemeKey    = "theme"
)

// Store owns the session collection and writes the whole collection back to
// the slot after every mutation. It is not safe for concurrent use; a single
// owner drives it.
type Store struct {
	slot     kv.Slot
	logger   *slog.Logger
	newID    func() string
	sessions []Session
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger routes store diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the UUID generator, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewStore wires a Store on top of slot. Call Load before reading.
func NewStore(slot kv.Slot, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		logger: logging.Discard(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. A missing or
// malformed blob yields an empty collection; Load never fails the caller.
func (s *Store) Load(ctx context.Context) {
	s.sessions = nil

	data, err := s.slot.Get(ctx, SessionsKey)
	if err != nil {
		s.logger.WarnContext(ctx, "read persisted sessions; starting empty", "error", err)
		return
	}
	if len(data) == 0 {
		return
	}

	var loaded []Session
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.logger.WarnContext(ctx, "persisted sessions are malformed; starting empty", "error", err)
		return
	}

	assigned := 0
	for i := range loaded {
		if strings.TrimSpace(loaded[i].ID) == "" {
			loaded[i].ID = s.newID()
			assigned++
		}
	}
	s.sessions = loaded

	if assigned > 0 {
		s.logger.InfoContext(ctx, "assigned ids to stored sessions", "count", assigned)
		if err := s.Persist(ctx); err != nil {
			s.logger.WarnContext(ctx, "persist assigned ids", "error", err)
		}
	}
	s.logger.DebugContext(ctx, "loaded sessions", "count", len(s.sessions))
}

// Len reports how many sessions are held.
func (s *Store) Len() int {
	return len(s.sessions)
}

// Sessions returns a copy of the collection in insertion order.
func (s *Store) Sessions() []Session {
	return append([]Session(nil), s.sessions...)
}

// Recent returns a copy sorted by date, newest first. Sessions sharing a date
// keep their insertion order.
func (s *Store) Recent() []Session {
	out := s.Sessions()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// Get returns the session with exactly this ID.
func (s *Store) Get(id string) (Session, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.sessions[idx], nil
}

// Resolve finds a session by full ID or by a unique ID prefix.
func (s *Store) Resolve(ref string) (Session, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return Session{}, fmt.Errorf("%w: empty id", ErrSessionNotFound)
	}
	if idx := s.indexOf(ref); idx >= 0 {
		return s.sessions[idx], nil
	}

	var (
		match Session
		found int
	)
	for _, session := range s.sessions {
		if strings.HasPrefix(strings.ToLower(session.ID), ref) {
			match = session
			found++
		}
	}
	switch found {
	case 0:
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, ref)
	case 1:
		return match, nil
	default:
		return Session{}, fmt.Errorf("%w: %s matches %d sessions", ErrAmbiguousRef, ref, found)
	}
}

// Add validates session, assigns it a new ID, appends it and persists.
func (s *Store) Add(ctx context.Context, session Session) (Session, error) {
	session = session.Normalize()
	if err := session.ValidateEntry(); err != nil {
		return Session{}, err
	}
	session.ID = s.newID()

	next := append(s.Sessions(), session)
	if err := s.commit(ctx, next); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Replace overwrites the session with the given ID. Unknown IDs leave the
// collection untouched and return ErrSessionNotFound. The date format is only
// checked when the date changes, so imported dates survive other edits.
func (s *Store) Replace(ctx context.Context, id string, session Session) (Session, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	session = session.Normalize()
	validate := session.ValidateEntry
	if session.Date == s.sessions[idx].Date {
		validate = session.Validate
	}
	if err := validate(); err != nil {
		return Session{}, err
	}
	session.ID = s.sessions[idx].ID

	next := s.Sessions()
	next[idx] = session
	if err := s.commit(ctx, next); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Remove deletes the session with the given ID and returns it.
func (s *Store) Remove(ctx context.Context, id string) (Session, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	removed := s.sessions[idx]

	next := make([]Session, 0, len(s.sessions)-1)
	next = append(next, s.sessions[:idx]...)
	next = append(next, s.sessions[idx+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return Session{}, err
	}
	return removed, nil
}

// Clear empties the collection and returns how many sessions were dropped.
// Clearing an empty collection returns ErrNothingToClear and writes nothing.
func (s *Store) Clear(ctx context.Context) (int, error) {
	if len(s.sessions) == 0 {
		return 0, ErrNothingToClear
	}
	count := len(s.sessions)
	if err := s.commit(ctx, []Session{}); err != nil {
		return 0, err
	}
	return count, nil
}

// Append adds already-validated sessions in bulk (imports). Every session
// gets a fresh ID; duplicates are kept as-is.
func (s *Store) Append(ctx context.Context, sessions []Session) ([]Session, error) {
	if len(sessions) == 0 {
		return nil, nil
	}

	added := make([]Session, 0, len(sessions))
	for _, session := range sessions {
		session = session.Normalize()
		if err := session.Validate(); err != nil {
			return nil, fmt.Errorf("append %q: %w", session.Subject, err)
		}
		session.ID = s.newID()
		added = append(added, session)
	}

	next := append(s.Sessions(), added...)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return added, nil
}

// Persist serializes the full collection into the slot, replacing whatever
// was stored before.
func (s *Store) Persist(ctx context.Context) error {
	return s.write(ctx, s.sessions)
}

// commit persists next and only then swaps it in, so a failed write leaves
// the in-memory collection unchanged.
func (s *Store) commit(ctx context.Context, next []Session) error {
	if err := s.write(ctx, next); err != nil {
		return err
	}
	s.sessions = next
	return nil
}

func (s *Store) write(ctx context.Context, sessions []Session) error {
	if sessions == nil {
		sessions = []Session{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	if err := s.slot.Put(ctx, SessionsKey, data); err != nil {
		s.logger.ErrorContext(ctx, "persist sessions", "count", len(sessions), "error", err)
		return fmt.Errorf("save sessions: %w", err)
	}
	s.logger.DebugContext(ctx, "persisted sessions", "count", len(sessions))
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, session := range s.sessions {
		if session.ID == id {
			return i
		}
	}
	return -1
}
