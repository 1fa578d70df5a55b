package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"tile-planner/internal/planner/editor"
	"tile-planner/internal/planner/layout"
	"tile-planner/internal/planner/repository"
)

var ErrSessionNotFound = errors.New("session not found")

// ============================================================
// Session Manager
// ============================================================

type entry struct {
	mu      sync.Mutex
	sess    *editor.Session
	loaded  bool
	deleted bool
}

// SessionManager owns the live editing sessions. Each session is loaded from the
// repository on first use and every change is written back before the call
// returns. Calls on one session are serialized.
type SessionManager struct {
	repo *repository.Repository
	opts editor.Options

	mu       sync.Mutex
	sessions map[string]*entry

	template atomic.Pointer[layout.Template]
}

func NewSessionManager(repo *repository.Repository, opts editor.Options, tmpl layout.Template) *SessionManager {
	m := &SessionManager{
		repo:     repo,
		opts:     opts,
		sessions: make(map[string]*entry),
	}
	m.template.Store(&tmpl)
	return m
}

// Create starts an empty session and persists its defaults.
func (m *SessionManager) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := m.repo.CreateSession(ctx, id); err != nil {
		return "", err
	}

	sess := editor.New(m.opts)
	sess.MarkAllDirty()
	if err := sess.Flush(ctx, m.repo.Bucket(id)); err != nil {
		return "", fmt.Errorf("persist new session: %w", err)
	}

	m.mu.Lock()
	m.sessions[id] = &entry{sess: sess, loaded: true}
	m.mu.Unlock()

	log.Printf("[SESSION] created %s", id)
	return id, nil
}

func (m *SessionManager) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return true, nil
	}
	return m.repo.SessionExists(ctx, id)
}

func (m *SessionManager) List(ctx context.Context) ([]repository.SessionInfo, error) {
	return m.repo.ListSessions(ctx)
}

// With runs fn against the session and flushes whatever it changed.
func (m *SessionManager) With(ctx context.Context, id string, fn func(*editor.Session) error) error {
	e, err := m.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()

	fnErr := fn(e.sess)
	if err := e.sess.Flush(ctx, m.repo.Bucket(id)); err != nil {
		log.Printf("[SESSION] flush %s: %v", id, err)
		if fnErr == nil {
			return err
		}
	}
	return fnErr
}

// View runs fn against the session without persisting anything.
func (m *SessionManager) View(ctx context.Context, id string, fn func(*editor.Session) error) error {
	e, err := m.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()
	return fn(e.sess)
}

// Delete waits for any call running on the session, then removes it. Calls
// queued behind the delete see ErrSessionNotFound.
func (m *SessionManager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.deleted = true
	}

	if err := m.repo.DeleteSession(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("delete %s: %w", id, ErrSessionNotFound)
		}
		return err
	}
	log.Printf("[SESSION] deleted %s", id)
	return nil
}

// acquire returns the locked, loaded entry for id.
func (m *SessionManager) acquire(ctx context.Context, id string) (*entry, error) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	m.mu.Unlock()

	if !ok {
		exists, err := m.repo.SessionExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
		}
		m.mu.Lock()
		if e, ok = m.sessions[id]; !ok {
			e = &entry{sess: editor.New(m.opts)}
			m.sessions[id] = e
		}
		m.mu.Unlock()
	}

	e.mu.Lock()
	if e.deleted {
		e.mu.Unlock()
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	if !e.loaded {
		if err := e.sess.Load(ctx, m.repo.Bucket(id)); err != nil {
			e.mu.Unlock()
			return nil, fmt.Errorf("load session %s: %w", id, err)
		}
		e.loaded = true
		log.Printf("[SESSION] loaded %s", id)
	}
	return e, nil
}

// ============================================================
// Room template
// ============================================================

func (m *SessionManager) Template() layout.Template {
	return *m.template.Load()
}

// SetTemplate swaps the room template used for layout and rendering.
func (m *SessionManager) SetTemplate(t layout.Template) {
	m.template.Store(&t)
	log.Printf("[SESSION] room template set to %q", t.Name)
}

func (m *SessionManager) Geometry() layout.Geometry {
	return layout.Derive(m.Template())
}
