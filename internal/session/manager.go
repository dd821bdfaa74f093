// Package session holds preview sessions between the preview and commit
// calls. Sessions are in-memory only: a restart forfeits pending previews,
// which is safe because nothing durable happens before commit.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/dedup"
)

// State is the lifecycle position of an upload.
type State string

const (
	StateReceived          State = "Received"
	StatePreviewing        State = "Previewing"
	StatePreviewReady      State = "PreviewReady"
	StateCommitting        State = "Committing"
	StateCommitted         State = "Committed"
	StateRejected          State = "Rejected"
	StateRejectedDuplicate State = "RejectedDuplicate"
	StateDiscarded         State = "Discarded"
)

// Terminal reports whether no further transition is allowed from s.
func (s State) Terminal() bool {
	switch s {
	case StateCommitted, StateRejected, StateRejectedDuplicate, StateDiscarded:
		return true
	}
	return false
}

var (
	ErrNotFound   = errors.New("preview session not found or expired")
	ErrWrongState = errors.New("preview session is not in a committable state")
)

// PreviewSession carries everything commit needs: the extracted PO, the
// original file bytes' fingerprint and the dedup scope declared at preview.
type PreviewSession struct {
	Token      string
	State      State
	Platform   canonical.PlatformID
	PO         *canonical.PO
	Warnings   []canonical.Warning
	FileHash   string
	FileBytes  []byte
	FileSize   int64
	UploadType string
	Scope      dedup.Scope
	UploadedBy string
	Filename   string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

type Manager struct {
	sessions map[string]*PreviewSession
	ttl      time.Duration
	mu       sync.Mutex
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		sessions: make(map[string]*PreviewSession),
		ttl:      ttl,
	}
}

// Create stores a PreviewReady session and returns a snapshot of it. The
// token is the commit handle the client must present.
func (m *Manager) Create(s PreviewSession) *PreviewSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.Token = uuid.New().String()
	s.State = StatePreviewReady
	s.CreatedAt = time.Now()
	s.ExpiresAt = s.CreatedAt.Add(m.ttl)
	stored := s
	m.sessions[s.Token] = &stored
	return &s
}

// Get returns a snapshot of the session for token. The stored session is
// only ever written under the manager's lock, so callers can read and even
// scribble on the snapshot while a commit settles the same token. Expired
// sessions behave as if they never existed.
func (m *Manager) Get(token string) (*PreviewSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(s.ExpiresAt) {
		delete(m.sessions, token)
		return nil, ErrNotFound
	}
	snap := *s
	return &snap, nil
}

// BeginCommit transitions PreviewReady -> Committing and returns a snapshot
// for the winning caller to commit from. Only one caller can win; a
// concurrent second commit of the same token gets ErrWrongState.
func (m *Manager) BeginCommit(token string) (*PreviewSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(s.ExpiresAt) {
		delete(m.sessions, token)
		return nil, ErrNotFound
	}
	if s.State != StatePreviewReady {
		return nil, ErrWrongState
	}
	s.State = StateCommitting
	snap := *s
	return &snap, nil
}

// FinishCommit settles a Committing session into a terminal state, or back
// to PreviewReady when the commit failed and the session is still usable.
func (m *Manager) FinishCommit(token string, final State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return
	}
	s.State = final
	if final.Terminal() {
		delete(m.sessions, token)
	}
}

// Discard removes a pending session. Discarding records nothing durable:
// the same file can be previewed again afterwards.
func (m *Manager) Discard(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return ErrNotFound
	}
	if s.State == StateCommitting {
		return ErrWrongState
	}
	s.State = StateDiscarded
	delete(m.sessions, token)
	return nil
}

// CleanupExpired drops sessions past their TTL and returns how many went.
func (m *Manager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	n := 0
	for token, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, token)
			n++
		}
	}
	return n
}

// Count returns the number of live sessions, for the health endpoint.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
