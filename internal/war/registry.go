package war

import (
	"errors"
	"sync"
)

var (
	ErrNoSession     = errors.New("no war session in this channel")
	ErrWarInProgress = errors.New("a war is already in progress in this channel")
)

// Registry maps channel ids to their active war session. Telegram may
// deliver updates for different chats concurrently, so the map is guarded
// by a mutex; mutation of a single session is serialized by the handler
// path for its chat.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*Session)}
}

// Get returns the channel's active session, if any.
func (r *Registry) Get(channelID int64) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[channelID]
	return s, ok
}

// Put installs a session for a channel. An existing in-progress war blocks
// the new one unless replace is set; replacement discards the prior
// session unconditionally, with no partial save.
func (r *Registry) Put(channelID int64, s *Session, replace bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[channelID]; ok && !replace {
		if existing.State() == StateInProgress {
			return ErrWarInProgress
		}
	}
	r.sessions[channelID] = s
	return nil
}

// Delete removes the channel's session.
func (r *Registry) Delete(channelID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, channelID)
}

// Len returns how many sessions are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
