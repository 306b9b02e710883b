package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrTokenGeneration is returned when the token source fails or keeps producing
// tokens that are already in use.
var ErrTokenGeneration = errors.New("token generation failed")

const maxMintAttempts = 3

// Option customizes a [Store] at construction.
type Option func(*Store)

// WithClock replaces time.Now as the store's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTokenSource replaces the random UUID token generator.
func WithTokenSource(next func() (string, error)) Option {
	return func(s *Store) {
		if next != nil {
			s.newToken = next
		}
	}
}

// WithSweepObserver registers fn to be called after every resize-triggered sweep
// with the number of evicted sessions. fn runs while the store's write lock is held
// and must not call back into the store.
func WithSweepObserver(fn func(evicted int)) Option {
	return func(s *Store) {
		s.onSweep = fn
	}
}

// Store is an in-memory token to [Session] map guarded by a single RWMutex.
//
// Lookups take the read lock; Issue, Invalidate and sweeps take the write lock.
// A per-user index mirrors the map so all sessions of a user can be revoked without
// a full scan.
type Store struct {
	ttl           time.Duration
	resizeTrigger int
	now           func() time.Time
	newToken      func() (string, error)
	onSweep       func(evicted int)

	mu       sync.RWMutex
	sessions map[string]Session
	byUser   map[string]map[string]struct{}
}

// NewStore creates a Store whose sessions expire after ttl and which sweeps expired
// entries whenever an insert leaves more than resizeTrigger sessions in the map.
func NewStore(ttl time.Duration, resizeTrigger int, opts ...Option) *Store {
	s := &Store{
		ttl:           ttl,
		resizeTrigger: resizeTrigger,
		now:           time.Now,
		newToken:      randomToken,
		sessions:      make(map[string]Session),
		byUser:        make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func randomToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Issue mints a token for userName, records it, and then applies the resize policy.
//
//	Performance: O(1), or O(n) when the insert crosses the resize trigger.
func (s *Store) Issue(userName string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.mintLocked()
	if err != nil {
		return Session{}, err
	}

	sess := Session{
		Token:     token,
		UserName:  userName,
		CreatedAt: s.now(),
	}
	s.sessions[token] = sess
	s.indexLocked(sess)

	if len(s.sessions) > s.resizeTrigger {
		evicted := s.sweepLocked(s.now())
		if s.onSweep != nil {
			s.onSweep(evicted)
		}
	}

	return sess, nil
}

func (s *Store) mintLocked() (string, error) {
	for i := 0; i < maxMintAttempts; i++ {
		token, err := s.newToken()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
		}
		if token == "" {
			continue
		}
		if _, taken := s.sessions[token]; !taken {
			return token, nil
		}
	}
	return "", ErrTokenGeneration
}

// Lookup returns the session stored under token, expired or not.
func (s *Store) Lookup(token string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	return sess, ok
}

// Resolve returns the session for token together with its lifecycle state at the
// current time. Expired sessions are reported but left in place.
func (s *Store) Resolve(token string) (Session, State) {
	sess, ok := s.Lookup(token)
	if !ok {
		return Session{}, StateAbsent
	}
	if sess.Expired(s.now(), s.ttl) {
		return sess, StateExpired
	}
	return sess, StateActive
}

// Invalidate removes token. It reports whether a session was removed; removing an
// unknown token is not an error.
func (s *Store) Invalidate(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return false
	}
	s.removeLocked(sess)
	return true
}

// InvalidateUser removes every session issued to userName and returns how many
// were removed.
func (s *Store) InvalidateUser(userName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := s.byUser[userName]
	n := len(tokens)
	for token := range tokens {
		delete(s.sessions, token)
	}
	delete(s.byUser, userName)
	return n
}

// Sweep removes every expired session regardless of map size and returns the number
// evicted.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

func (s *Store) sweepLocked(now time.Time) int {
	evicted := 0
	for _, sess := range s.sessions {
		if sess.Expired(now, s.ttl) {
			s.removeLocked(sess)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of sessions in the map, including expired ones not yet
// swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) indexLocked(sess Session) {
	tokens, ok := s.byUser[sess.UserName]
	if !ok {
		tokens = make(map[string]struct{})
		s.byUser[sess.UserName] = tokens
	}
	tokens[sess.Token] = struct{}{}
}

func (s *Store) removeLocked(sess Session) {
	delete(s.sessions, sess.Token)
	if tokens, ok := s.byUser[sess.UserName]; ok {
		delete(tokens, sess.Token)
		if len(tokens) == 0 {
			delete(s.byUser, sess.UserName)
		}
	}
}
