package session

import "time"

// Session binds an opaque token to the user that authenticated and the moment the
// token was minted.
type Session struct {
	Token     string
	UserName  string
	CreatedAt time.Time
}

// Expired reports whether the session is older than ttl at now. A session exactly
// ttl old is still active.
func (s Session) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.CreatedAt) > ttl
}

// State is the lifecycle position of a token as observed at lookup time.
type State uint8

const (
	// StateAbsent means the token is not in the store.
	StateAbsent State = iota
	// StateActive means the token exists and is within its TTL.
	StateActive
	// StateExpired means the token exists but is past its TTL and awaits removal.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	default:
		return "absent"
	}
}
