package memauth

import (
	"sort"
	"time"

	"github.com/MrEthical07/memauth/session"
)

// Authenticate verifies secret against name's stored digest and, on a match, issues
// a new session token.
//
// The digest is checked without holding any lock. The account is then looked up
// again under the read lock, which stays held until the token is recorded, so a
// user deleted or recreated during verification gets no session.
//
//	Performance: dominated by the digest cost of the stored scheme.
func (s *Service) Authenticate(name, secret string) (res Result[string]) {
	defer recoverResult(s, "Authenticate", "user="+name, &res)

	if s.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			s.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
		}()
	}

	if name == "" {
		return fail[string](StatusParamsError)
	}

	acc, ok := s.account(name)
	if !ok {
		s.metricInc(MetricAuthFailure)
		return fail[string](StatusUserNotExist)
	}

	match, err := s.codec.Verify(secret, acc.Digest)
	if err != nil {
		s.logf("Authenticate user=%s: stored digest unreadable: %v", name, err)
		s.metricInc(MetricInternalError)
		return fail[string](StatusInternalError)
	}
	if !match {
		s.metricInc(MetricAuthFailure)
		return fail[string](StatusWrongPassword)
	}

	s.accountMu.RLock()
	defer s.accountMu.RUnlock()

	if cur, ok := s.accounts.Get(name); !ok || cur.Digest != acc.Digest {
		s.metricInc(MetricAuthFailure)
		return fail[string](StatusUserNotExist)
	}

	sess, err := s.sessions.Issue(name)
	if err != nil {
		s.logf("Authenticate user=%s: %v", name, err)
		s.metricInc(MetricInternalError)
		return fail[string](StatusInternalError)
	}

	s.metricInc(MetricAuthSuccess)
	return success(sess.Token)
}

// CheckRole reports whether the user behind token currently holds role. A role
// that was never defined, or was deleted, yields false rather than an error.
func (s *Service) CheckRole(token, role string) (res Result[bool]) {
	defer recoverResult(s, "CheckRole", "role="+role, &res)

	if token == "" || role == "" {
		return fail[bool](StatusParamsError)
	}

	sess, status := s.resolve(token)
	if status != StatusSuccess {
		return fail[bool](status)
	}

	s.assignMu.RLock()
	defer s.assignMu.RUnlock()

	return success(s.assignments.Has(sess.UserName, role))
}

// GetAllRoles returns the sorted role names held by the user behind token. An
// expired token is reported as StatusInvalidToken. A token whose user has been
// deleted yields an empty, non-nil slice.
func (s *Service) GetAllRoles(token string) (res Result[[]string]) {
	defer recoverResult(s, "GetAllRoles", "", &res)

	if token == "" {
		return fail[[]string](StatusParamsError)
	}

	sess, status := s.resolve(token)
	if status == StatusTokenExpired {
		status = StatusInvalidToken
	}
	if status != StatusSuccess {
		return fail[[]string](status)
	}

	s.assignMu.RLock()
	held := s.assignments.RolesOf(sess.UserName)
	s.assignMu.RUnlock()

	roles := make([]string, 0, len(held))
	for r := range held {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return success(roles)
}

// Invalidate removes token. Unknown and empty tokens are ignored.
func (s *Service) Invalidate(token string) {
	defer func() {
		if r := recover(); r != nil {
			s.logf("Invalidate: recovered: %v", r)
			s.metricInc(MetricInternalError)
		}
	}()

	if token == "" {
		return
	}
	if s.sessions.Invalidate(token) {
		s.metricInc(MetricTokenInvalidated)
	}
}

// SessionCount returns the number of stored sessions, including expired ones a
// sweep has not yet removed.
func (s *Service) SessionCount() int {
	return s.sessions.Len()
}

// TokenTTL returns how long an issued token stays active.
func (s *Service) TokenTTL() time.Duration {
	return s.sessions.TTL()
}

// MetricsSnapshot returns a copy of the current metric values.
func (s *Service) MetricsSnapshot() MetricsSnapshot {
	return s.metrics.Snapshot()
}

func (s *Service) resolve(token string) (session.Session, Status) {
	sess, state := s.sessions.Resolve(token)
	switch state {
	case session.StateActive:
		return sess, StatusSuccess
	case session.StateExpired:
		s.metricInc(MetricTokenRejectedExpired)
		return session.Session{}, StatusTokenExpired
	default:
		s.metricInc(MetricTokenRejectedInvalid)
		return session.Session{}, StatusInvalidToken
	}
}

func (s *Service) observeSweep(evicted int) {
	s.metricInc(MetricSweepRun)
	if evicted > 0 {
		s.metricAdd(MetricSweepEvicted, uint64(evicted))
	}
}
