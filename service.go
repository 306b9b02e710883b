package memauth

import (
	"log"
	"sync"

	"github.com/MrEthical07/memauth/credential"
	"github.com/MrEthical07/memauth/internal/registry"
	"github.com/MrEthical07/memauth/session"
)

// credentialCodec digests new secrets and verifies stored digests.
type credentialCodec interface {
	Scheme() credential.Scheme
	Digest(secret string) (string, error)
	Verify(secret, digest string) (bool, error)
	NeedsMigration(digest string) bool
}

// Service owns all account, role, assignment and session state.
//
// Lock order is accountMu, roleMu, assignMu, then the session store's internal
// lock. Every method that holds more than one takes them in that order.
type Service struct {
	config  Config
	codec   credentialCodec
	logger  *log.Logger
	metrics *Metrics

	accountMu sync.RWMutex
	accounts  *registry.Accounts

	roleMu sync.RWMutex
	roles  *registry.Roles

	assignMu    sync.RWMutex
	assignments *registry.Assignments

	sessions *session.Store
}

// Config returns the configuration the Service was built with.
func (s *Service) Config() Config {
	return s.config
}

// CreateUser registers name with the digest of secret.
//
// Returns StatusUserExists if name is taken, StatusParamsError if name is empty and
// StatusInternalError if the secret cannot be digested.
func (s *Service) CreateUser(name, secret string) (status Status) {
	defer s.recoverStatus("CreateUser", "user="+name, &status)

	if name == "" {
		return StatusParamsError
	}
	if s.userExists(name) {
		s.metricInc(MetricUserDuplicate)
		return StatusUserExists
	}

	digest, err := s.codec.Digest(secret)
	if err != nil {
		s.logf("CreateUser user=%s: digest failed: %v", name, err)
		s.metricInc(MetricInternalError)
		return StatusInternalError
	}

	s.accountMu.Lock()
	defer s.accountMu.Unlock()

	if s.accounts.Has(name) {
		s.metricInc(MetricUserDuplicate)
		return StatusUserExists
	}
	s.accounts.Put(registry.Account{Name: name, Digest: digest})
	s.metricInc(MetricUserCreated)
	return StatusSuccess
}

func (s *Service) userExists(name string) bool {
	s.accountMu.RLock()
	defer s.accountMu.RUnlock()
	return s.accounts.Has(name)
}

// DeleteUser removes name and its role assignments. When
// Session.RevokeOnUserDelete is set, the user's sessions are invalidated too;
// otherwise they survive and resolve to an empty role set.
func (s *Service) DeleteUser(name string) (status Status) {
	defer s.recoverStatus("DeleteUser", "user="+name, &status)

	if name == "" {
		return StatusParamsError
	}

	s.accountMu.Lock()
	defer s.accountMu.Unlock()
	s.assignMu.Lock()
	defer s.assignMu.Unlock()

	if !s.accounts.Remove(name) {
		return StatusUserNotExist
	}
	s.assignments.DropUser(name)
	s.metricInc(MetricUserDeleted)

	if s.config.Session.RevokeOnUserDelete {
		if n := s.sessions.InvalidateUser(name); n > 0 {
			s.metricAdd(MetricSessionsRevoked, uint64(n))
		}
	}
	return StatusSuccess
}

// CreateRole defines a new role.
func (s *Service) CreateRole(name string) (status Status) {
	defer s.recoverStatus("CreateRole", "role="+name, &status)

	if name == "" {
		return StatusParamsError
	}
	if s.roleExists(name) {
		s.metricInc(MetricRoleDuplicate)
		return StatusRoleExists
	}

	s.roleMu.Lock()
	defer s.roleMu.Unlock()

	if s.roles.Has(name) {
		s.metricInc(MetricRoleDuplicate)
		return StatusRoleExists
	}
	s.roles.Add(name)
	s.metricInc(MetricRoleCreated)
	return StatusSuccess
}

func (s *Service) roleExists(name string) bool {
	s.roleMu.RLock()
	defer s.roleMu.RUnlock()
	return s.roles.Has(name)
}

// DeleteRole removes name and revokes it from every user that holds it.
//
//	Performance: O(users with assignments).
func (s *Service) DeleteRole(name string) (status Status) {
	defer s.recoverStatus("DeleteRole", "role="+name, &status)

	if name == "" {
		return StatusParamsError
	}

	s.roleMu.Lock()
	defer s.roleMu.Unlock()
	s.assignMu.Lock()
	defer s.assignMu.Unlock()

	if !s.roles.Remove(name) {
		return StatusRoleNotExist
	}
	s.assignments.DropRole(name)
	s.metricInc(MetricRoleDeleted)
	return StatusSuccess
}

// AddRoleToUser grants role to user. Granting a role the user already holds
// succeeds without change.
//
// The user and role are checked while their locks are held for reading alongside
// the assignment write lock, so neither can be deleted mid-grant.
func (s *Service) AddRoleToUser(user, role string) (status Status) {
	defer s.recoverStatus("AddRoleToUser", "user="+user+" role="+role, &status)

	s.accountMu.RLock()
	defer s.accountMu.RUnlock()
	s.roleMu.RLock()
	defer s.roleMu.RUnlock()
	s.assignMu.Lock()
	defer s.assignMu.Unlock()

	if user == "" || !s.accounts.Has(user) {
		return StatusUserNotExist
	}
	if role == "" || !s.roles.Has(role) {
		return StatusRoleNotExist
	}
	s.assignments.Grant(user, role)
	s.metricInc(MetricRoleAssigned)
	return StatusSuccess
}

// UserCount returns the number of registered users.
func (s *Service) UserCount() int {
	s.accountMu.RLock()
	defer s.accountMu.RUnlock()
	return s.accounts.Len()
}

// RoleCount returns the number of defined roles.
func (s *Service) RoleCount() int {
	s.roleMu.RLock()
	defer s.roleMu.RUnlock()
	return s.roles.Len()
}

// NeedsCredentialMigration reports whether user's stored digest uses a different
// scheme than Password.Scheme. It returns StatusUserNotExist for unknown users.
func (s *Service) NeedsCredentialMigration(user string) (res Result[bool]) {
	defer recoverResult(s, "NeedsCredentialMigration", "user="+user, &res)

	if user == "" {
		return fail[bool](StatusParamsError)
	}

	s.accountMu.RLock()
	defer s.accountMu.RUnlock()

	acc, ok := s.accounts.Get(user)
	if !ok {
		return fail[bool](StatusUserNotExist)
	}
	return success(s.codec.NeedsMigration(acc.Digest))
}

// CredentialScheme returns the digest scheme applied to newly created users.
func (s *Service) CredentialScheme() credential.Scheme {
	return s.codec.Scheme()
}

func (s *Service) account(name string) (registry.Account, bool) {
	s.accountMu.RLock()
	defer s.accountMu.RUnlock()
	return s.accounts.Get(name)
}

func (s *Service) recoverStatus(op, detail string, status *Status) {
	if r := recover(); r != nil {
		s.logf("%s %s: recovered: %v", op, detail, r)
		s.metricInc(MetricInternalError)
		*status = StatusInternalError
	}
}

func recoverResult[T any](s *Service, op, detail string, res *Result[T]) {
	if r := recover(); r != nil {
		s.logf("%s %s: recovered: %v", op, detail, r)
		s.metricInc(MetricInternalError)
		*res = fail[T](StatusInternalError)
	}
}

func (s *Service) logf(format string, args ...any) {
	s.logger.Printf("memauth: "+format, args...)
}

func (s *Service) metricInc(id MetricID) {
	s.metrics.Inc(id)
}

func (s *Service) metricAdd(id MetricID, n uint64) {
	s.metrics.Add(id, n)
}
