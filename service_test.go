package memauth

import (
	"bytes"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/memauth/credential"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestService(t *testing.T, b *Builder) (*Service, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	svc, err := b.WithLogger(log.New(&logs, "", 0)).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return svc, &logs
}

func mustAuthenticate(t *testing.T, svc *Service, name, secret string) string {
	t.Helper()

	token, ok := svc.Authenticate(name, secret).Value()
	if !ok {
		t.Fatalf("Authenticate(%q) failed", name)
	}
	return token
}

func TestCreateUserDuplicate(t *testing.T) {
	svc, _ := newTestService(t, New())

	if got := svc.CreateUser("alice", "pw"); got != StatusSuccess {
		t.Fatalf("expected success, got %v", got)
	}
	if got := svc.CreateUser("alice", "other"); got != StatusUserExists {
		t.Fatalf("expected StatusUserExists, got %v", got)
	}
	if svc.UserCount() != 1 {
		t.Fatalf("expected 1 user, got %d", svc.UserCount())
	}

	// The first secret is kept.
	if got := svc.Authenticate("alice", "pw"); !got.OK() {
		t.Fatalf("expected original secret to authenticate, got %v", got.Status)
	}
}

func TestCreateUserEmptyName(t *testing.T) {
	svc, _ := newTestService(t, New())

	if got := svc.CreateUser("", "pw"); got != StatusParamsError {
		t.Fatalf("expected StatusParamsError, got %v", got)
	}
}

func TestCreateUserEmptySecretAllowed(t *testing.T) {
	svc, _ := newTestService(t, New())

	if got := svc.CreateUser("blank", ""); got != StatusSuccess {
		t.Fatalf("expected success, got %v", got)
	}
	mustAuthenticate(t, svc, "blank", "")
	if got := svc.Authenticate("blank", "x").Status; got != StatusWrongPassword {
		t.Fatalf("expected StatusWrongPassword, got %v", got)
	}
}

func TestDeleteUserTwice(t *testing.T) {
	svc, _ := newTestService(t, New())
	svc.CreateUser("bob", "pw")

	if got := svc.DeleteUser("bob"); got != StatusSuccess {
		t.Fatalf("expected success, got %v", got)
	}
	if got := svc.DeleteUser("bob"); got != StatusUserNotExist {
		t.Fatalf("expected StatusUserNotExist, got %v", got)
	}
	if got := svc.DeleteUser(""); got != StatusParamsError {
		t.Fatalf("expected StatusParamsError, got %v", got)
	}
}

func TestRoleLifecycle(t *testing.T) {
	svc, _ := newTestService(t, New())

	if got := svc.CreateRole("admin"); got != StatusSuccess {
		t.Fatalf("expected success, got %v", got)
	}
	if got := svc.CreateRole("admin"); got != StatusRoleExists {
		t.Fatalf("expected StatusRoleExists, got %v", got)
	}
	if got := svc.CreateRole(""); got != StatusParamsError {
		t.Fatalf("expected StatusParamsError, got %v", got)
	}
	if got := svc.DeleteRole("admin"); got != StatusSuccess {
		t.Fatalf("expected success, got %v", got)
	}
	if got := svc.DeleteRole("admin"); got != StatusRoleNotExist {
		t.Fatalf("expected StatusRoleNotExist, got %v", got)
	}
	if got := svc.DeleteRole(""); got != StatusParamsError {
		t.Fatalf("expected StatusParamsError, got %v", got)
	}
	if svc.RoleCount() != 0 {
		t.Fatalf("expected 0 roles, got %d", svc.RoleCount())
	}
}

func TestAddRoleToUser(t *testing.T) {
	svc, _ := newTestService(t, New())
	svc.CreateUser("carol", "pw")
	svc.CreateRole("editor")

	tests := []struct {
		name string
		user string
		role string
		want Status
	}{
		{name: "grant", user: "carol", role: "editor", want: StatusSuccess},
		{name: "grant again", user: "carol", role: "editor", want: StatusSuccess},
		{name: "unknown user", user: "nobody", role: "editor", want: StatusUserNotExist},
		{name: "unknown role", user: "carol", role: "ghost", want: StatusRoleNotExist},
		{name: "empty user", user: "", role: "editor", want: StatusUserNotExist},
		{name: "empty role", user: "carol", role: "", want: StatusRoleNotExist},
		{name: "both unknown", user: "nobody", role: "ghost", want: StatusUserNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.AddRoleToUser(tt.user, tt.role); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	token := mustAuthenticate(t, svc, "carol", "pw")
	roles, ok := svc.GetAllRoles(token).Value()
	if !ok || len(roles) != 1 || roles[0] != "editor" {
		t.Fatalf("expected [editor], got %v (ok=%v)", roles, ok)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	svc, _ := newTestService(t, New())
	svc.CreateUser("dave", "right")

	if got := svc.Authenticate("dave", "wrong").Status; got != StatusWrongPassword {
		t.Fatalf("expected StatusWrongPassword, got %v", got)
	}
	if got := svc.Authenticate("nobody", "right").Status; got != StatusUserNotExist {
		t.Fatalf("expected StatusUserNotExist, got %v", got)
	}
	if got := svc.Authenticate("", "right").Status; got != StatusParamsError {
		t.Fatalf("expected StatusParamsError, got %v", got)
	}
	if svc.SessionCount() != 0 {
		t.Fatalf("failed authentication must not create sessions, got %d", svc.SessionCount())
	}
}

func TestAuthenticateTokensUnique(t *testing.T) {
	svc, _ := newTestService(t, New().WithResizeTrigger(20000))
	svc.CreateUser("erin", "pw")

	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		token := mustAuthenticate(t, svc, "erin", "pw")
		if token == "" {
			t.Fatal("empty token")
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token %q after %d issues", token, i)
		}
		seen[token] = struct{}{}
	}
	if svc.SessionCount() != n {
		t.Fatalf("expected %d sessions, got %d", n, svc.SessionCount())
	}
}

func TestCheckRoleFollowsAssignments(t *testing.T) {
	svc, _ := newTestService(t, New())
	svc.CreateUser("frank", "pw")
	svc.CreateRole("ops")
	token := mustAuthenticate(t, svc, "frank", "pw")

	if held, ok := svc.CheckRole(token, "ops").Value(); !ok || held {
		t.Fatalf("expected (false, true), got (%v, %v)", held, ok)
	}

	svc.AddRoleToUser("frank", "ops")
	if held, ok := svc.CheckRole(token, "ops").Value(); !ok || !held {
		t.Fatalf("expected role after grant, got (%v, %v)", held, ok)
	}

	svc.DeleteRole("ops")
	if held, ok := svc.CheckRole(token, "ops").Value(); !ok || held {
		t.Fatalf("expected role gone after DeleteRole, got (%v, %v)", held, ok)
	}

	// Recreating the role does not restore the old assignment.
	svc.CreateRole("ops")
	if held, _ := svc.CheckRole(token, "ops").Value(); held {
		t.Fatal("recreated role must not be held")
	}

	if got := svc.CheckRole(token, "never-defined"); !got.OK() {
		t.Fatalf("undefined role should be a false success, got %v", got.Status)
	}
	if got := svc.CheckRole("", "ops").Status; got != StatusParamsError {
		t.Fatalf("expected StatusParamsError, got %v", got)
	}
	if got := svc.CheckRole(token, "").Status; got != StatusParamsError {
		t.Fatalf("expected StatusParamsError, got %v", got)
	}
}

func TestInvalidateRejectsToken(t *testing.T) {
	svc, _ := newTestService(t, New())
	svc.CreateUser("gina", "pw")
	token := mustAuthenticate(t, svc, "gina", "pw")

	svc.Invalidate(token)
	svc.Invalidate(token)
	svc.Invalidate("")
	svc.Invalidate("unknown")

	if got := svc.CheckRole(token, "any").Status; got != StatusInvalidToken {
		t.Fatalf("expected StatusInvalidToken, got %v", got)
	}
	if got := svc.GetAllRoles(token).Status; got != StatusInvalidToken {
		t.Fatalf("expected StatusInvalidToken, got %v", got)
	}
	if svc.SessionCount() != 0 {
		t.Fatalf("expected 0 sessions, got %d", svc.SessionCount())
	}
}

func TestTokenExpiryIsLazy(t *testing.T) {
	clock := newFakeClock()
	svc, _ := newTestService(t, New().WithTokenExpiry(60).WithClock(clock.Now))
	svc.CreateUser("hank", "pw")
	svc.CreateRole("r")
	svc.AddRoleToUser("hank", "r")
	token := mustAuthenticate(t, svc, "hank", "pw")

	clock.Advance(60 * time.Second)
	if held, ok := svc.CheckRole(token, "r").Value(); !ok || !held {
		t.Fatalf("token at exactly ttl must be active, got (%v, %v)", held, ok)
	}

	clock.Advance(time.Second)
	if got := svc.CheckRole(token, "r").Status; got != StatusTokenExpired {
		t.Fatalf("expected StatusTokenExpired, got %v", got)
	}
	if got := svc.GetAllRoles(token).Status; got != StatusInvalidToken {
		t.Fatalf("GetAllRoles must report expiry as StatusInvalidToken, got %v", got)
	}
	if svc.SessionCount() != 1 {
		t.Fatalf("expired token must stay until swept, got %d sessions", svc.SessionCount())
	}

	svc.Invalidate(token)
	if got := svc.CheckRole(token, "r").Status; got != StatusInvalidToken {
		t.Fatalf("expected StatusInvalidToken after invalidate, got %v", got)
	}
}

func TestResizeTriggerSweepsExpired(t *testing.T) {
	clock := newFakeClock()
	svc, _ := newTestService(t, New().
		WithTokenExpiry(10).
		WithResizeTrigger(3).
		WithClock(clock.Now).
		WithMetricsEnabled(true))
	svc.CreateUser("ivy", "pw")

	for i := 0; i < 3; i++ {
		mustAuthenticate(t, svc, "ivy", "pw")
	}
	clock.Advance(11 * time.Second)

	fresh := mustAuthenticate(t, svc, "ivy", "pw")
	if svc.SessionCount() != 1 {
		t.Fatalf("expected sweep to leave 1 session, got %d", svc.SessionCount())
	}
	if held := svc.CheckRole(fresh, "x"); !held.OK() {
		t.Fatalf("fresh token must survive sweep, got %v", held.Status)
	}

	snap := svc.MetricsSnapshot()
	if snap.Counters[MetricSweepRun] != 1 {
		t.Fatalf("expected 1 sweep, got %d", snap.Counters[MetricSweepRun])
	}
	if snap.Counters[MetricSweepEvicted] != 3 {
		t.Fatalf("expected 3 evicted, got %d", snap.Counters[MetricSweepEvicted])
	}
}

func TestDeletedUserSessionKeepsEmptyRoles(t *testing.T) {
	svc, _ := newTestService(t, New())
	svc.CreateUser("jack", "pw")
	svc.CreateRole("r")
	svc.AddRoleToUser("jack", "r")
	token := mustAuthenticate(t, svc, "jack", "pw")

	svc.DeleteUser("jack")

	roles, ok := svc.GetAllRoles(token).Value()
	if !ok {
		t.Fatal("session of a deleted user should stay valid by default")
	}
	if roles == nil || len(roles) != 0 {
		t.Fatalf("expected empty non-nil roles, got %#v", roles)
	}

	// Recreating the user does not inherit old assignments.
	svc.CreateUser("jack", "pw")
	if held, _ := svc.CheckRole(token, "r").Value(); held {
		t.Fatal("recreated user must not hold old roles")
	}
}

func TestRevokeOnUserDelete(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.RevokeOnUserDelete = true
	cfg.Metrics.Enabled = true
	svc, _ := newTestService(t, New().WithConfig(cfg))

	svc.CreateUser("kim", "pw")
	svc.CreateUser("lee", "pw")
	a := mustAuthenticate(t, svc, "kim", "pw")
	b := mustAuthenticate(t, svc, "kim", "pw")
	other := mustAuthenticate(t, svc, "lee", "pw")

	svc.DeleteUser("kim")

	for _, token := range []string{a, b} {
		if got := svc.GetAllRoles(token).Status; got != StatusInvalidToken {
			t.Fatalf("expected revoked token, got %v", got)
		}
	}
	if got := svc.GetAllRoles(other); !got.OK() {
		t.Fatalf("other user's token must survive, got %v", got.Status)
	}
	if got := svc.MetricsSnapshot().Counters[MetricSessionsRevoked]; got != 2 {
		t.Fatalf("expected 2 revoked, got %d", got)
	}
}

func TestGetAllRolesSorted(t *testing.T) {
	svc, _ := newTestService(t, New())
	svc.CreateUser("max", "pw")
	for _, r := range []string{"zeta", "alpha", "mid"} {
		svc.CreateRole(r)
		svc.AddRoleToUser("max", r)
	}
	token := mustAuthenticate(t, svc, "max", "pw")

	roles, _ := svc.GetAllRoles(token).Value()
	want := []string{"alpha", "mid", "zeta"}
	if fmt.Sprint(roles) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, roles)
	}

	roles[0] = "mutated"
	again, _ := svc.GetAllRoles(token).Value()
	if again[0] != "alpha" {
		t.Fatal("GetAllRoles must return a copy")
	}

	if got := svc.GetAllRoles("").Status; got != StatusParamsError {
		t.Fatalf("expected StatusParamsError, got %v", got)
	}
}

func TestConcurrentCreateUserSingleWinner(t *testing.T) {
	svc, _ := newTestService(t, New())

	const goroutines = 64
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = map[Status]int{}
	)
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			got := svc.CreateUser("same", fmt.Sprintf("pw-%d", i))
			mu.Lock()
			results[got]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	if results[StatusSuccess] != 1 {
		t.Fatalf("expected exactly 1 success, got %v", results)
	}
	if results[StatusUserExists] != goroutines-1 {
		t.Fatalf("expected %d duplicates, got %v", goroutines-1, results)
	}
}

func TestConcurrentCreateRoleSingleWinner(t *testing.T) {
	svc, _ := newTestService(t, New())

	const goroutines = 64
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			if svc.CreateRole("shared") == StatusSuccess {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if success != 1 {
		t.Fatalf("expected exactly 1 success, got %d", success)
	}
}

func TestConcurrentMixedOperations(t *testing.T) {
	svc, _ := newTestService(t, New().WithResizeTrigger(64))
	svc.CreateRole("shared")

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			name := fmt.Sprintf("user-%d", w)
			for i := 0; i < 50; i++ {
				svc.CreateUser(name, "pw")
				svc.AddRoleToUser(name, "shared")
				token, ok := svc.Authenticate(name, "pw").Value()
				if ok {
					svc.CheckRole(token, "shared")
					svc.GetAllRoles(token)
					svc.Invalidate(token)
				}
				if i%10 == 0 {
					svc.DeleteRole("shared")
					svc.CreateRole("shared")
				}
				svc.DeleteUser(name)
			}
		}(w)
	}
	wg.Wait()

	if svc.UserCount() != 0 {
		t.Fatalf("expected all users deleted, got %d", svc.UserCount())
	}
}

func TestPanicBecomesInternalError(t *testing.T) {
	svc, logs := newTestService(t, New().
		WithMetricsEnabled(true).
		WithTokenSource(func() (string, error) {
			panic("token source exploded")
		}))
	svc.CreateUser("nora", "pw")

	if got := svc.Authenticate("nora", "pw").Status; got != StatusInternalError {
		t.Fatalf("expected StatusInternalError, got %v", got)
	}
	if !bytes.Contains(logs.Bytes(), []byte("token source exploded")) {
		t.Fatalf("expected panic to be logged, got %q", logs.String())
	}
	if got := svc.MetricsSnapshot().Counters[MetricInternalError]; got != 1 {
		t.Fatalf("expected 1 internal error, got %d", got)
	}

	// Locks were released on the way out.
	if got := svc.DeleteUser("nora"); got != StatusSuccess {
		t.Fatalf("expected service usable after panic, got %v", got)
	}
}

func TestTokenSourceErrorBecomesInternalError(t *testing.T) {
	svc, logs := newTestService(t, New().WithTokenSource(func() (string, error) {
		return "", fmt.Errorf("entropy unavailable")
	}))
	svc.CreateUser("olga", "pw")

	if got := svc.Authenticate("olga", "pw").Status; got != StatusInternalError {
		t.Fatalf("expected StatusInternalError, got %v", got)
	}
	if !bytes.Contains(logs.Bytes(), []byte("memauth: Authenticate user=olga")) {
		t.Fatalf("expected prefixed log line, got %q", logs.String())
	}
}

func TestArgon2SchemeAndMigration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Password.Memory = 8192
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1

	legacy, _ := newTestService(t, New().WithConfig(cfg))
	legacy.CreateUser("pat", "pw")
	if got, _ := legacy.NeedsCredentialMigration("pat").Value(); got {
		t.Fatal("legacy digest under legacy scheme must not need migration")
	}

	cfg.Password.Scheme = credential.SchemeArgon2ID
	svc, _ := newTestService(t, New().WithConfig(cfg))
	svc.CreateUser("pat", "pw")

	mustAuthenticate(t, svc, "pat", "pw")
	if got := svc.Authenticate("pat", "nope").Status; got != StatusWrongPassword {
		t.Fatalf("expected StatusWrongPassword, got %v", got)
	}
	if got, _ := svc.NeedsCredentialMigration("pat").Value(); got {
		t.Fatal("argon2id digest under argon2id scheme must not need migration")
	}
	if got := svc.NeedsCredentialMigration("nobody").Status; got != StatusUserNotExist {
		t.Fatalf("expected StatusUserNotExist, got %v", got)
	}
	if got := svc.NeedsCredentialMigration("").Status; got != StatusParamsError {
		t.Fatalf("expected StatusParamsError, got %v", got)
	}
}

func TestStatusErrors(t *testing.T) {
	if StatusSuccess.Err() != nil {
		t.Fatal("success must have nil error")
	}
	if StatusTokenExpired.Err() != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", StatusTokenExpired.Err())
	}
	if Status(42).Err() != ErrInternal {
		t.Fatal("unknown status must map to ErrInternal")
	}
	if got := Status(42).String(); got != "status(42)" {
		t.Fatalf("unexpected String: %q", got)
	}

	codes := map[Status]int{
		StatusSuccess: 0, StatusInternalError: 10000, StatusUserExists: 10001,
		StatusParamsError: 10002, StatusUserNotExist: 10003, StatusRoleExists: 10004,
		StatusRoleNotExist: 10005, StatusWrongPassword: 10006, StatusInvalidToken: 10007,
		StatusTokenExpired: 10008,
	}
	for s, want := range codes {
		if int(s) != want {
			t.Fatalf("%v: expected %d, got %d", s, want, int(s))
		}
	}

	var r Result[string]
	r = fail[string](StatusInvalidToken)
	if v, ok := r.Value(); ok || v != "" {
		t.Fatalf("failed result must not expose a value, got %q", v)
	}
}

type gatedCodec struct {
	credentialCodec
	entered chan struct{}
	release chan struct{}
}

func (g *gatedCodec) Verify(secret, digest string) (bool, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.credentialCodec.Verify(secret, digest)
}

type panickingCodec struct {
	credentialCodec
}

func (panickingCodec) NeedsMigration(string) bool {
	panic("digest table corrupted")
}

func TestAuthenticateVerifiesOutsideAccountLock(t *testing.T) {
	svc, _ := newTestService(t, New())
	svc.CreateUser("quinn", "pw")

	gate := &gatedCodec{
		credentialCodec: svc.codec,
		entered:         make(chan struct{}, 1),
		release:         make(chan struct{}),
	}
	svc.codec = gate

	result := make(chan Status, 1)
	go func() {
		result <- svc.Authenticate("quinn", "pw").Status
	}()
	<-gate.entered

	deleted := make(chan Status, 1)
	go func() {
		deleted <- svc.DeleteUser("quinn")
	}()

	select {
	case got := <-deleted:
		if got != StatusSuccess {
			t.Fatalf("expected delete to succeed, got %v", got)
		}
	case <-time.After(2 * time.Second):
		close(gate.release)
		t.Fatal("DeleteUser blocked while a secret was being verified")
	}

	close(gate.release)
	if got := <-result; got != StatusUserNotExist {
		t.Fatalf("expected StatusUserNotExist for user deleted mid-verify, got %v", got)
	}
	if svc.SessionCount() != 0 {
		t.Fatalf("no session may be issued for a deleted user, got %d", svc.SessionCount())
	}
}

func TestAuthenticateRejectsUserRecreatedMidVerify(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Password.Scheme = credential.SchemeArgon2ID
	cfg.Password.Memory = 8192
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	svc, _ := newTestService(t, New().WithConfig(cfg))
	svc.CreateUser("rita", "old")

	gate := &gatedCodec{
		credentialCodec: svc.codec,
		entered:         make(chan struct{}, 1),
		release:         make(chan struct{}),
	}
	svc.codec = gate

	result := make(chan Status, 1)
	go func() {
		result <- svc.Authenticate("rita", "old").Status
	}()
	<-gate.entered

	svc.DeleteUser("rita")
	svc.CreateUser("rita", "new")
	close(gate.release)

	if got := <-result; got != StatusUserNotExist {
		t.Fatalf("expected stale credentials to be rejected, got %v", got)
	}
}

func TestNeedsCredentialMigrationPanicBecomesInternalError(t *testing.T) {
	svc, logs := newTestService(t, New().WithMetricsEnabled(true))
	svc.CreateUser("sam", "pw")
	svc.codec = panickingCodec{credentialCodec: svc.codec}

	if got := svc.NeedsCredentialMigration("sam").Status; got != StatusInternalError {
		t.Fatalf("expected StatusInternalError, got %v", got)
	}
	if !bytes.Contains(logs.Bytes(), []byte("NeedsCredentialMigration user=sam")) {
		t.Fatalf("expected recovered panic to be logged, got %q", logs.String())
	}
	if got := svc.UserCount(); got != 1 {
		t.Fatalf("expected service usable after panic, got %d users", got)
	}
}

func TestServiceReportsSchemeAndTTL(t *testing.T) {
	svc, _ := newTestService(t, New().WithTokenExpiry(90))

	if got := svc.CredentialScheme(); got != credential.SchemeLegacy {
		t.Fatalf("expected legacy scheme, got %q", got)
	}
	if got := svc.TokenTTL(); got != 90*time.Second {
		t.Fatalf("expected 90s TTL, got %v", got)
	}
}

func TestLongestTokenExpiryKeepsTokensActive(t *testing.T) {
	limit := maxExpireSeconds
	svc, _ := newTestService(t, New().WithTokenExpiry(int(limit)))
	svc.CreateUser("tess", "pw")
	token := mustAuthenticate(t, svc, "tess", "pw")

	if svc.TokenTTL() <= 0 {
		t.Fatalf("expected positive TTL, got %v", svc.TokenTTL())
	}
	if got := svc.CheckRole(token, "any").Status; got != StatusSuccess {
		t.Fatalf("expected fresh token to be active, got %v", got)
	}

	if _, err := New().WithTokenExpiry(int(limit + 1)).Build(); err == nil {
		t.Fatal("expected Build to reject an expiry that overflows a Duration")
	}
}
