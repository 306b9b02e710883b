// Package memauth is an in-process authentication and authorization service. It keeps
// user accounts, roles, role assignments and session tokens in memory and answers
// credential and role-membership checks for the code that embeds it.
//
// Construct a [Service] with [New] and [Builder.Build]; there is no package-level
// instance. A Service is safe for concurrent use by any number of goroutines.
//
// # Locking
//
// State is split into four tables, each guarded by its own RWMutex: accounts, roles,
// assignments and sessions. Mutating operations that touch several tables acquire the
// locks in that fixed order and hold them together, so concurrent operations cannot
// deadlock and never observe a half-applied change. CheckRole and GetAllRoles resolve
// the token and read the role set in two separate critical sections, so a role
// change that lands in between is visible to that call. Authenticate verifies the
// secret without holding a lock and re-reads the account before issuing the token.
// No lock is held while calling out of the package.
//
// # Results
//
// Every operation reports a [Status]. Operations that produce a value return a
// [Result] whose payload is only meaningful when the status is [StatusSuccess].
// Unexpected failures, including panics, are logged and reported as
// [StatusInternalError]; nothing panics across the package boundary.
//
// # Tokens
//
// Tokens are random UUIDs with no embedded claims. They expire lazily: a token older
// than Token.ExpireSeconds is reported as expired on read but stays in memory until
// [Service.Invalidate] or the next resize-triggered sweep removes it.
//
// # What this package must NOT do
//
//   - Persist state or coordinate with other processes.
//   - Start background goroutines or timers.
//   - Expose its tables for direct mutation.
package memauth
