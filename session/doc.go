// Package session owns the token to session map and its lifecycle.
//
// # Lifecycle
//
// A token is Active from [Store.Issue] until its age exceeds the configured TTL, then
// Expired. Expiry is detected lazily by [Store.Resolve]; reads never remove entries.
// A token becomes Absent through [Store.Invalidate] or a sweep. There is no way back to
// Active: authenticating again mints a new token.
//
// # Sweeps
//
// There is no background reaper. After each insert, if the map holds more than the
// resize trigger, Issue scans the whole map under the write lock and removes every
// expired entry. Issuance is serialized for the duration of that scan.
//
// # What this package must NOT do
//
//   - Import memauth or credential.
//   - Interpret tokens. They are random identifiers with no embedded claims.
//   - Start goroutines or timers.
package session
