// Package credential turns plaintext secrets into storable digests and verifies
// secrets against them.
//
// # Digest formats
//
// Two formats coexist:
//
//	legacy:   base64(MD5(reverse(MD5(utf8(secret)))))
//	argon2id: $argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// The legacy format is a compatibility contract with digests produced by earlier
// deployments and must be reproduced bit-for-bit. It is not a secure password hash.
// New deployments should select [SchemeArgon2ID]; [Codec.Verify] accepts both formats
// so stored legacy digests remain verifiable during migration.
//
// # What this package must NOT do
//
//   - Store or retrieve digests. Callers own persistence.
//   - Enforce password policy.
//   - Import memauth or session.
package credential
