package credential

import (
	"crypto/md5"
	"encoding/base64"
)

// LegacyDigest computes the double-MD5 digest with byte reversal between rounds.
//
// The output is deterministic and is compared with plain string equality by
// [Codec.Verify]. Secrets are hashed as raw string bytes (no Unicode normalization).
func LegacyDigest(secret string) string {
	first := md5.Sum([]byte(secret))
	for i, j := 0, len(first)-1; i < j; i, j = i+1, j-1 {
		first[i], first[j] = first[j], first[i]
	}
	second := md5.Sum(first[:])
	return base64.StdEncoding.EncodeToString(second[:])
}
