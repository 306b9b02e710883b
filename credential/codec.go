package credential

import (
	"crypto/subtle"
	"errors"
)

// Scheme selects the digest format used for newly stored secrets.
type Scheme string

const (
	// SchemeLegacy is the double-MD5 compatibility format.
	SchemeLegacy Scheme = "legacy"
	// SchemeArgon2ID is the salted Argon2id PHC format.
	SchemeArgon2ID Scheme = "argon2id"
)

// ErrUnknownScheme is returned for a Scheme other than the two supported ones.
var ErrUnknownScheme = errors.New("unknown credential scheme")

// ParseScheme maps a configuration value to a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case SchemeLegacy, SchemeArgon2ID:
		return Scheme(s), nil
	default:
		return "", ErrUnknownScheme
	}
}

// Codec digests new secrets with one scheme and verifies stored digests of any
// supported scheme.
//
// Codec is safe for concurrent use.
type Codec struct {
	scheme Scheme
	argon2 *Argon2
}

// NewCodec builds a Codec. argonCfg is used for Argon2id digests and must pass
// [Argon2Config.Validate] even when scheme is legacy, because verification of
// previously stored Argon2id digests still needs a hasher.
func NewCodec(scheme Scheme, argonCfg Argon2Config) (*Codec, error) {
	if _, err := ParseScheme(string(scheme)); err != nil {
		return nil, err
	}
	a, err := NewArgon2(argonCfg)
	if err != nil {
		return nil, err
	}
	return &Codec{scheme: scheme, argon2: a}, nil
}

// Scheme returns the scheme used for new digests.
func (c *Codec) Scheme() Scheme {
	return c.scheme
}

// Digest returns the storable digest of secret.
func (c *Codec) Digest(secret string) (string, error) {
	if c.scheme == SchemeArgon2ID {
		return c.argon2.Digest(secret)
	}
	return LegacyDigest(secret), nil
}

// Verify reports whether secret matches digest. An error means digest is not a
// well-formed value of any supported format.
func (c *Codec) Verify(secret, digest string) (bool, error) {
	if isPHC(digest) {
		return c.argon2.Verify(secret, digest)
	}
	computed := LegacyDigest(secret)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1, nil
}

// NeedsMigration reports whether digest was produced by a different scheme than
// the one currently configured.
func (c *Codec) NeedsMigration(digest string) bool {
	if isPHC(digest) {
		return c.scheme != SchemeArgon2ID
	}
	return c.scheme != SchemeLegacy
}
