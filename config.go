package memauth

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MrEthical07/memauth/credential"
	"github.com/magiconair/properties"
)

// Config is the process-wide configuration of a Service. It is read once at
// construction and never changes afterwards.
type Config struct {
	Token    TokenConfig
	Password PasswordConfig
	Session  SessionConfig
	Metrics  MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls session token lifetime and cleanup.
type TokenConfig struct {
	// ExpireSeconds is how long a token stays active after Authenticate.
	ExpireSeconds int
	// ResizeTrigger is the session count above which Authenticate sweeps expired
	// tokens.
	ResizeTrigger int
}

// maxExpireSeconds is the largest ExpireSeconds whose Duration does not overflow.
const maxExpireSeconds = math.MaxInt64 / int64(time.Second)

// TTL returns ExpireSeconds as a Duration.
func (c TokenConfig) TTL() time.Duration {
	return time.Duration(c.ExpireSeconds) * time.Second
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig selects the digest scheme for new users and the Argon2id costs.
type PasswordConfig struct {
	Scheme      credential.Scheme
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func (c PasswordConfig) argon2() credential.Argon2Config {
	return credential.Argon2Config{
		Memory:      c.Memory,
		Time:        c.Time,
		Parallelism: c.Parallelism,
		SaltLength:  c.SaltLength,
		KeyLength:   c.KeyLength,
	}
}

// SessionConfig controls how sessions react to account changes.
type SessionConfig struct {
	// RevokeOnUserDelete makes DeleteUser invalidate every session of the user.
	// When false, sessions outlive their user and see an empty role set.
	RevokeOnUserDelete bool
}

// MetricsConfig toggles the in-process counters and the Authenticate latency
// histogram.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	argon := credential.DefaultArgon2Config()
	return Config{
		Token: TokenConfig{
			ExpireSeconds: 7200,
			ResizeTrigger: 1024,
		},
		Password: PasswordConfig{
			Scheme:      credential.SchemeLegacy,
			Memory:      argon.Memory,
			Time:        argon.Time,
			Parallelism: argon.Parallelism,
			SaltLength:  argon.SaltLength,
			KeyLength:   argon.KeyLength,
		},
		Session: SessionConfig{
			RevokeOnUserDelete: false,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return defaultConfig()
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid setting in c.
func (c *Config) Validate() error {
	if c.Token.ExpireSeconds <= 0 {
		return errors.New("Token ExpireSeconds must be > 0")
	}
	if int64(c.Token.ExpireSeconds) > maxExpireSeconds {
		return fmt.Errorf("Token ExpireSeconds must be <= %d", maxExpireSeconds)
	}
	if c.Token.ResizeTrigger <= 0 {
		return errors.New("Token ResizeTrigger must be > 0")
	}
	if _, err := credential.ParseScheme(string(c.Password.Scheme)); err != nil {
		return fmt.Errorf("Password Scheme %q: %w", c.Password.Scheme, err)
	}
	if err := c.Password.argon2().Validate(); err != nil {
		return fmt.Errorf("Password: %w", err)
	}
	return nil
}

/*
====================================
PROPERTIES SOURCE
====================================
*/

// Property keys understood by ConfigFromProperties.
const (
	PropTokenExpireSeconds        = "token_expire_seconds"
	PropTokenResizeTrigger        = "token_resize_trigger"
	PropPasswordScheme            = "password_scheme"
	PropPasswordArgon2Memory      = "password_argon2_memory_kb"
	PropPasswordArgon2Time        = "password_argon2_time"
	PropPasswordArgon2Parallelism = "password_argon2_parallelism"
	PropSessionRevokeOnUserDelete = "session_revoke_on_user_delete"
	PropMetricsEnabled            = "metrics_enabled"
	PropMetricsLatencyHistograms  = "metrics_latency_histograms"
)

// LoadConfig reads a UTF-8 properties file and returns the resulting validated
// Config.
func LoadConfig(path string) (Config, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return ConfigFromProperties(p)
}

// ConfigFromProperties overlays p onto the defaults. A missing key keeps its
// default; a present but malformed value is an error.
func ConfigFromProperties(p *properties.Properties) (Config, error) {
	cfg := defaultConfig()
	if p == nil {
		return cfg, nil
	}

	var err error
	if cfg.Token.ExpireSeconds, err = propInt(p, PropTokenExpireSeconds, cfg.Token.ExpireSeconds); err != nil {
		return Config{}, err
	}
	if cfg.Token.ResizeTrigger, err = propInt(p, PropTokenResizeTrigger, cfg.Token.ResizeTrigger); err != nil {
		return Config{}, err
	}

	if raw, ok := propValue(p, PropPasswordScheme); ok {
		scheme, err := credential.ParseScheme(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s=%q: %w", PropPasswordScheme, raw, err)
		}
		cfg.Password.Scheme = scheme
	}
	if cfg.Password.Memory, err = propUint32(p, PropPasswordArgon2Memory, cfg.Password.Memory); err != nil {
		return Config{}, err
	}
	if cfg.Password.Time, err = propUint32(p, PropPasswordArgon2Time, cfg.Password.Time); err != nil {
		return Config{}, err
	}
	parallelism, err := propUint32(p, PropPasswordArgon2Parallelism, uint32(cfg.Password.Parallelism))
	if err != nil {
		return Config{}, err
	}
	if parallelism > 255 {
		return Config{}, fmt.Errorf("%s=%d: out of range", PropPasswordArgon2Parallelism, parallelism)
	}
	cfg.Password.Parallelism = uint8(parallelism)

	if cfg.Session.RevokeOnUserDelete, err = propBool(p, PropSessionRevokeOnUserDelete, cfg.Session.RevokeOnUserDelete); err != nil {
		return Config{}, err
	}
	if cfg.Metrics.Enabled, err = propBool(p, PropMetricsEnabled, cfg.Metrics.Enabled); err != nil {
		return Config{}, err
	}
	if cfg.Metrics.EnableLatencyHistograms, err = propBool(p, PropMetricsLatencyHistograms, cfg.Metrics.EnableLatencyHistograms); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func propValue(p *properties.Properties, key string) (string, bool) {
	raw, ok := p.Get(key)
	return strings.TrimSpace(raw), ok
}

func propInt(p *properties.Properties, key string, def int) (int, error) {
	raw, ok := propValue(p, key)
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: not an integer", key, raw)
	}
	return v, nil
}

func propUint32(p *properties.Properties, key string, def uint32) (uint32, error) {
	raw, ok := propValue(p, key)
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: not an unsigned integer", key, raw)
	}
	return uint32(v), nil
}

func propBool(p *properties.Properties, key string, def bool) (bool, error) {
	raw, ok := propValue(p, key)
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s=%q: not a boolean", key, raw)
	}
	return v, nil
}
