package memauth

import (
	"log"
	"time"

	"github.com/MrEthical07/memauth/credential"
	"github.com/MrEthical07/memauth/internal/registry"
	"github.com/MrEthical07/memauth/session"
)

// Builder assembles a Service. Configure it once, call Build once, and discard it.
type Builder struct {
	config      Config
	logger      *log.Logger
	now         func() time.Time
	tokenSource func() (string, error)

	built bool
}

// New returns a Builder holding the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithTokenExpiry sets Token.ExpireSeconds.
func (b *Builder) WithTokenExpiry(seconds int) *Builder {
	b.config.Token.ExpireSeconds = seconds
	return b
}

// WithResizeTrigger sets Token.ResizeTrigger.
func (b *Builder) WithResizeTrigger(n int) *Builder {
	b.config.Token.ResizeTrigger = n
	return b
}

// WithMetricsEnabled toggles counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the Authenticate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithLogger sets the destination for internal failure logs. The default is
// log.Default().
func (b *Builder) WithLogger(l *log.Logger) *Builder {
	b.logger = l
	return b
}

// WithClock replaces time.Now for token timestamps and expiry checks.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithTokenSource replaces the random UUID token generator.
func (b *Builder) WithTokenSource(next func() (string, error)) *Builder {
	b.tokenSource = next
	return b
}

// Build validates the configuration and returns a ready Service.
func (b *Builder) Build() (*Service, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	codec, err := credential.NewCodec(cfg.Password.Scheme, cfg.Password.argon2())
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = log.Default()
	}

	svc := &Service{
		config:      cfg,
		codec:       codec,
		logger:      logger,
		metrics:     NewMetrics(cfg.Metrics),
		accounts:    registry.NewAccounts(),
		roles:       registry.NewRoles(),
		assignments: registry.NewAssignments(),
	}

	opts := []session.Option{
		session.WithClock(b.now),
		session.WithTokenSource(b.tokenSource),
		session.WithSweepObserver(svc.observeSweep),
	}
	svc.sessions = session.NewStore(cfg.Token.TTL(), cfg.Token.ResizeTrigger, opts...)

	b.built = true

	return svc, nil
}
