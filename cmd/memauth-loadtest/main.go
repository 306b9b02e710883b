package main

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/memauth"
	"github.com/MrEthical07/memauth/metrics/export/prometheus"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	users       int
	roles       int
	concurrency int
	ops         int
	printStats  bool
)

var rootCmd = &cobra.Command{
	Use:   "memauth-loadtest",
	Short: "Drive a memauth Service with concurrent authenticate and role-check traffic",
	Long: `memauth-loadtest seeds users and roles into an in-process memauth Service, then
runs an authenticate phase and a check-role phase with the given concurrency and
prints throughput and latency percentiles for each.`,
	SilenceUsage: true,
	RunE:         run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "memauth properties file; defaults apply when empty")
	rootCmd.Flags().IntVar(&users, "users", 10000, "number of users to seed")
	rootCmd.Flags().IntVar(&roles, "roles", 16, "number of roles to seed")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 256, "number of concurrent workers")
	rootCmd.Flags().IntVar(&ops, "ops", 200000, "operations per phase")
	rootCmd.Flags().BoolVar(&printStats, "metrics", false, "print Prometheus metrics after the run")
}

func run(cmd *cobra.Command, _ []string) error {
	if users <= 0 || roles <= 0 || concurrency <= 0 || ops <= 0 {
		return fmt.Errorf("users, roles, concurrency, and ops must be > 0")
	}

	cfg := memauth.DefaultConfig()
	if configPath != "" {
		loaded, err := memauth.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if printStats {
		cfg.Metrics.Enabled = true
		cfg.Metrics.EnableLatencyHistograms = true
	}

	svc, err := memauth.New().
		WithConfig(cfg).
		WithLogger(log.New(io.Discard, "", 0)).
		Build()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "seeding %d users and %d roles (scheme=%s ttl=%s)...\n", users, roles, svc.CredentialScheme(), svc.TokenTTL())
	startSeed := time.Now()
	if err := seed(svc); err != nil {
		return err
	}
	fmt.Fprintf(out, "seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	var tokMu sync.Mutex
	tokens := make([]string, users)
	authStats := runPhase(ops, concurrency, 7919, func(r *rand.Rand, _ int) bool {
		idx := r.Intn(users)
		token, ok := svc.Authenticate(userName(idx), secretFor(idx)).Value()
		if ok {
			tokMu.Lock()
			tokens[idx] = token
			tokMu.Unlock()
		}
		return ok
	})

	live := make([]string, 0, users)
	for _, t := range tokens {
		if t != "" {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return fmt.Errorf("authenticate phase produced no tokens")
	}

	checkStats := runPhase(ops, concurrency, 6151, func(r *rand.Rand, _ int) bool {
		token := live[r.Intn(len(live))]
		return svc.CheckRole(token, roleName(r.Intn(roles))).OK()
	})

	fmt.Fprintln(out, "---- results ----")
	writeStats(out, "authenticate", authStats)
	writeStats(out, "check-role", checkStats)
	fmt.Fprintf(out, "sessions=%d\n", svc.SessionCount())

	if printStats {
		fmt.Fprintln(out, "---- metrics ----")
		fmt.Fprint(out, prometheus.NewPrometheusExporter(svc).Render())
	}
	return nil
}

func seed(svc *memauth.Service) error {
	for i := 0; i < roles; i++ {
		if s := svc.CreateRole(roleName(i)); !s.OK() {
			return fmt.Errorf("create role %d: %w", i, s.Err())
		}
	}
	for i := 0; i < users; i++ {
		if s := svc.CreateUser(userName(i), secretFor(i)); !s.OK() {
			return fmt.Errorf("create user %d: %w", i, s.Err())
		}
		if s := svc.AddRoleToUser(userName(i), roleName(i%roles)); !s.OK() {
			return fmt.Errorf("grant user %d: %w", i, s.Err())
		}
	}
	return nil
}

func userName(i int) string  { return fmt.Sprintf("user-%d", i) }
func roleName(i int) string  { return fmt.Sprintf("role-%d", i) }
func secretFor(i int) string { return fmt.Sprintf("secret-%d", i*31+7) }

// runPhase spreads ops calls of fn over concurrency workers. fn reports success.
func runPhase(ops, concurrency int, seedPrime int64, fn func(r *rand.Rand, i int) bool) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*seedPrime))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				ok := fn(r, i)
				d := time.Since(t0)
				if !ok {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func writeStats(w io.Writer, name string, s phaseStats) {
	fmt.Fprintf(w, "%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
