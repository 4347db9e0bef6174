package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	// DefaultSweepInterval is how often the reaper looks for stale participants.
	DefaultSweepInterval = 15 * time.Second
	// DefaultStaleAfter is how long a participant may go without a heartbeat.
	DefaultStaleAfter = 10 * time.Second
)

// ReaperConfig holds the sweep period and the staleness threshold.
// The two are independent: a participant may stay listed for up to
// Interval+StaleAfter after its last heartbeat.
type ReaperConfig struct {
	Interval   time.Duration
	StaleAfter time.Duration
}

// EvictionResult is the outcome of one eviction attempt within a sweep.
type EvictionResult struct {
	Name    string
	Evicted bool
	Err     error
}

// SweepReport collects per-participant results of a sweep.
type SweepReport struct {
	StartedAt time.Time
	Scanned   int
	Results   []EvictionResult
}

// Evicted returns the names removed during the sweep.
func (r SweepReport) Evicted() []string {
	return lo.FilterMap(r.Results, func(res EvictionResult, _ int) (string, bool) {
		return res.Name, res.Evicted
	})
}

// Failed returns the attempts that ended with an error.
func (r SweepReport) Failed() []EvictionResult {
	return lo.Filter(r.Results, func(res EvictionResult, _ int) bool {
		return res.Err != nil
	})
}

// Reaper periodically evicts participants that stopped sending heartbeats.
type Reaper struct {
	registry *Registry
	cfg      ReaperConfig
	log      *zerolog.Logger
}

// NewReaper creates a reaper over registry. Zero durations fall back to the defaults.
func NewReaper(registry *Registry, cfg ReaperConfig, logger *zerolog.Logger) *Reaper {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSweepInterval
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultStaleAfter
	}
	return &Reaper{registry: registry, cfg: cfg, log: logger}
}

// Run sweeps on every tick until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) error {
	ticker := r.registry.clock.Ticker(r.cfg.Interval)
	defer ticker.Stop()

	r.log.Info().
		Dur("interval", r.cfg.Interval).
		Dur("stale_after", r.cfg.StaleAfter).
		Msg("presence reaper started")

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("presence reaper stopped")
			return nil
		case <-ticker.C:
			report, err := r.Sweep(ctx)
			if err != nil {
				r.log.Error().Err(err).Msg("sweep failed")
				continue
			}
			if len(report.Results) > 0 {
				r.log.Debug().
					Int("scanned", report.Scanned).
					Strs("evicted", report.Evicted()).
					Int("failed", len(report.Failed())).
					Msg("sweep finished")
			}
		}
	}
}

// Sweep evicts every participant whose last heartbeat is at least StaleAfter
// older than the sweep start. Each eviction is attempted independently; only a
// failure to read the registry aborts the sweep.
func (r *Reaper) Sweep(ctx context.Context) (SweepReport, error) {
	start := r.registry.clock.Now()
	report := SweepReport{StartedAt: start}

	participants, err := r.registry.List(ctx)
	if err != nil {
		return report, err
	}
	report.Scanned = len(participants)

	cutoff := start.Add(-r.cfg.StaleAfter)
	for _, p := range participants {
		if start.Sub(p.LastSeen) < r.cfg.StaleAfter {
			continue
		}

		evicted, err := r.registry.Evict(ctx, p.Name, cutoff)
		report.Results = append(report.Results, EvictionResult{Name: p.Name, Evicted: evicted, Err: err})

		switch {
		case err != nil:
			r.log.Warn().Err(err).Str("participant", p.Name).Bool("removed", evicted).Msg("eviction failed")
		case evicted:
			r.log.Info().
				Str("event", EventUserLeft.String()).
				Str("participant", p.Name).
				Time("last_seen", p.LastSeen).
				Msg("participant left the room")
		default:
			r.log.Debug().Str("participant", p.Name).Msg("participant refreshed during sweep")
		}
	}

	return report, nil
}
