package store

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultSweepInterval is how often the janitor prunes expired state.
const DefaultSweepInterval = time.Minute

// Sweepable is a store that can drop state older than maxAge.
type Sweepable interface {
	Sweep(maxAge time.Duration)
}

// Janitor periodically sweeps in-memory stores so idle keys do not
// accumulate for the life of the process.
type Janitor struct {
	targets  []Sweepable
	interval time.Duration
	maxAge   time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewJanitor creates a janitor sweeping the given stores. A non-positive
// interval falls back to DefaultSweepInterval.
func NewJanitor(interval, maxAge time.Duration, logger *zap.Logger, targets ...Sweepable) *Janitor {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &Janitor{
		targets:  targets,
		interval: interval,
		maxAge:   maxAge,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins sweeping in the background.
func (j *Janitor) Start(ctx context.Context) error {
	ctx, j.cancel = context.WithCancel(ctx)

	go j.run(ctx)

	return nil
}

func (j *Janitor) run(ctx context.Context) {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, target := range j.targets {
				target.Sweep(j.maxAge)
			}

			j.logger.Debug("swept in-memory stores", zap.Int("stores", len(j.targets)))
		}
	}
}

// Shutdown stops the janitor.
func (j *Janitor) Shutdown() error {
	if j.cancel != nil {
		j.cancel()
	}

	<-j.done

	return nil
}
