package server

import (
	"context"
	"fmt"
	"time"

	"github.com/steveiliop56/authlink/internal/metrics"
	"github.com/steveiliop56/authlink/internal/utils/tlog"
)

type SweepableStore interface {
	Sweep() int
	Len() int
}

type SweeperConfig struct {
	Interval time.Duration
}

type Sweeper struct {
	config SweeperConfig
	store  SweepableStore
}

func NewSweeper(config SweeperConfig, store SweepableStore) *Sweeper {
	return &Sweeper{
		config: config,
		store:  store,
	}
}

func (sweeper *Sweeper) Name() string {
	return "state-sweeper"
}

func (sweeper *Sweeper) Prepare(ctx context.Context) error {
	if sweeper.config.Interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", sweeper.config.Interval)
	}
	return nil
}

func (sweeper *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(sweeper.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sweeper.sweep()
		}
	}
}

func (sweeper *Sweeper) sweep() {
	removed := sweeper.store.Sweep()
	pending := sweeper.store.Len()

	metrics.PendingStates.Set(float64(pending))

	if removed > 0 {
		tlog.App.Debug().Int("removed", removed).Int("pending", pending).Msg("Swept expired state tokens")
	}
}
