package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/steveiliop56/authlink/internal/metrics"
	"github.com/steveiliop56/authlink/internal/utils/tlog"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"
)

// Task is a long-running listener. Prepare runs once at startup, Run may be called
// again after it failed.
type Task interface {
	Name() string
	Prepare(ctx context.Context) error
	Run(ctx context.Context) error
}

// Releaser is implemented by tasks that hold resources between Prepare and Run,
// such as a bound socket. Release is only called when startup is aborted.
type Releaser interface {
	Release() error
}

type CoordinatorConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

type Coordinator struct {
	config CoordinatorConfig
	tasks  []Task
}

func NewCoordinator(config CoordinatorConfig, tasks ...Task) *Coordinator {
	return &Coordinator{
		config: config,
		tasks:  tasks,
	}
}

func (coordinator *Coordinator) Init() error {
	if len(coordinator.tasks) == 0 {
		return errors.New("coordinator has no tasks")
	}

	if coordinator.config.InitialInterval <= 0 {
		coordinator.config.InitialInterval = 500 * time.Millisecond
	}

	if coordinator.config.MaxInterval <= 0 {
		coordinator.config.MaxInterval = 30 * time.Second
	}

	return nil
}

// Run prepares every task in order and then runs them side by side until ctx is done.
// A failing task is restarted on its own, the others are not interrupted.
func (coordinator *Coordinator) Run(ctx context.Context) error {
	for i, task := range coordinator.tasks {
		tlog.App.Debug().Str("task", task.Name()).Msg("Preparing task")

		if err := task.Prepare(ctx); err != nil {
			release(coordinator.tasks[:i])
			return fmt.Errorf("failed to prepare %s: %w", task.Name(), err)
		}
	}

	var group errgroup.Group

	for _, task := range coordinator.tasks {
		group.Go(func() error {
			coordinator.supervise(ctx, task)
			return nil
		})
	}

	return group.Wait()
}

func (coordinator *Coordinator) supervise(ctx context.Context, task Task) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = coordinator.config.InitialInterval
	exp.MaxInterval = coordinator.config.MaxInterval
	exp.RandomizationFactor = 0.1
	exp.Reset()

	for {
		tlog.App.Info().Str("task", task.Name()).Msg("Starting task")

		started := time.Now()
		err := runTask(ctx, task)

		if ctx.Err() != nil {
			if err != nil {
				tlog.App.Warn().Err(err).Str("task", task.Name()).Msg("Task stopped with error during shutdown")
			} else {
				tlog.App.Info().Str("task", task.Name()).Msg("Task stopped")
			}
			return
		}

		if err == nil {
			tlog.App.Info().Str("task", task.Name()).Msg("Task finished")
			return
		}

		// A run that lasted longer than the cap was healthy, start counting again
		if time.Since(started) > coordinator.config.MaxInterval {
			exp.Reset()
		}

		wait := exp.NextBackOff()

		metrics.TaskRestarts.WithLabelValues(task.Name()).Inc()
		tlog.App.Error().Err(err).Str("task", task.Name()).Dur("retry_in", wait).Msg("Task failed, restarting")

		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			tlog.App.Info().Str("task", task.Name()).Msg("Task stopped")
			return
		case <-timer.C:
		}
	}
}

// release undoes Prepare in reverse order.
func release(prepared []Task) {
	for i := len(prepared) - 1; i >= 0; i-- {
		releaser, ok := prepared[i].(Releaser)

		if !ok {
			continue
		}

		if err := releaser.Release(); err != nil {
			tlog.App.Warn().Err(err).Str("task", prepared[i].Name()).Msg("Failed to release task")
		}
	}
}

func runTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", task.Name(), r)
		}
	}()

	return task.Run(ctx)
}
