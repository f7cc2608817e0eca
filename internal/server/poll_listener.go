package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/steveiliop56/authlink/internal/utils/tlog"

	"github.com/cenkalti/backoff/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type UpdateSource interface {
	DeleteWebhook() error
	Updates() tgbotapi.UpdatesChannel
	StopPolling()
}

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

// PollListener pulls chat updates with long polling and dispatches each one concurrently.
type PollListener struct {
	source  UpdateSource
	handler UpdateHandler
}

func NewPollListener(source UpdateSource, handler UpdateHandler) *PollListener {
	return &PollListener{
		source:  source,
		handler: handler,
	}
}

func (listener *PollListener) Name() string {
	return "chat-poll"
}

// Prepare removes any webhook left from a push mode run, polling is refused while one is set.
func (listener *PollListener) Prepare(ctx context.Context) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, listener.source.DeleteWebhook()
	}, backoff.WithBackOff(registrationBackOff()), backoff.WithMaxTries(5))

	return err
}

func (listener *PollListener) Run(ctx context.Context) error {
	updates := listener.source.Updates()

	var wg sync.WaitGroup
	defer wg.Wait()

	// Handlers finish their reply even when shutdown starts mid update
	handlerCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			listener.source.StopPolling()
			return nil
		case update, ok := <-updates:
			if !ok {
				return errors.New("update channel closed unexpectedly")
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				dispatch(handlerCtx, listener.handler, update)
			}()
		}
	}
}

func dispatch(ctx context.Context, handler UpdateHandler, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			tlog.Bot.Error().Int("update_id", update.UpdateID).Str("panic", fmt.Sprint(r)).Msg("Update handler panicked")
		}
	}()

	if err := handler.HandleUpdate(ctx, update); err != nil {
		tlog.Bot.Error().Err(err).Int("update_id", update.UpdateID).Msg("Failed to handle update")
	}
}

func registrationBackOff() *backoff.ExponentialBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 500 * time.Millisecond
	exp.RandomizationFactor = 0.1
	exp.Multiplier = 1.5
	exp.Reset()
	return exp
}
