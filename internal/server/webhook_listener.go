package server

import (
	"context"

	"github.com/cenkalti/backoff/v5"
)

type WebhookRegistrar interface {
	RegisterWebhook() error
}

// WebhookListener registers the push endpoint with the chat platform and serves it
// on a listener separate from the callback server.
type WebhookListener struct {
	registrar WebhookRegistrar
	server    *HTTPServer
}

func NewWebhookListener(registrar WebhookRegistrar, server *HTTPServer) *WebhookListener {
	return &WebhookListener{
		registrar: registrar,
		server:    server,
	}
}

func (listener *WebhookListener) Name() string {
	return "chat-webhook"
}

func (listener *WebhookListener) Prepare(ctx context.Context) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, listener.registrar.RegisterWebhook()
	}, backoff.WithBackOff(registrationBackOff()), backoff.WithMaxTries(5))

	if err != nil {
		return err
	}

	return listener.server.Prepare(ctx)
}

func (listener *WebhookListener) Run(ctx context.Context) error {
	return listener.server.Run(ctx)
}

// Release frees the bound socket. The webhook stays registered until the next start replaces or deletes it.
func (listener *WebhookListener) Release() error {
	return listener.server.Release()
}
