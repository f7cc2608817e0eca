package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/steveiliop56/authlink/internal/utils/tlog"
)

type HTTPServerConfig struct {
	Name            string
	Address         string
	Port            int
	ShutdownTimeout time.Duration
}

// HTTPServer serves a handler on its own bind address. The socket is opened in
// Prepare so an occupied port fails startup instead of the first restart.
type HTTPServer struct {
	config   HTTPServerConfig
	handler  http.Handler
	mu       sync.Mutex
	listener net.Listener
	addr     string
}

func NewHTTPServer(config HTTPServerConfig, handler http.Handler) *HTTPServer {
	return &HTTPServer{
		config:  config,
		handler: handler,
	}
}

func (server *HTTPServer) Name() string {
	return server.config.Name
}

func (server *HTTPServer) Prepare(ctx context.Context) error {
	return server.listen()
}

// Addr is the bound address, useful when listening on port 0.
func (server *HTTPServer) Addr() string {
	server.mu.Lock()
	defer server.mu.Unlock()
	return server.addr
}

func (server *HTTPServer) Run(ctx context.Context) error {
	listener, err := server.takeListener()

	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Handler:           server.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	tlog.App.Info().Str("server", server.config.Name).Str("address", listener.Addr().String()).Msg("Starting server")

	errCh := make(chan error, 1)

	go func() {
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("%s server stopped: %w", server.config.Name, err)
	case <-ctx.Done():
	}

	timeout := server.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	tlog.App.Info().Str("server", server.config.Name).Msg("Shutting down server")

	err = httpServer.Shutdown(shutdownCtx)

	if serveErr := <-errCh; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		tlog.App.Warn().Err(serveErr).Str("server", server.config.Name).Msg("Server returned an error while stopping")
	}

	if err != nil {
		return fmt.Errorf("failed to shut down %s server: %w", server.config.Name, err)
	}

	return nil
}

// Release closes a socket bound by Prepare that Run never took over.
func (server *HTTPServer) Release() error {
	server.mu.Lock()
	listener := server.listener
	server.listener = nil
	server.addr = ""
	server.mu.Unlock()

	if listener == nil {
		return nil
	}

	return listener.Close()
}

func (server *HTTPServer) listen() error {
	address := net.JoinHostPort(server.config.Address, fmt.Sprintf("%d", server.config.Port))

	listener, err := net.Listen("tcp", address)

	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	server.listener = listener
	server.addr = listener.Addr().String()

	return nil
}

// takeListener hands the prepared socket to Run, binding a new one after a failed run closed it.
func (server *HTTPServer) takeListener() (net.Listener, error) {
	server.mu.Lock()
	listener := server.listener
	server.listener = nil
	server.mu.Unlock()

	if listener != nil {
		return listener, nil
	}

	if err := server.listen(); err != nil {
		return nil, err
	}

	return server.takeListener()
}
