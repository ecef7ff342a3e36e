package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storekeep/storekeep/pkg/svc/orchestrator"
	"github.com/storekeep/storekeep/pkg/utils/notify"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server exposes the orchestrator over HTTP.
type Server struct {
	addr    string
	handler http.Handler
	logOut  io.Writer
}

// NewServer creates a server listening on addr, routing to the given
// orchestrator and logging requests to logOut.
func NewServer(addr string, orch *orchestrator.Orchestrator, logOut io.Writer) *Server {
	server := &Server{
		addr:   addr,
		logOut: logOut,
	}

	server.handler = server.loggingMiddleware(NewRouter(orch, logOut))

	return server
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve on %s: %w", s.addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	err = <-serveErr
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve on %s: %w", s.addr, err)
	}

	return nil
}

// Handler returns the fully wired handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// loggingMiddleware writes one activity line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notify.Activityf(s.logOut, "%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
