package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"
)

const Path = "/telemetry"

// Server exposes a Hub over HTTP
type Server struct {
	Hub  *Hub
	http *http.Server
	ln   net.Listener
}

// Listen binds addr and prepares the telemetry endpoint. Call Serve to
// start accepting connections.
func Listen(addr string, hub *Hub) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("telemetry listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(Path, hub)

	return &Server{
		Hub: hub,
		ln:  ln,
		http: &http.Server{
			Handler:     mux,
			ReadTimeout: 15 * time.Second,
			IdleTimeout: 60 * time.Second,
		},
	}, nil
}

// Addr is the bound listen address
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve runs the hub and the HTTP server until ctx is cancelled
func (s *Server) Serve(ctx context.Context) error {
	go s.Hub.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		log.Printf("Telemetry: ws://%s%s", s.ln.Addr(), Path)
		errc <- s.http.Serve(s.ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("telemetry shutdown: %w", err)
	}
	return nil
}
