package server

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"
)

// Server represents an HTTP server
type Server struct {
	srv     *http.Server
	tlsCert string
	tlsKey  string
	errCh   chan error
}

// New creates a new server instance
func New(handler http.Handler, port, tlsCert, tlsKey string) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		tlsCert: tlsCert,
		tlsKey:  tlsKey,
		errCh:   make(chan error, 1),
	}
}

// Start binds the listener and serves in the background. Bind errors are
// returned; later serve errors are reported on Errors.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln in the background.
func (s *Server) Serve(ln net.Listener) error {
	useTLS := s.tlsCert != "" && s.tlsKey != ""
	if useTLS {
		s.srv.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	go func() {
		var err error
		if useTLS {
			err = s.srv.ServeTLS(ln, s.tlsCert, s.tlsKey)
		} else {
			err = s.srv.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errCh <- err
		}
		close(s.errCh)
	}()
	return nil
}

// Errors delivers a fatal serve error, then closes.
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
