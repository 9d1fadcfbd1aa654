// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

// Package health serves the process liveness endpoint, separate from the
// controller-runtime manager's own metrics/webhook servers since it has no
// dependency on a kubeconfig to answer truthfully.
package health

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-logr/logr"
)

const shutdownGrace = 5 * time.Second

// Server is a minimal liveness HTTP server: GET /health reports the process
// is alive, GET / is a bare 200 for load balancers that probe the root.
type Server struct {
	Addr string
	Log  logr.Logger

	srv *http.Server
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// within the grace period. It returns nil on a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("healthy"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	addr := s.Addr
	if addr == "" {
		addr = "0.0.0.0:8080"
	}

	s.srv = &http.Server{
		Addr:    addr,
		Handler: accessLog(s.Log, mux),
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log.Info("starting health server", "addr", addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// accessLog logs every request except /health, which would otherwise
// dominate the log with probe traffic.
func accessLog(log logr.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"remote", host,
			"duration", time.Since(start).String(),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
