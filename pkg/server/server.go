package server

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/niels/poolhttpd/pkg/config"
	"github.com/niels/poolhttpd/pkg/logging"
	"github.com/niels/poolhttpd/pkg/pool"
	"github.com/niels/poolhttpd/pkg/retry"
	"github.com/niels/poolhttpd/pkg/routes"
	"github.com/niels/poolhttpd/pkg/stats"
)

// Server accepts connections and hands each one to the worker pool as a
// job. The accept loop is the single producer; it never parses requests
// itself.
type Server struct {
	cfg      *config.Config
	table    *routes.Table
	pool     *pool.Pool
	tracker  *stats.Tracker
	listener net.Listener
	closing  atomic.Bool
	started  atomic.Bool
	runDone  chan struct{}
}

// New binds the listening socket. The route table must be fully
// populated before New is called; it is read-only from here on.
// A bind failure is fatal to startup.
func New(cfg *config.Config, table *routes.Table, p *pool.Pool, tracker *stats.Tracker) (*Server, error) {
	listener, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", cfg.Address(), err)
	}

	logging.InfoWith("listening", map[string]interface{}{
		"address": listener.Addr().String(),
		"routes":  table.Len(),
	})

	return &Server{
		cfg:      cfg,
		table:    table,
		pool:     p,
		tracker:  tracker,
		listener: listener,
		runDone:  make(chan struct{}),
	}, nil
}

// Addr returns the bound listener address
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Run accepts connections until Shutdown closes the listener.
// Transient accept failures are logged and retried with backoff; they
// never abort the process.
func (s *Server) Run() {
	s.started.Store(true)
	defer close(s.runDone)

	backoff := retry.New(retry.DefaultOptions())

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closing.Load() {
				return
			}

			s.tracker.AcceptError()
			logging.ErrorWith("failed to accept connection", map[string]interface{}{
				"error": err.Error(),
			})
			time.Sleep(backoff.Next())
			continue
		}

		backoff.Reset()
		s.tracker.ConnectionAccepted()

		s.pool.Submit(func() {
			s.dispatch(conn)
		})
	}
}

// Shutdown stops accepting, drains the pool and prints the serving
// summary. In-flight connections finish; the pool joins every worker
// before Shutdown returns. If Run is active, Shutdown waits for the
// accept loop to stop producing before it closes the job queue.
func (s *Server) Shutdown() {
	s.closing.Store(true)
	if err := s.listener.Close(); err != nil {
		logging.WarnWith("failed to close listener", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// If Run starts after this check it observes the closed listener
	// and exits without submitting jobs.
	if s.started.Load() {
		<-s.runDone
	}
	s.pool.Shutdown()
	s.tracker.Summary()
}
