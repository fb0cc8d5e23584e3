package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"golang.org/x/net/netutil"
)

var ErrServerClosed = errors.New("server closed")

// Backoff bounds after a failed Accept, e.g. when out of file descriptors.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

func nextAcceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptDelay
	}
	if next := prev * 2; next < maxAcceptDelay {
		return next
	}
	return maxAcceptDelay
}

// Config controls a file server. The zero value of each optional field
// keeps the unrestricted behaviour.
type Config struct {
	Addr string
	// Root is the directory served; "." is the working directory.
	Root string
	// MaxConns caps concurrently open connections. 0 means unbounded.
	MaxConns int
	// ReadTimeout bounds the single request read. 0 means wait forever.
	ReadTimeout time.Duration
	// AllowEscape disables the check that keeps resolved paths inside Root.
	AllowEscape bool
	Logger      Logger
}

func DefaultConfig() Config {
	return Config{
		Addr:   "127.0.0.1:8080",
		Root:   ".",
		Logger: NewDefaultLogger(),
	}
}

type Server struct {
	Logger Logger

	cfg     Config
	metrics *Metrics

	mu       sync.Mutex
	listener net.Listener
	closed   bool
	conns    sync.WaitGroup
}

func New(cfg Config) *Server {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Logger == nil {
		cfg.Logger = NewDefaultLogger()
	}

	return &Server{
		Logger:  cfg.Logger,
		cfg:     cfg,
		metrics: NewMetrics(),
	}
}

// Serve accepts connections on ln until Close, handling each one on its
// own goroutine. It always returns a non-nil error.
func (s *Server) Serve(ln net.Listener) error {
	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				return ErrServerClosed
			}
			delay = nextAcceptDelay(delay)
			s.Logger.Error("accept failed", Field{"error", err}, Field{"retry_in", delay})
			time.Sleep(delay)
			continue
		}
		delay = 0

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return ErrServerClosed
		}
		s.conns.Add(1)
		s.mu.Unlock()

		go s.serveConn(conn)
	}
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Addr returns the listening address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close stops accepting. Connections already accepted run to completion.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// Shutdown closes the listener and waits for in-flight connections or ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Close()

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) Stats() MetricsSnapshot {
	return s.metrics.Snapshot()
}
