// Package server runs the HTTP listener and sequences startup and shutdown
// around the database connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/blog-service/pkg/logger"
)

// State 进程生命周期状态
type State int

const (
	StateStarting State = iota
	StateConnecting
	StateServing
	StateDraining
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateConnecting:
		return "connecting"
	case StateServing:
		return "serving"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrForcedShutdown is returned when in-flight requests outlive the drain timeout.
var ErrForcedShutdown = errors.New("forced shutdown after drain timeout")

const defaultDrainTimeout = 10 * time.Second

// Database is the part of database.Manager the lifecycle drives.
type Database interface {
	Connect(ctx context.Context) error
	Disconnect() error
}

// HandlerFunc builds the HTTP handler once the database is connected.
type HandlerFunc func() (http.Handler, error)

// Options 服务配置
type Options struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	DrainTimeout      time.Duration
	// Listener, when set, is used instead of listening on Addr.
	Listener net.Listener
}

// Server 管理 starting -> connecting -> serving -> draining -> stopped
type Server struct {
	opts    Options
	db      Database
	handler HandlerFunc

	mu        sync.RWMutex
	state     State
	observers []func(State)
}

func New(opts Options, db Database, handler HandlerFunc) *Server {
	if opts.DrainTimeout <= 0 {
		opts.DrainTimeout = defaultDrainTimeout
	}
	return &Server{opts: opts, db: db, handler: handler, state: StateStarting}
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// OnStateChange registers fn to be called after every transition.
// Must be called before Run.
func (s *Server) OnStateChange(fn func(State)) {
	s.observers = append(s.observers, fn)
}

func (s *Server) setState(st State) {
	s.mu.Lock()
	prev := s.state
	s.state = st
	s.mu.Unlock()
	logger.Info("lifecycle transition", zap.Stringer("from", prev), zap.Stringer("to", st))
	for _, fn := range s.observers {
		fn(st)
	}
}

// Run connects the database, serves until ctx is cancelled, then drains and
// disconnects. A nil return means a clean stop.
func (s *Server) Run(ctx context.Context) error {
	s.setState(StateConnecting)
	if err := s.db.Connect(ctx); err != nil {
		s.closeListener()
		s.setState(StateFailed)
		return fmt.Errorf("connect database: %w", err)
	}

	h, err := s.handler()
	if err != nil {
		return s.abort(fmt.Errorf("build handler: %w", err))
	}
	ln := s.opts.Listener
	if ln == nil {
		ln, err = net.Listen("tcp", s.opts.Addr)
		if err != nil {
			return s.abort(fmt.Errorf("listen %s: %w", s.opts.Addr, err))
		}
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	s.setState(StateServing)
	logger.Info("server listening", zap.String("addr", ln.Addr().String()))

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("serve: %w", err)
		}
	}

	s.setState(StateDraining)
	runErr = errors.Join(runErr, s.drain(srv))

	// 监听器关闭后才断开数据库，无论关闭是否出错
	if err := s.db.Disconnect(); err != nil {
		runErr = errors.Join(runErr, err)
	}
	s.setState(StateStopped)
	return runErr
}

func (s *Server) drain(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.DrainTimeout)
	defer cancel()

	err := srv.Shutdown(ctx)
	if err == nil {
		logger.Info("http server closed")
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Error("forced shutdown after timeout", zap.Duration("drain_timeout", s.opts.DrainTimeout))
		_ = srv.Close()
		return ErrForcedShutdown
	}
	logger.Error("http server close failed", zap.Error(err))
	return fmt.Errorf("close http server: %w", err)
}

// abort handles failures after the database connected but before serving.
func (s *Server) abort(err error) error {
	s.closeListener()
	s.setState(StateFailed)
	if derr := s.db.Disconnect(); derr != nil {
		err = errors.Join(err, derr)
	}
	return err
}

func (s *Server) closeListener() {
	if s.opts.Listener != nil {
		_ = s.opts.Listener.Close()
	}
}
