// Package server provides lifecycle management for the serve mode:
// signal-driven startup and graceful shutdown of the Telnet acceptor.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service represents a long-running component that can be started and stopped.
type Service interface {
	// Start begins the service. It should block until the service is stopped
	// or an error occurs.
	Start() error
	// Stop gracefully stops the service.
	Stop()
}

// FuncService adapts start/stop functions to the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start invokes StartFn.
func (f *FuncService) Start() error {
	if f.StartFn != nil {
		return f.StartFn()
	}
	return nil
}

// Stop invokes StopFn.
func (f *FuncService) Stop() {
	if f.StopFn != nil {
		f.StopFn()
	}
}

// Runner starts a named service and blocks until a termination signal
// (SIGINT or SIGTERM), a service error, or context cancellation, then stops
// the service gracefully.
type Runner struct {
	logger *zap.Logger
}

// NewRunner creates a Runner.
//
// Precondition: logger must be non-nil.
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run starts svc and blocks until shutdown.
//
// Postcondition: svc is stopped when this method returns; a startup or
// runtime error from svc is returned, a signal-driven shutdown returns nil.
func (r *Runner) Run(ctx context.Context, name string, svc Service) error {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("starting service", zap.String("service", name))
		if err := svc.Start(); err != nil {
			errCh <- fmt.Errorf("service %s: %w", name, err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		r.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		r.logger.Error("service error, shutting down", zap.Error(err))
		runErr = err
	case <-ctx.Done():
		r.logger.Info("context cancelled, shutting down")
	}

	shutdownStart := time.Now()
	svc.Stop()
	r.logger.Info("shutdown complete",
		zap.String("service", name),
		zap.Duration("shutdown_elapsed", time.Since(shutdownStart)),
		zap.Duration("total_uptime", time.Since(start)),
	)
	return runErr
}
