// Package signal provides graceful shutdown handling for planwise commands.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler cancels a wrapped context when SIGINT or SIGTERM arrives, so an
// in-flight provider exchange or history write stops at the next context
// check instead of being killed mid-write.
type Handler struct {
	ctx         context.Context //nolint:containedctx // handler owns the context lifecycle
	cancel      context.CancelFunc
	sigChan     chan os.Signal
	interrupted bool
	mu          sync.Mutex
	stopOnce    sync.Once
}

// NewHandler wraps parent and starts listening for interrupt signals.
// Callers must Stop the handler when done.
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:    ctx,
		cancel: cancel,
		// Buffered so signal.Notify never drops a signal while the
		// goroutine is between receives.
		sigChan: make(chan os.Signal, 1),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the cancellable context. Pass it to every operation that
// should stop on Ctrl+C.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted reports whether a signal was received. The CLI uses this to
// exit with the conventional interrupted status instead of a plain failure.
func (h *Handler) Interrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}

// Stop detaches from signal delivery and cancels the context.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		h.cancel()
	})
}

func (h *Handler) listen() {
	select {
	case <-h.ctx.Done():
	case <-h.sigChan:
		h.mu.Lock()
		h.interrupted = true
		h.mu.Unlock()
		h.cancel()
	}
}
