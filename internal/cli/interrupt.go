package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler turns SIGINT and SIGTERM into context cancellation and
// tells the user what happened.
type InterruptHandler struct {
	writer       io.Writer
	cancelFunc   context.CancelFunc
	stop         chan struct{}
	interrupted  bool
	showProgress bool
	mu           sync.Mutex
	stopOnce     sync.Once
}

// NewInterruptHandler creates a new interrupt handler.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	return &InterruptHandler{
		writer: writer,
		stop:   make(chan struct{}),
	}
}

// HandleInterrupts returns a context that is canceled on the first interrupt.
// Call Stop once the guarded work is over.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, showProgress bool) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	h.cancelFunc = cancel
	h.showProgress = showProgress

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			h.interrupt()
		case <-ctx.Done():
		case <-h.stop:
		}
	}()

	return ctx
}

// Stop releases the signal subscription. It is safe to call more than once.
func (h *InterruptHandler) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

func (h *InterruptHandler) interrupt() {
	h.mu.Lock()
	if !h.interrupted {
		h.interrupted = true
		h.showInterruptMessage()
	}
	h.mu.Unlock()

	if h.cancelFunc != nil {
		h.cancelFunc()
	}
}

// showInterruptMessage displays a friendly interrupt message.
func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n\n" + FormatWarning("Seeding interrupted!")

	if h.showProgress {
		msg += "\n" + FormatInfo("Waiting for running workers to stop. Rows already written are kept.")
		msg += "\n" + FormatInfo("Run 'tracker seed' again to start from a clean slate.")
	}

	msg += "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		// Best effort - we're shutting down anyway
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted returns true if the process was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
