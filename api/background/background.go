// Package background runs fire-and-forget tasks outside the request that
// scheduled them and waits for them on shutdown.
package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrShuttingDown = errors.New("background: shutting down")

type Background struct {
	log     logrus.FieldLogger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a runner whose tasks each get at most timeout to finish.
func New(log logrus.FieldLogger, timeout time.Duration) *Background {
	ctx, cancel := context.WithCancel(context.Background())
	return &Background{
		log:     log,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Go starts fn in its own goroutine. A returned error or a panic is logged
// together with fields and passed to onErr when it is not nil. Go never
// blocks the caller.
func (b *Background) Go(name string, fields logrus.Fields, fn func(ctx context.Context) error, onErr func(error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrShuttingDown
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		ctx, cancel := context.WithTimeout(b.ctx, b.timeout)
		defer cancel()

		if err := run(ctx, fn); err != nil {
			b.log.WithFields(fields).WithField("task", name).WithError(err).Error("background task failed")
			if onErr != nil {
				onErr(err)
			}
		}
	}()
	return nil
}

func run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn(ctx)
}

// Shutdown refuses new tasks and waits for the running ones. When ctx ends
// first the running tasks are cancelled and ctx's error is returned.
func (b *Background) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.cancel()
		return nil
	case <-ctx.Done():
		b.cancel()
		return ctx.Err()
	}
}
