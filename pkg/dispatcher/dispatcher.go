package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"orderflow/pkg/logger"
)

var ErrClosed = errors.New("dispatcher is closed")

// HandleFunc delivers one item. Its error is logged and discarded.
type HandleFunc[T any] func(ctx context.Context, item T) error

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

// Observer receives per-item outcomes, e.g. for metrics.
type Observer interface {
	Enqueued()
	Delivered(duration time.Duration)
	Failed(duration time.Duration)
}

type Config struct {
	QueueSize     int
	Workers       int
	HandleTimeout time.Duration
}

// Dispatcher is a fire-and-forget hand-off to a pool of background workers.
//
// Dispatch never blocks the caller and never drops an accepted item: when the
// buffer is full the item is parked in an overflow goroutine until a worker frees
// a slot. Items are handled with a context detached from the caller, so a
// finished HTTP request does not cancel its notifications.
type Dispatcher[T any] struct {
	log      handlerLogger
	handle   HandleFunc[T]
	observer Observer
	cfg      Config

	queue chan T

	// mu guards closed; senders hold it for reading while they push into queue.
	mu     sync.RWMutex
	closed bool

	pending sync.WaitGroup
	workers sync.WaitGroup
	start   sync.Once
}

func New[T any](log handlerLogger, handle HandleFunc[T], observer Observer, cfg Config) *Dispatcher[T] {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	return &Dispatcher[T]{
		log:      log,
		handle:   handle,
		observer: observer,
		cfg:      cfg,
		queue:    make(chan T, cfg.QueueSize),
	}
}

// Start launches the workers. Calling it more than once has no effect.
func (d *Dispatcher[T]) Start() {
	d.start.Do(func() {
		for i := 0; i < d.cfg.Workers; i++ {
			d.workers.Add(1)
			go d.work(i)
		}
		d.log.With(
			logger.NewField("workers", d.cfg.Workers),
			logger.NewField("queue_size", d.cfg.QueueSize),
		).Info("dispatcher started")
	})
}

// Dispatch accepts an item for asynchronous delivery.
func (d *Dispatcher[T]) Dispatch(item T) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	if d.observer != nil {
		d.observer.Enqueued()
	}

	select {
	case d.queue <- item:
	default:
		// Close waits for pending before closing the queue.
		d.pending.Add(1)
		go func() {
			defer d.pending.Done()
			d.queue <- item
		}()
	}
	return nil
}

// Close stops accepting items and waits until the queue is drained or ctx expires.
func (d *Dispatcher[T]) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	// Workers may not be running yet if Start was never called.
	d.Start()

	done := make(chan struct{})
	go func() {
		d.pending.Wait()
		close(d.queue)
		d.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.log.Info("dispatcher drained")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain dispatcher: %w", ctx.Err())
	}
}

func (d *Dispatcher[T]) work(id int) {
	defer d.workers.Done()

	for item := range d.queue {
		d.handleSafely(id, item)
	}
}

func (d *Dispatcher[T]) handleSafely(id int, item T) {
	start := time.Now()

	ctx := context.Background()
	if d.cfg.HandleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.HandleTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("dispatcher handler panic",
				logger.NewField("worker", id),
				logger.NewField("recover", r),
				logger.NewField("stack", string(debug.Stack())),
			)
			if d.observer != nil {
				d.observer.Failed(time.Since(start))
			}
		}
	}()

	err := d.handle(ctx, item)
	if err != nil {
		d.log.With(
			logger.NewField("worker", id),
			logger.NewField("error", err),
		).Warn("dispatch failed")
		if d.observer != nil {
			d.observer.Failed(time.Since(start))
		}
		return
	}

	if d.observer != nil {
		d.observer.Delivered(time.Since(start))
	}
}
