// Package notify delivers email notifications for accepted certificate
// submissions. Delivery is decoupled from the request path: the registry
// enqueues records and a background worker sends the mail, so a slow or
// broken mail relay can never stall or fail a submission.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vividmedi/medicert/internal/registry"
)

// Sender delivers the notifications for a single record.
type Sender interface {
	Send(ctx context.Context, rec registry.Record) error
}

// sendTimeout bounds one delivery attempt.
const sendTimeout = 30 * time.Second

// queueSize is the dispatcher buffer. When it is full, records are dropped
// with a warning rather than blocking the submit path.
const queueSize = 64

// Dispatcher runs a background worker that drains enqueued records into a
// Sender. It implements registry.Notifier.
type Dispatcher struct {
	sender Sender
	log    *slog.Logger

	queue chan registry.Record
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewDispatcher creates a dispatcher and starts its worker.
func NewDispatcher(sender Sender, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	d := &Dispatcher{
		sender: sender,
		log:    log,
		queue:  make(chan registry.Record, queueSize),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Enqueue hands a record to the worker. Never blocks: if the queue is full
// the notification is dropped and logged.
func (d *Dispatcher) Enqueue(rec registry.Record) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.log.Warn("notification dropped, dispatcher closed", "code", rec.Code)
		return
	}

	select {
	case d.queue <- rec:
	default:
		d.log.Warn("notification dropped, queue full", "code", rec.Code)
	}
}

// Close stops accepting records and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for rec := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.sender.Send(ctx, rec); err != nil {
			// Failures are internal: logged, never surfaced to the
			// submitter, never rolled back.
			d.log.Error("notification delivery failed", "code", rec.Code, "error", err)
		} else {
			d.log.Info("notification sent", "code", rec.Code)
		}
		cancel()
	}
}
