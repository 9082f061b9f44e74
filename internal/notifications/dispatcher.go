package notifications

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"opencatalogi/internal/platform/metrics"
	"opencatalogi/pkg/platform/audit"
)

const (
	defaultQueueSize   = 256
	defaultSendTimeout = 15 * time.Second
)

var tracer = otel.Tracer("opencatalogi/notifications")

// FailureSink receives payloads that could not be delivered. Satisfied by
// the ledger store.
type FailureSink interface {
	Append(ctx context.Context, fn *FailedNotification) error
}

// Dispatcher decouples request handling from notification delivery: events
// are queued on a buffered channel and a worker sends them one at a time.
// A full queue or a failed send lands the exact payload in the failure sink;
// delivery is best-effort, the ledger is the safety net.
type Dispatcher struct {
	sender  Sender
	sink    FailureSink
	auditor AuditEmitter
	log     *slog.Logger

	events      chan Event
	sendTimeout time.Duration
	now         func() time.Time
	newID       func() uuid.UUID
}

// AuditEmitter records delivery failures in the audit trail. Optional.
type AuditEmitter interface {
	Emit(ev audit.Event)
}

type DispatcherOption func(*Dispatcher)

func WithQueueSize(n int) DispatcherOption {
	return func(d *Dispatcher) { d.events = make(chan Event, n) }
}

func WithSendTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.sendTimeout = timeout }
}

func WithDispatcherClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.now = now }
}

// WithFailureAuditor makes undeliverable notifications show up in the audit
// trail alongside the lifecycle actions that caused them.
func WithFailureAuditor(auditor AuditEmitter) DispatcherOption {
	return func(d *Dispatcher) { d.auditor = auditor }
}

func NewDispatcher(sender Sender, sink FailureSink, log *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sender:      sender,
		sink:        sink,
		log:         log,
		events:      make(chan Event, defaultQueueSize),
		sendTimeout: defaultSendTimeout,
		now:         time.Now,
		newID:       uuid.New,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch queues an event for delivery. It never blocks the caller: when
// the queue is full the event goes straight to the failure sink.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	select {
	case d.events <- ev:
		metrics.NotificationQueueDepth.Set(float64(len(d.events)))
	default:
		d.log.Warn("notification queue full, ledgering event",
			"kanaal", ev.Kanaal, "resource", ev.Resource, "actie", ev.Actie)
		d.ledger(ctx, ev)
	}
}

// Run consumes the queue until ctx is cancelled, then drains what is left
// so queued events are not lost on shutdown.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return ctx.Err()
		case ev := <-d.events:
			metrics.NotificationQueueDepth.Set(float64(len(d.events)))
			d.deliver(ctx, ev)
		}
	}
}

func (d *Dispatcher) drain() {
	// Detached context: the run context is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()
	for {
		select {
		case ev := <-d.events:
			d.deliver(ctx, ev)
		default:
			metrics.NotificationQueueDepth.Set(0)
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev Event) {
	ctx, span := tracer.Start(ctx, "notifications.deliver")
	span.SetAttributes(
		attribute.String("kanaal", string(ev.Kanaal)),
		attribute.String("actie", string(ev.Actie)),
	)
	defer span.End()

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, ev); err != nil {
		span.RecordError(err)
		d.log.Error("notification delivery failed",
			"kanaal", ev.Kanaal, "resource", ev.Resource, "resourceUrl", ev.ResourceURL, "error", err)
		d.ledger(ctx, ev)
		return
	}
	metrics.NotificationsDeliveredTotal.WithLabelValues(string(ev.Kanaal)).Inc()
}

func (d *Dispatcher) ledger(ctx context.Context, ev Event) {
	metrics.NotificationsFailedTotal.WithLabelValues(string(ev.Kanaal)).Inc()
	entry := &FailedNotification{
		ID:       d.newID(),
		LoggedAt: d.now(),
		Kanaal:   ev.Kanaal,
		Message:  ev,
	}
	if err := d.sink.Append(ctx, entry); err != nil {
		// Nothing left to fall back to; the event is logged and gone.
		d.log.Error("failed to ledger undeliverable notification",
			"kanaal", ev.Kanaal, "resourceUrl", ev.ResourceURL, "error", err)
	}
	if d.auditor != nil {
		d.auditor.Emit(audit.Event{
			Action:       audit.ActionNotifyFailure,
			ResourceKind: "failed_notification",
			ResourceID:   entry.ID,
			Detail:       ev.ResourceURL,
		})
	}
}
