// Package audit records who changed which type definition and when. Events
// flow through a buffered channel to a background worker, which hands them
// to a sink; request handling never blocks on the audit trail.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Action is the audited operation.
type Action string

const (
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionPublish       Action = "publish"
	ActionNotifyFailure Action = "notification_failed"
)

// Event is one audit trail entry.
type Event struct {
	ID           uuid.UUID `json:"id"`
	OccurredAt   time.Time `json:"occurredAt"`
	Action       Action    `json:"action"`
	ResourceKind string    `json:"resourceKind"`
	ResourceID   uuid.UUID `json:"resourceId"`
	CatalogusID  uuid.UUID `json:"catalogusId"`
	RequestID    string    `json:"requestId,omitempty"`
	Detail       string    `json:"detail,omitempty"`
}

// Sink receives events from the worker.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

const defaultBufferSize = 512

// Publisher queues audit events for asynchronous writing.
type Publisher struct {
	sink   Sink
	log    *slog.Logger
	events chan Event
	now    func() time.Time
	newID  func() uuid.UUID
}

type Option func(*Publisher)

func WithBufferSize(n int) Option {
	return func(p *Publisher) { p.events = make(chan Event, n) }
}

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

func NewPublisher(sink Sink, log *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{
		sink:   sink,
		log:    log,
		events: make(chan Event, defaultBufferSize),
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit queues an event, stamping ID and timestamp if unset. Events are
// dropped with a log line when the buffer is full; the audit trail must
// never stall a request.
func (p *Publisher) Emit(ev Event) {
	if ev.ID == uuid.Nil {
		ev.ID = p.newID()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = p.now()
	}
	select {
	case p.events <- ev:
	default:
		p.log.Warn("audit buffer full, dropping event",
			"action", ev.Action, "resourceKind", ev.ResourceKind, "resourceId", ev.ResourceID)
	}
}

// Run writes queued events until ctx is cancelled, then drains the buffer.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.drain()
			return ctx.Err()
		case ev := <-p.events:
			p.write(ctx, ev)
		}
	}
}

func (p *Publisher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case ev := <-p.events:
			p.write(ctx, ev)
		default:
			return
		}
	}
}

func (p *Publisher) write(ctx context.Context, ev Event) {
	if err := p.sink.Write(ctx, ev); err != nil {
		p.log.Error("audit write failed",
			"action", ev.Action, "resourceKind", ev.ResourceKind, "resourceId", ev.ResourceID, "error", err)
	}
}
