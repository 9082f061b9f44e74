package audit

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *memSink) Write(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *memSink) all() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func TestPublisherStampsAndDelivers(t *testing.T) {
	sink := &memSink{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	p := NewPublisher(sink, log, WithClock(func() time.Time { return now }))

	p.Emit(Event{
		Action:       ActionPublish,
		ResourceKind: "zaaktype",
		ResourceID:   uuid.New(),
	})

	// cancelled context makes Run drain immediately
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = p.Run(ctx)

	events := sink.all()
	require.Len(t, events, 1)
	require.NotEqual(t, uuid.Nil, events[0].ID, "publisher assigns an ID")
	require.Equal(t, now, events[0].OccurredAt, "publisher stamps the emit time")
	require.Equal(t, ActionPublish, events[0].Action)
}

func TestPublisherDropsWhenBufferFull(t *testing.T) {
	sink := &memSink{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewPublisher(sink, log, WithBufferSize(1))

	p.Emit(Event{Action: ActionCreate, ResourceKind: "zaaktype"})
	p.Emit(Event{Action: ActionUpdate, ResourceKind: "zaaktype"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = p.Run(ctx)

	events := sink.all()
	require.Len(t, events, 1, "second emit is dropped, not queued")
	require.Equal(t, ActionCreate, events[0].Action)
}
