package notifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"opencatalogi/pkg/platform/audit"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []Event
	err  error
}

func (f *fakeSender) Send(_ context.Context, ev Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, ev)
	return nil
}

type fakeSink struct {
	mu      sync.Mutex
	entries []*FailedNotification
}

func (f *fakeSink) Append(_ context.Context, fn *FailedNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, fn)
	return nil
}

func (f *fakeSink) all() []*FailedNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FailedNotification(nil), f.entries...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runDispatcher(t *testing.T, d *Dispatcher) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = d.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDispatcherDeliversQueuedEvents(t *testing.T) {
	sender := &fakeSender{}
	sink := &fakeSink{}
	d := NewDispatcher(sender, sink, discardLogger())
	runDispatcher(t, d)

	ev := testEvent()
	d.Dispatch(context.Background(), ev)

	waitFor(t, func() bool {
		sender.mu.Lock()
		defer sender.mu.Unlock()
		return len(sender.sent) == 1
	})
	require.Empty(t, sink.all(), "successful delivery must not ledger")
}

func TestDispatcherLedgersFailedDelivery(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	sink := &fakeSink{}
	loggedAt := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	d := NewDispatcher(sender, sink, discardLogger(), WithDispatcherClock(func() time.Time { return loggedAt }))
	runDispatcher(t, d)

	ev := testEvent()
	d.Dispatch(context.Background(), ev)

	waitFor(t, func() bool { return len(sink.all()) == 1 })
	entry := sink.all()[0]
	require.Equal(t, ev.Kanaal, entry.Kanaal)
	require.Equal(t, loggedAt, entry.LoggedAt)
	require.Equal(t, ev, entry.Message, "the ledger must hold the exact undelivered payload")
}

type fakeAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (f *fakeAuditor) Emit(ev audit.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func TestDispatcherAuditsFailedDelivery(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	sink := &fakeSink{}
	auditor := &fakeAuditor{}
	d := NewDispatcher(sender, sink, discardLogger(), WithFailureAuditor(auditor))
	runDispatcher(t, d)

	d.Dispatch(context.Background(), testEvent())

	waitFor(t, func() bool {
		auditor.mu.Lock()
		defer auditor.mu.Unlock()
		return len(auditor.events) == 1
	})
	auditor.mu.Lock()
	defer auditor.mu.Unlock()
	require.Equal(t, audit.ActionNotifyFailure, auditor.events[0].Action)
	require.Equal(t, sink.all()[0].ID, auditor.events[0].ResourceID)
}

func TestDispatcherLedgersWhenQueueFull(t *testing.T) {
	sender := &fakeSender{}
	sink := &fakeSink{}
	// queue of one, no worker running: the second dispatch cannot be queued
	d := NewDispatcher(sender, sink, discardLogger(), WithQueueSize(1))

	d.Dispatch(context.Background(), testEvent())
	d.Dispatch(context.Background(), testEvent())

	require.Len(t, sink.all(), 1)
}

func TestDispatcherDrainsOnShutdown(t *testing.T) {
	sender := &fakeSender{}
	sink := &fakeSink{}
	d := NewDispatcher(sender, sink, discardLogger())

	d.Dispatch(context.Background(), testEvent())
	d.Dispatch(context.Background(), testEvent())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = d.Run(ctx)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.sent, 2, "queued events are delivered during shutdown drain")
}
