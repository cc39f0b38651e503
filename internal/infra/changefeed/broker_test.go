package changefeed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type sliceSource []Event

func (s sliceSource) Run(ctx context.Context, emit func(Event)) error {
	for _, e := range s {
		emit(e)
	}
	<-ctx.Done()
	return nil
}

func TestBroker_FanOut(t *testing.T) {
	b := NewBroker(nopLogger{})
	first, unsubFirst := b.Subscribe()
	second, unsubSecond := b.Subscribe()
	defer unsubFirst()
	defer unsubSecond()

	e := Event{Table: "appointments", Op: OpInsert, ID: 1}
	b.Publish(e)

	assert.Equal(t, e, <-first)
	assert.Equal(t, e, <-second)
}

func TestBroker_Unsubscribe(t *testing.T) {
	b := NewBroker(nopLogger{})
	ch, unsub := b.Subscribe()
	require.Equal(t, 1, b.Subscribers())

	unsub()
	unsub()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers())

	assert.NotPanics(t, func() { b.Publish(Event{Table: "appointments"}) })
}

func TestBroker_DropsWhenSubscriberIsFull(t *testing.T) {
	b := NewBroker(nopLogger{})
	ch, unsub := b.Subscribe()
	defer unsub()

	for i := 0; i < subscriberBuffer+5; i++ {
		b.Publish(Event{Table: "appointments", ID: int64(i)})
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestBroker_RunForwardsSource(t *testing.T) {
	b := NewBroker(nopLogger{})
	ch, unsub := b.Subscribe()
	defer unsub()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx, sliceSource{{Table: "booking_requests", Op: OpUpdate, Status: "approved"}})
	}()

	select {
	case e := <-ch:
		assert.Equal(t, "approved", e.Status)
	case <-time.After(time.Second):
		t.Fatal("event was not forwarded")
	}

	cancel()
	<-done
}

// flakySource падает failures раз, затем отдает событие и ждет отмены
type flakySource struct {
	mu       sync.Mutex
	failures int
	attempts int
}

func (s *flakySource) Run(ctx context.Context, emit func(Event)) error {
	s.mu.Lock()
	s.attempts++
	attempt := s.attempts
	s.mu.Unlock()

	if attempt <= s.failures {
		return errors.New("connection refused")
	}
	emit(Event{Table: "appointments", Op: OpInsert, ID: int64(attempt)})
	<-ctx.Done()
	return ctx.Err()
}

func (s *flakySource) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func TestBroker_RunRestartsFailedSource(t *testing.T) {
	b := NewBroker(nopLogger{}).WithRestartBackoff(time.Millisecond, 5*time.Millisecond)
	ch, unsub := b.Subscribe()
	defer unsub()

	source := &flakySource{failures: 3}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx, source)
	}()

	select {
	case e := <-ch:
		assert.Equal(t, int64(4), e.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("source was not restarted")
	}
	assert.Equal(t, 4, source.Attempts())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broker did not stop")
	}
}

// Отмена во время ожидания перезапуска не ждет окончания задержки
func TestBroker_RunStopsDuringBackoff(t *testing.T) {
	b := NewBroker(nopLogger{}).WithRestartBackoff(time.Hour, time.Hour)
	source := &flakySource{failures: 1}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx, source)
	}()

	require.Eventually(t, func() bool { return source.Attempts() == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broker did not stop")
	}
	assert.Equal(t, 1, source.Attempts())
}

func TestDecode(t *testing.T) {
	e, err := Decode([]byte(`{"table":"appointments","op":"DELETE","id":3}`))
	require.NoError(t, err)
	assert.Equal(t, Event{Table: "appointments", Op: OpDelete, ID: 3}, e)

	_, err = Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestLocalNotifier(t *testing.T) {
	b := NewBroker(nopLogger{})
	ch, unsub := b.Subscribe()
	defer unsub()

	require.NoError(t, NewLocalNotifier(b).Notify(context.Background(), Event{Table: "appointments", Op: OpUpdate}))
	assert.Equal(t, OpUpdate, (<-ch).Op)
}
