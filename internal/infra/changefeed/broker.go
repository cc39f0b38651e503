package changefeed

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	subscriberBuffer = 16

	defaultMinRestartBackoff = time.Second
	defaultMaxRestartBackoff = 30 * time.Second
)

var errSourceStopped = errors.New("changefeed: source stopped without error")

// Broker раздает события одного Source всем подписчикам.
// Медленный подписчик теряет события, а не тормозит остальных: потребители всё
// равно перечитывают данные и дополнительно обновляются по таймеру.
type Broker struct {
	mu         sync.Mutex
	subs       map[int]chan Event
	nextID     int
	minBackoff time.Duration
	maxBackoff time.Duration
	logger     Logger
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

func NewBroker(logger Logger) *Broker {
	return &Broker{
		subs:       make(map[int]chan Event),
		minBackoff: defaultMinRestartBackoff,
		maxBackoff: defaultMaxRestartBackoff,
		logger:     logger,
	}
}

// WithRestartBackoff задает задержки перезапуска упавшего источника
func (b *Broker) WithRestartBackoff(minDelay, maxDelay time.Duration) *Broker {
	b.minBackoff = minDelay
	b.maxBackoff = maxDelay
	return b
}

// Subscribe возвращает канал событий и функцию отписки. Отписка закрывает канал.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Publish раздает событие без блокировки
func (b *Broker) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.Warn("Broker: subscriber %d is full, dropping %s %s event", id, e.Table, e.Op)
		}
	}
}

// Subscribers количество активных подписчиков
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Run читает source и публикует события до отмены ctx.
// Упавший источник перезапускается с удвоением задержки до maxBackoff.
func (b *Broker) Run(ctx context.Context, source Source) {
	b.logger.Info("Broker: change feed started")
	backoff := b.minBackoff
	for {
		started := time.Now()
		err := source.Run(ctx, b.Publish)
		if ctx.Err() != nil {
			b.logger.Info("Broker: change feed stopped")
			return
		}
		if err == nil {
			err = errSourceStopped
		}

		// Источник долго работал без сбоев: начинаем с минимальной задержки
		if time.Since(started) > b.maxBackoff {
			backoff = b.minBackoff
		}
		b.logger.Error("Broker: change feed source failed, restarting in %s: %v", backoff, err)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			b.logger.Info("Broker: change feed stopped")
			return
		case <-timer.C:
		}
		backoff = min(backoff*2, b.maxBackoff)
	}
}

// Close отписывает всех подписчиков
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
