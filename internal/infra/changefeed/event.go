package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
)

// Op тип изменения строки
type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"

	// OpResync синтетическое событие после переподключения к источнику:
	// часть уведомлений могла потеряться, подписчикам стоит перечитать данные
	OpResync Op = "RESYNC"
)

// Event сигнал "в таблице Table изменилась строка". Данных строки нет:
// потребитель всегда перечитывает хранилище.
type Event struct {
	Table  string `json:"table"`
	Op     Op     `json:"op"`
	ID     int64  `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func Decode(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("changefeed: decode event: %w", err)
	}
	return e, nil
}

// Notifier публикует событие изменения
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// Source источник событий. Run блокируется до отмены ctx или фатальной ошибки.
type Source interface {
	Run(ctx context.Context, emit func(Event)) error
}

// LocalNotifier публикует события сразу в брокер текущего процесса
// (changefeed.driver = "none": один экземпляр сервиса, без внешней шины)
type LocalNotifier struct {
	broker *Broker
}

func NewLocalNotifier(broker *Broker) *LocalNotifier {
	return &LocalNotifier{broker: broker}
}

func (n *LocalNotifier) Notify(_ context.Context, e Event) error {
	n.broker.Publish(e)
	return nil
}

// IdleSource источник без событий, ждёт отмены контекста
type IdleSource struct{}

func (IdleSource) Run(ctx context.Context, _ func(Event)) error {
	<-ctx.Done()
	return nil
}
