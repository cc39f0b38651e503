package changefeed

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaNotifier публикует события в топик Kafka (ключ - имя таблицы)
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 20 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (n *KafkaNotifier) Notify(ctx context.Context, e Event) error {
	payload, err := e.Encode()
	if err != nil {
		return fmt.Errorf("changefeed: encode event: %w", err)
	}
	if err := n.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.Table), Value: payload}); err != nil {
		return fmt.Errorf("changefeed: kafka write: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// KafkaSource читает события из топика. Каждому экземпляру сервиса нужна своя
// consumer group, иначе партиции поделятся и часть событий не дойдёт до его подписчиков.
type KafkaSource struct {
	reader *kafka.Reader
	logger Logger
}

func NewKafkaSource(brokers []string, groupID, topic string, logger Logger) *KafkaSource {
	return &KafkaSource{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			StartOffset:       kafka.LastOffset,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		logger: logger,
	}
}

func (s *KafkaSource) Run(ctx context.Context, emit func(Event)) error {
	defer s.reader.Close()

	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("changefeed: kafka read: %w", err)
		}

		e, err := Decode(msg.Value)
		if err != nil {
			s.logger.Warn("KafkaSource: skip malformed message at offset %d: %v", msg.Offset, err)
			continue
		}
		emit(e)
	}
}
