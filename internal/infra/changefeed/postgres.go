package changefeed

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
)

const (
	minReconnectInterval = 1 * time.Second
	maxReconnectInterval = 30 * time.Second
	listenerPingInterval = 90 * time.Second
)

// PostgresNotifier публикует события через pg_notify.
// Внутри транзакции уведомление доставляется только после COMMIT.
type PostgresNotifier struct {
	db      dbmetrics.DBExecutor
	channel string
}

func NewPostgresNotifier(db dbmetrics.DBExecutor, channel string) *PostgresNotifier {
	return &PostgresNotifier{db: db, channel: channel}
}

func (n *PostgresNotifier) Notify(ctx context.Context, e Event) error {
	payload, err := e.Encode()
	if err != nil {
		return fmt.Errorf("changefeed: encode event: %w", err)
	}

	executor := dbmetrics.GetExecutor(ctx, n.db)
	if _, err := executor.ExecContext(ctx, "SELECT pg_notify($1, $2)", n.channel, string(payload)); err != nil {
		return fmt.Errorf("changefeed: pg_notify: %w", err)
	}
	return nil
}

// PostgresSource слушает канал LISTEN через pq.Listener
type PostgresSource struct {
	dsn     string
	channel string
	logger  Logger
}

func NewPostgresSource(dsn, channel string, logger Logger) *PostgresSource {
	return &PostgresSource{dsn: dsn, channel: channel, logger: logger}
}

func (s *PostgresSource) Run(ctx context.Context, emit func(Event)) error {
	listener := pq.NewListener(s.dsn, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			switch ev {
			case pq.ListenerEventDisconnected:
				s.logger.Warn("PostgresSource: listener disconnected: %v", err)
			case pq.ListenerEventReconnected:
				s.logger.Info("PostgresSource: listener reconnected")
			case pq.ListenerEventConnectionAttemptFailed:
				s.logger.Warn("PostgresSource: reconnect attempt failed: %v", err)
			}
		})
	defer listener.Close()

	if err := listener.Listen(s.channel); err != nil {
		return fmt.Errorf("changefeed: listen %s: %w", s.channel, err)
	}
	s.logger.Info("PostgresSource: listening on channel %s", s.channel)

	ping := time.NewTicker(listenerPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case n, ok := <-listener.Notify:
			if !ok {
				return fmt.Errorf("changefeed: listener closed")
			}
			// nil приходит после переподключения: уведомления за время разрыва потеряны
			if n == nil {
				emit(Event{Op: OpResync})
				continue
			}
			e, err := Decode([]byte(n.Extra))
			if err != nil {
				s.logger.Warn("PostgresSource: skip malformed payload %q: %v", n.Extra, err)
				continue
			}
			emit(e)

		case <-ping.C:
			if err := listener.Ping(); err != nil {
				s.logger.Warn("PostgresSource: ping failed: %v", err)
			}
		}
	}
}
