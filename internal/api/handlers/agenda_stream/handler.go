package agenda_stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const (
	DefaultHeartbeat = 15 * time.Second

	eventAgenda = "agenda"
	eventError  = "agenda-error"

	msgInvalidWeek     = "некорректный параметр week, ожидается YYYY-MM-DD"
	msgRecomputeFailed = "не удалось обновить агенду, повторим по таймеру"
)

type Handler struct {
	newView   ViewFactory
	calendar  handlers.WeekCalendar
	logger    Logger
	heartbeat time.Duration
	now       func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

func NewHandler(newView ViewFactory, calendar handlers.WeekCalendar, logger Logger) *Handler {
	return &Handler{
		newView:   newView,
		calendar:  calendar,
		logger:    logger,
		heartbeat: DefaultHeartbeat,
		now:       time.Now,
		stop:      make(chan struct{}),
	}
}

// Close завершает все открытые потоки. Shutdown сервера не ждет долгоживущие соединения.
func (h *Handler) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// WithHeartbeat период комментариев keep-alive
func (h *Handler) WithHeartbeat(d time.Duration) *Handler {
	h.heartbeat = d
	return h
}

// Handle GET /api/v1/admin/agenda/stream?week=YYYY-MM-DD
// Server-Sent Events: по событию "agenda" на каждую новую сетку недели.
// Представление живет, пока открыто соединение.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	week, err := handlers.WeekParam(r, h.calendar, h.now())
	if err != nil {
		h.logger.Warn("GET /admin/agenda/stream - Invalid week: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeek)
		return
	}

	rc := http.NewResponseController(w)
	// Поток долгоживущий: снимаем WriteTimeout сервера для этого соединения
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Warn("GET /admin/agenda/stream - Cannot reset write deadline: %v", err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.Error("GET /admin/agenda/stream - Streaming not supported: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	view := h.newView(week)
	done := make(chan struct{})
	go func() {
		defer close(done)
		view.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	h.logger.Info("GET /admin/agenda/stream - Stream opened: week=%s", week.Format(domain.DateFormat))

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	var reported string
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("GET /admin/agenda/stream - Stream closed: week=%s", week.Format(domain.DateFormat))
			return

		case <-h.stop:
			h.logger.Info("GET /admin/agenda/stream - Stream stopped by shutdown: week=%s", week.Format(domain.DateFormat))
			return

		case proj := <-view.Updates():
			reported = ""
			data, err := json.Marshal(handlers.FromProjection(&proj))
			if err != nil {
				h.logger.Error("GET /admin/agenda/stream - Failed to encode agenda: %v", err)
				continue
			}
			if err := writeEvent(w, rc, eventAgenda, data); err != nil {
				h.logger.Warn("GET /admin/agenda/stream - Client gone: %v", err)
				return
			}

		case <-heartbeat.C:
			var err error
			if lastErr := view.LastError(); lastErr != nil && lastErr.Error() != reported {
				reported = lastErr.Error()
				h.logger.Warn("GET /admin/agenda/stream - Recompute failed: %v", lastErr)
				data, _ := json.Marshal(handlers.ErrorResponse{Error: msgRecomputeFailed})
				err = writeEvent(w, rc, eventError, data)
			} else {
				_, err = fmt.Fprint(w, ": ping\n\n")
				if err == nil {
					err = rc.Flush()
				}
			}
			if err != nil {
				h.logger.Warn("GET /admin/agenda/stream - Client gone: %v", err)
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, event string, data []byte) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return rc.Flush()
}
