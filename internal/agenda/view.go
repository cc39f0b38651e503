package agenda

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// View живая сетка одной недели. Run пересчитывает ее целиком при первом запуске,
// по событиям Relevant и по таймеру; все триггеры сводятся к одному пересчету.
type View struct {
	svc     *Service
	week    time.Time
	updates chan Projection

	mu      sync.RWMutex
	current *Projection
	lastErr error
}

// Week понедельник недели представления
func (v *View) Week() time.Time {
	return v.week
}

// Updates канал свежих сеток. Хранит только последнюю: медленный читатель
// пропускает промежуточные версии.
func (v *View) Updates() <-chan Projection {
	return v.updates
}

// Snapshot последняя построенная сетка и последняя ошибка пересчета
func (v *View) Snapshot() (*Projection, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current, v.lastErr
}

// LastError ошибка последнего пересчета, nil после успешного
func (v *View) LastError() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastErr
}

// Run блокируется до отмены ctx. При выходе отменяется текущая выборка,
// останавливается таймер и снимается подписка.
func (v *View) Run(ctx context.Context) {
	events, unsubscribe := v.svc.subscriber.Subscribe()
	defer unsubscribe()

	ticker := time.NewTicker(v.svc.opts.RefreshInterval)
	defer ticker.Stop()

	v.svc.metrics.AddAgendaViews(1)
	defer v.svc.metrics.AddAgendaViews(-1)

	trigger := make(chan struct{}, 1)
	poke := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}
	poke()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				// Брокер закрыт, остается только таймер
				events = nil
				continue
			}
			if Relevant(e) {
				poke()
			}
		case <-ticker.C:
			poke()
		case <-trigger:
			v.recompute(ctx)
		}
	}
}

func (v *View) recompute(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, v.svc.opts.FetchTimeout)
	defer cancel()

	proj, err := v.svc.Snapshot(fetchCtx, v.week)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		v.svc.logger.Warn("Agenda: recompute failed for week %s: %v", v.week.Format(domain.DateFormat), err)
		v.svc.metrics.IncAgendaRecompute(false)
		v.mu.Lock()
		v.lastErr = err
		v.mu.Unlock()
		return
	}

	v.svc.metrics.IncAgendaRecompute(true)
	v.mu.Lock()
	v.current = proj
	v.lastErr = nil
	v.mu.Unlock()

	// latest-wins: вытесняем непрочитанную версию
	select {
	case <-v.updates:
	default:
	}
	v.updates <- *proj
}
