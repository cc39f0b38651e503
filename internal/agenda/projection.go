// Package agenda недельная сетка записей для админки и ее живое обновление.
package agenda

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/schedule"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// DaysInWeek число колонок сетки
const DaysInWeek = 7

// Границы сетки, если на неделе нет ни одного окна работы
const (
	fallbackOpenMinutes  = 9 * 60
	fallbackCloseMinutes = 19 * 60
)

// CellState состояние ячейки сетки
type CellState string

const (
	CellClosed   CellState = "closed"
	CellFree     CellState = "free"
	CellOccupied CellState = "occupied"
)

// Cell ячейка день x время
type Cell struct {
	Start         time.Time
	End           time.Time
	State         CellState
	AppointmentID int64
	Status        domain.AppointmentStatus
	CustomerName  string
	ServiceName   string
}

// Row строка сетки: одно время начала для всех дней недели
type Row struct {
	Time  types.TimeString
	Cells []Cell
}

// Projection недельная сетка. Days - местные полуночи с понедельника.
type Projection struct {
	WeekStart    time.Time
	Days         []time.Time
	Rows         []Row
	Appointments int
	BuiltAt      time.Time
}

// Builder строит сетку из полного списка записей недели
type Builder struct {
	calendar *schedule.Calendar
	step     int
}

// NewBuilder шаг сетки берется из календаря
func NewBuilder(calendar *schedule.Calendar) *Builder {
	return &Builder{calendar: calendar, step: calendar.SlotStep()}
}

// WeekStart понедельник недели date в часовом поясе салона
func (b *Builder) WeekStart(date time.Time) time.Time {
	return b.calendar.WeekStart(date)
}

// Build строит сетку с нуля. Ячейка закрыта, если не лежит целиком в одном окне работы;
// занята первой (по времени начала) активной записью, которая ее пересекает.
func (b *Builder) Build(weekStart time.Time, appts []*domain.Appointment) Projection {
	monday := b.calendar.WeekStart(weekStart)

	openMin, closeMin, ok := b.calendar.WeekSpan()
	if !ok {
		openMin, closeMin = fallbackOpenMinutes, fallbackCloseMinutes
	}

	blocking := make([]*domain.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.Status.IsBlocking() {
			blocking = append(blocking, a)
		}
	}
	sort.SliceStable(blocking, func(i, j int) bool {
		return blocking[i].StartsAt.Before(blocking[j].StartsAt)
	})

	days := make([]time.Time, DaysInWeek)
	windows := make([][]schedule.Interval, DaysInWeek)
	for d := 0; d < DaysInWeek; d++ {
		days[d] = monday.AddDate(0, 0, d)
		windows[d] = b.calendar.WindowsFor(days[d])
	}

	proj := Projection{
		WeekStart:    monday,
		Days:         days,
		Appointments: len(blocking),
	}

	loc := b.calendar.Location()
	for m := openMin; m < closeMin; m += b.step {
		label := types.FromMinutes(m)
		row := Row{Time: label, Cells: make([]Cell, DaysInWeek)}

		for d, day := range days {
			y, mon, dd := day.Date()
			start, _ := label.On(y, mon, dd, loc)
			cell := Cell{Start: start, End: start.Add(time.Duration(b.step) * time.Minute), State: CellClosed}

			if insideAny(schedule.Interval{Start: cell.Start, End: cell.End}, windows[d]) {
				cell.State = CellFree
				if a := firstOverlapping(cell, blocking); a != nil {
					cell.State = CellOccupied
					cell.AppointmentID = a.ID
					cell.Status = a.Status
					cell.CustomerName = a.CustomerName()
					cell.ServiceName = a.ServiceName()
				}
			}
			row.Cells[d] = cell
		}
		proj.Rows = append(proj.Rows, row)
	}
	return proj
}

func insideAny(cell schedule.Interval, windows []schedule.Interval) bool {
	for _, w := range windows {
		if w.Contains(cell) {
			return true
		}
	}
	return false
}

func firstOverlapping(cell Cell, appts []*domain.Appointment) *domain.Appointment {
	ci := schedule.Interval{Start: cell.Start, End: cell.End}
	for _, a := range appts {
		if schedule.Overlaps(ci, schedule.Interval{Start: a.StartsAt, End: a.EndsAt}) {
			return a
		}
	}
	return nil
}
