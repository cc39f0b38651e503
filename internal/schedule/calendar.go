package schedule

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Window окно работы в местном времени (HH:MM - HH:MM)
type Window struct {
	Start types.TimeString `yaml:"start"`
	End   types.TimeString `yaml:"end"`
}

// WeeklyHours часы работы по дням недели. Отсутствующий день - выходной.
type WeeklyHours map[time.Weekday][]Window

// DefaultHours Пн-Пт 09:00-13:00 и 14:00-19:00, Сб 09:00-13:00, Вс выходной
func DefaultHours() WeeklyHours {
	weekday := []Window{{Start: "09:00", End: "13:00"}, {Start: "14:00", End: "19:00"}}
	hours := WeeklyHours{
		time.Saturday: {{Start: "09:00", End: "13:00"}},
	}
	for d := time.Monday; d <= time.Friday; d++ {
		hours[d] = append([]Window(nil), weekday...)
	}
	return hours
}

// Validate проверяет формат окон, start < end и возрастающий порядок без пересечений
func (h WeeklyHours) Validate() error {
	for day, windows := range h {
		prevEnd := -1
		for _, w := range windows {
			start, err := w.Start.Minutes()
			if err != nil {
				return fmt.Errorf("%w: %s start %q", ErrInvalidWindow, day, w.Start)
			}
			end, err := w.End.Minutes()
			if err != nil {
				return fmt.Errorf("%w: %s end %q", ErrInvalidWindow, day, w.End)
			}
			if start >= end {
				return fmt.Errorf("%w: %s %s-%s", ErrInvalidWindow, day, w.Start, w.End)
			}
			if start < prevEnd {
				return fmt.Errorf("%w: %s %s-%s", ErrOverlappingWindows, day, w.Start, w.End)
			}
			prevEnd = end
		}
	}
	return nil
}

// Calendar часы работы салона в его часовом поясе.
// Это единственное место, где моменты времени переводятся в местное время и обратно.
type Calendar struct {
	loc      *time.Location
	hours    WeeklyHours
	slotStep int
}

// NewCalendar создает календарь. Шаг сетки должен быть положительным.
func NewCalendar(loc *time.Location, hours WeeklyHours, slotStepMinutes int) (*Calendar, error) {
	if loc == nil {
		loc = time.UTC
	}
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	if slotStepMinutes <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidStep, slotStepMinutes)
	}

	copied := make(WeeklyHours, len(hours))
	for day, windows := range hours {
		copied[day] = append([]Window(nil), windows...)
	}

	return &Calendar{loc: loc, hours: copied, slotStep: slotStepMinutes}, nil
}

// MustCalendar как NewCalendar, но паникует при ошибке (для тестов и констант)
func MustCalendar(loc *time.Location, hours WeeklyHours, slotStepMinutes int) *Calendar {
	c, err := NewCalendar(loc, hours, slotStepMinutes)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// SlotStep шаг сетки в минутах
func (c *Calendar) SlotStep() int {
	return c.slotStep
}

// Day местная полночь календарной даты date. Используются только год, месяц и день date.
func (c *Calendar) Day(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// DayBounds границы местных суток [полночь, следующая полночь) с учетом перехода на летнее время
func (c *Calendar) DayBounds(date time.Time) Interval {
	start := c.Day(date)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekStart понедельник недели, в которую попадает date (местная полночь)
func (c *Calendar) WeekStart(date time.Time) time.Time {
	day := c.Day(date)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Today местная дата момента now
func (c *Calendar) Today(now time.Time) time.Time {
	return c.Day(now.In(c.loc))
}

// IsToday true, если date совпадает с текущей местной датой
func (c *Calendar) IsToday(date, now time.Time) bool {
	return c.Day(date).Equal(c.Today(now))
}

// WindowsFor окна работы в дату date как моменты времени, по возрастанию
func (c *Calendar) WindowsFor(date time.Time) []Interval {
	day := c.Day(date)
	windows := c.hours[day.Weekday()]
	if len(windows) == 0 {
		return nil
	}

	y, m, d := day.Date()
	result := make([]Interval, 0, len(windows))
	for _, w := range windows {
		// Формат провалидирован в NewCalendar
		start, _ := w.Start.On(y, m, d, c.loc)
		end, _ := w.End.On(y, m, d, c.loc)
		result = append(result, Interval{Start: start, End: end})
	}
	return result
}

// WeekSpan самое раннее открытие и самое позднее закрытие за неделю в минутах от полуночи.
// ok=false, если за неделю нет ни одного окна.
func (c *Calendar) WeekSpan() (openMin, closeMin int, ok bool) {
	openMin, closeMin = 24*60, 0
	for _, windows := range c.hours {
		for _, w := range windows {
			s, _ := w.Start.Minutes()
			e, _ := w.End.Minutes()
			if s < openMin {
				openMin = s
			}
			if e > closeMin {
				closeMin = e
			}
			ok = true
		}
	}
	return openMin, closeMin, ok
}

// ParseDate парсит календарную дату YYYY-MM-DD в часовом поясе салона
func (c *Calendar) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateFormat, strings.TrimSpace(s), c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	return t, nil
}

// ParseInstant разбирает момент времени: RFC3339 или значение datetime-local
// ("2006-01-02T15:04"), которое трактуется как местное время салона
func (c *Calendar) ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range []string{domain.LocalDateTime, "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, c.loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}
