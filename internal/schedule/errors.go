package schedule

import "errors"

var (
	// ErrInvalidWindow возвращается при некорректном окне работы (формат, start >= end)
	ErrInvalidWindow = errors.New("schedule: invalid opening window")

	// ErrOverlappingWindows возвращается, если окна одного дня пересекаются или не упорядочены
	ErrOverlappingWindows = errors.New("schedule: opening windows overlap or are not ascending")

	// ErrUnknownWeekday возвращается при неизвестном названии дня недели в файле часов работы
	ErrUnknownWeekday = errors.New("schedule: unknown weekday")

	// ErrInvalidStep возвращается при неположительном шаге сетки
	ErrInvalidStep = errors.New("schedule: slot step must be positive")

	// ErrInvalidTimestamp возвращается, если строку не удалось разобрать как момент времени
	ErrInvalidTimestamp = errors.New("schedule: invalid timestamp")
)
