package schedule

import "time"

// Resolve свободные начала записи в дату date.
//
// Из сетки GenerateSlots (шаг календаря) убираются кандидаты, чей интервал
// [start, start+duration) пересекается с blocking, а для сегодняшней даты ещё и
// кандидаты с start <= now. Порядок сохраняется, кандидаты не склеиваются и не дробятся.
func Resolve(date time.Time, durationMinutes int, cal *Calendar, blocking []Interval, now time.Time) []time.Time {
	if cal == nil {
		return nil
	}

	candidates := GenerateSlots(date, durationMinutes, cal, cal.SlotStep())
	if len(candidates) == 0 {
		return nil
	}

	today := cal.IsToday(date, now)
	duration := time.Duration(durationMinutes) * time.Minute

	free := make([]time.Time, 0, len(candidates))
	for _, start := range candidates {
		if today && !start.After(now) {
			continue
		}
		if HasConflict(start, start.Add(duration), blocking) {
			continue
		}
		free = append(free, start)
	}
	return free
}
