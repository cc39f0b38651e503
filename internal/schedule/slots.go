package schedule

import "time"

// GenerateSlots кандидаты на начало записи в дату date для услуги длительностью durationMinutes.
//
// Внутри каждого окна кандидаты идут от начала окна с шагом stepMinutes, пока
// start+duration не выходит за конец окна. Шаг не зависит от длительности услуги:
// сетка равномерная, услуги разной длины отличаются только тем, какие концы помещаются.
// Результат упорядочен по окнам и по времени внутри окна.
func GenerateSlots(date time.Time, durationMinutes int, cal *Calendar, stepMinutes int) []time.Time {
	if durationMinutes <= 0 || stepMinutes <= 0 || cal == nil {
		return nil
	}

	duration := time.Duration(durationMinutes) * time.Minute
	step := time.Duration(stepMinutes) * time.Minute

	var slots []time.Time
	for _, w := range cal.WindowsFor(date) {
		for start := w.Start; !start.Add(duration).After(w.End); start = start.Add(step) {
			slots = append(slots, start)
		}
	}
	return slots
}
