package schedule

import "time"

// Interval полуинтервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration длина интервала
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Contains true, если other целиком лежит внутри i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Overlaps true, если интервалы пересекаются. Касание концами пересечением не считается.
func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i, other)
}

// Overlaps a.start < b.end && a.end > b.start
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// HasConflict true, если [start, end) пересекается хотя бы с одним из существующих интервалов
func HasConflict(start, end time.Time, existing []Interval) bool {
	_, found := FirstConflict(start, end, existing)
	return found
}

// FirstConflict возвращает первый пересекающийся интервал
func FirstConflict(start, end time.Time, existing []Interval) (Interval, bool) {
	candidate := Interval{Start: start, End: end}
	for _, e := range existing {
		if Overlaps(candidate, e) {
			return e, true
		}
	}
	return Interval{}, false
}
