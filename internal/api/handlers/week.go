package handlers

import (
	"net/http"
	"strings"
	"time"
)

// WeekCalendar календарь салона для разбора параметра week
type WeekCalendar interface {
	ParseDate(s string) (time.Time, error)
	Today(now time.Time) time.Time
}

// WeekParam дата из ?week=YYYY-MM-DD; пустое значение означает текущую неделю
func WeekParam(r *http.Request, cal WeekCalendar, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("week"))
	if raw == "" {
		return cal.Today(now), nil
	}
	return cal.ParseDate(raw)
}
