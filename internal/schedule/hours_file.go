package schedule

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// hoursFile формат файла часов работы:
//
//	monday:
//	  - {start: "09:00", end: "13:00"}
//	  - {start: "14:00", end: "19:00"}
//	saturday:
//	  - {start: "09:00", end: "13:00"}
type hoursFile map[string][]Window

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// LoadHours читает часы работы из YAML-файла
func LoadHours(path string) (WeeklyHours, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schedule: read opening hours %s: %w", path, err)
	}
	return ParseHours(data)
}

// ParseHours разбирает часы работы из YAML
func ParseHours(data []byte) (WeeklyHours, error) {
	var raw hoursFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("schedule: parse opening hours: %w", err)
	}

	hours := make(WeeklyHours, len(raw))
	for name, windows := range raw {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
		}
		hours[day] = append(hours[day], windows...)
	}

	if err := hours.Validate(); err != nil {
		return nil, err
	}
	return hours, nil
}
