package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rome = mustLocation("Europe/Rome")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func at(day time.Time, hhmm string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", day.Format("2006-01-02")+" "+hhmm, day.Location())
	if err != nil {
		panic(err)
	}
	return t
}

func clock(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.In(rome).Format("15:04"))
	}
	return out
}

// 2026-03-02 понедельник
var monday = time.Date(2026, time.March, 2, 0, 0, 0, 0, rome)

func morningOnly() *Calendar {
	return MustCalendar(rome, WeeklyHours{
		time.Monday: {{Start: "09:00", End: "13:00"}},
	}, 30)
}

func TestWindowsFor(t *testing.T) {
	cal := MustCalendar(rome, DefaultHours(), 30)

	windows := cal.WindowsFor(monday)
	require.Len(t, windows, 2)
	assert.Equal(t, at(monday, "09:00"), windows[0].Start)
	assert.Equal(t, at(monday, "13:00"), windows[0].End)
	assert.Equal(t, at(monday, "14:00"), windows[1].Start)
	assert.Equal(t, at(monday, "19:00"), windows[1].End)

	saturday := monday.AddDate(0, 0, 5)
	assert.Len(t, cal.WindowsFor(saturday), 1)

	sunday := monday.AddDate(0, 0, 6)
	assert.Empty(t, cal.WindowsFor(sunday))
}

func TestGenerateSlots(t *testing.T) {
	cal := MustCalendar(rome, DefaultHours(), 30)

	t.Run("90 minutes ends exactly at window end", func(t *testing.T) {
		slots := GenerateSlots(monday, 90, morningOnly(), 30)
		assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, clock(slots))
	})

	t.Run("never spans the lunch gap", func(t *testing.T) {
		for _, duration := range []int{15, 30, 45, 60, 90, 120, 240} {
			windows := cal.WindowsFor(monday)
			for _, start := range GenerateSlots(monday, duration, cal, 30) {
				slot := Interval{Start: start, End: start.Add(time.Duration(duration) * time.Minute)}
				inside := false
				for _, w := range windows {
					if w.Contains(slot) {
						inside = true
					}
				}
				assert.True(t, inside, "duration=%d start=%s", duration, start)
			}
		}
	})

	t.Run("duration longer than every window", func(t *testing.T) {
		assert.Empty(t, GenerateSlots(monday, 301, cal, 30))
		assert.Empty(t, GenerateSlots(monday, 241, morningOnly(), 30))
	})

	t.Run("duration equal to the longest window", func(t *testing.T) {
		assert.Equal(t, []string{"14:00"}, clock(GenerateSlots(monday, 300, cal, 30)))
	})

	t.Run("non-positive duration or step", func(t *testing.T) {
		assert.Empty(t, GenerateSlots(monday, 0, cal, 30))
		assert.Empty(t, GenerateSlots(monday, 30, cal, 0))
	})

	t.Run("closed day", func(t *testing.T) {
		assert.Empty(t, GenerateSlots(monday.AddDate(0, 0, 6), 30, cal, 30))
	})

	t.Run("step is independent of duration", func(t *testing.T) {
		slots := GenerateSlots(monday, 45, morningOnly(), 30)
		assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00"}, clock(slots))
	})
}

func TestResolve(t *testing.T) {
	cal := morningOnly()
	yesterday := monday.AddDate(0, 0, -1)

	t.Run("blocking appointment removes its slot", func(t *testing.T) {
		busy := []Interval{{Start: at(monday, "10:00"), End: at(monday, "10:30")}}
		free := Resolve(monday, 30, cal, busy, yesterday)
		assert.Equal(t, []string{"09:00", "09:30", "10:30", "11:00", "11:30", "12:00", "12:30"}, clock(free))
	})

	t.Run("longer service is blocked by partial overlap", func(t *testing.T) {
		busy := []Interval{{Start: at(monday, "10:00"), End: at(monday, "10:30")}}
		free := Resolve(monday, 60, cal, busy, yesterday)
		assert.Equal(t, []string{"09:00", "10:30", "11:00", "11:30", "12:00"}, clock(free))
	})

	t.Run("past slots of today are excluded", func(t *testing.T) {
		now := at(monday, "11:15")
		free := Resolve(monday, 30, cal, nil, now)
		assert.Equal(t, []string{"11:30", "12:00", "12:30"}, clock(free))
	})

	t.Run("slot starting exactly now is excluded", func(t *testing.T) {
		now := at(monday, "11:30")
		free := Resolve(monday, 30, cal, nil, now)
		assert.Equal(t, []string{"12:00", "12:30"}, clock(free))
	})

	t.Run("now only matters for today", func(t *testing.T) {
		now := at(monday, "11:15")
		nextMonday := monday.AddDate(0, 0, 7)
		free := Resolve(nextMonday, 30, MustCalendar(rome, WeeklyHours{time.Monday: {{Start: "09:00", End: "10:00"}}}, 30), nil, now)
		assert.Equal(t, []string{"09:00", "09:30"}, clock(free))
	})

	t.Run("today is evaluated in business timezone", func(t *testing.T) {
		// 23:30 UTC воскресенья это уже 00:30 понедельника в Риме
		now := time.Date(2026, time.March, 1, 23, 30, 0, 0, time.UTC)
		assert.True(t, cal.IsToday(monday, now))
	})
}

func TestOverlaps(t *testing.T) {
	base := at(monday, "10:00")
	a := Interval{Start: base, End: base.Add(30 * time.Minute)}

	tests := []struct {
		name string
		b    Interval
		want bool
	}{
		{"touching after", Interval{Start: base.Add(30 * time.Minute), End: base.Add(time.Hour)}, false},
		{"touching before", Interval{Start: base.Add(-time.Hour), End: base}, false},
		{"partial overlap", Interval{Start: base.Add(15 * time.Minute), End: base.Add(45 * time.Minute)}, true},
		{"contains", Interval{Start: base.Add(-time.Hour), End: base.Add(time.Hour)}, true},
		{"inside", Interval{Start: base.Add(5 * time.Minute), End: base.Add(10 * time.Minute)}, true},
		{"identical", a, true},
		{"far away", Interval{Start: base.Add(2 * time.Hour), End: base.Add(3 * time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, a), "overlap must be symmetric")
		})
	}
}

func TestHasConflict(t *testing.T) {
	existing := []Interval{{Start: at(monday, "09:30"), End: at(monday, "10:30")}}

	assert.True(t, HasConflict(at(monday, "09:00"), at(monday, "10:00"), existing))
	assert.False(t, HasConflict(at(monday, "10:30"), at(monday, "11:00"), existing))
	assert.False(t, HasConflict(at(monday, "09:00"), at(monday, "09:30"), existing))
	assert.False(t, HasConflict(at(monday, "09:00"), at(monday, "10:00"), nil))
}

func TestCalendar_DayBoundsAcrossDST(t *testing.T) {
	cal := MustCalendar(rome, DefaultHours(), 30)

	// 2026-03-29 переход на летнее время в Италии: сутки длиной 23 часа
	bounds := cal.DayBounds(time.Date(2026, time.March, 29, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 23*time.Hour, bounds.Duration())
	assert.Equal(t, time.Date(2026, time.March, 30, 0, 0, 0, 0, rome), bounds.End)
}

func TestCalendar_WeekStart(t *testing.T) {
	cal := MustCalendar(rome, DefaultHours(), 30)

	for offset := 0; offset < 7; offset++ {
		day := monday.AddDate(0, 0, offset).Add(15 * time.Hour)
		assert.Equal(t, monday, cal.WeekStart(day), "offset=%d", offset)
	}
}

func TestCalendar_ParseInstant(t *testing.T) {
	cal := MustCalendar(rome, DefaultHours(), 30)

	got, err := cal.ParseInstant("2026-03-02T10:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC), got)

	got, err = cal.ParseInstant("2026-03-02T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC), got)

	_, err = cal.ParseInstant("tomorrow")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)

	_, err = cal.ParseInstant("")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestNewCalendar_Validation(t *testing.T) {
	_, err := NewCalendar(rome, WeeklyHours{time.Monday: {{Start: "13:00", End: "09:00"}}}, 30)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewCalendar(rome, WeeklyHours{time.Monday: {
		{Start: "09:00", End: "13:00"},
		{Start: "12:00", End: "15:00"},
	}}, 30)
	assert.ErrorIs(t, err, ErrOverlappingWindows)

	_, err = NewCalendar(rome, WeeklyHours{time.Monday: {{Start: "9", End: "13:00"}}}, 30)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewCalendar(rome, DefaultHours(), 0)
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = NewCalendar(rome, DefaultHours(), -15)
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestParseHours(t *testing.T) {
	data := []byte(`
monday:
  - {start: "09:00", end: "13:00"}
  - {start: "14:00", end: "19:00"}
Saturday:
  - start: "09:00"
    end: "13:00"
`)
	hours, err := ParseHours(data)
	require.NoError(t, err)
	assert.Len(t, hours[time.Monday], 2)
	assert.Equal(t, []Window{{Start: "09:00", End: "13:00"}}, hours[time.Saturday])
	assert.Empty(t, hours[time.Sunday])

	_, err = ParseHours([]byte("funday:\n  - {start: \"09:00\", end: \"10:00\"}\n"))
	assert.ErrorIs(t, err, ErrUnknownWeekday)
}

func TestCalendar_WeekSpan(t *testing.T) {
	open, closeAt, ok := MustCalendar(rome, DefaultHours(), 30).WeekSpan()
	require.True(t, ok)
	assert.Equal(t, 9*60, open)
	assert.Equal(t, 19*60, closeAt)

	_, _, ok = MustCalendar(rome, WeeklyHours{}, 30).WeekSpan()
	assert.False(t, ok)
}
