package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var june15 = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestClassifyDay(t *testing.T) {
	set := map[string]bool{"2025-06-14": true, "2025-06-16": true}

	assert.Equal(t, DayFuture, ClassifyDay("2025-06-16", "2025-06-15", set))
	assert.Equal(t, DayWorkout, ClassifyDay("2025-06-14", "2025-06-15", set))
	assert.Equal(t, DayRest, ClassifyDay("2025-06-14", "2025-06-15", map[string]bool{}))
	assert.Equal(t, DayRest, ClassifyDay("2025-06-15", "2025-06-15", nil))
}

func findCell(panels []MonthPanel, date string) *DayCell {
	for _, p := range panels {
		for _, w := range p.Weeks {
			for _, c := range w {
				if c != nil && c.Date == date {
					return c
				}
			}
		}
	}
	return nil
}

func TestBuildConsistencyCalendarRange(t *testing.T) {
	panels := BuildConsistencyCalendar(nil, june15, Month{Year: 2025, Month: time.January})

	require.Len(t, panels, 7)
	assert.Equal(t, "Jan 2025", panels[0].Label)
	assert.Equal(t, 7, panels[6].Month)
	assert.Equal(t, "Jul 2025", panels[6].Label)
}

func TestBuildConsistencyCalendarYearBoundary(t *testing.T) {
	today := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	panels := BuildConsistencyCalendar(nil, today, Month{Year: 2025, Month: time.November})

	require.Len(t, panels, 3)
	assert.Equal(t, 2026, panels[2].Year)
	assert.Equal(t, 1, panels[2].Month)
}

func TestBuildConsistencyCalendarStates(t *testing.T) {
	set := map[string]bool{"2025-06-14": true, "2025-06-16": true}
	panels := BuildConsistencyCalendar(set, june15, Month{Year: 2025, Month: time.June})

	assert.Equal(t, DayWorkout, findCell(panels, "2025-06-14").State)
	assert.Equal(t, DayFuture, findCell(panels, "2025-06-16").State)
	assert.Equal(t, DayRest, findCell(panels, "2025-06-13").State)
	assert.Equal(t, DayRest, findCell(panels, "2025-06-15").State)
	assert.Equal(t, DayFuture, findCell(panels, "2025-07-01").State)
}

func TestBuildConsistencyCalendarPadding(t *testing.T) {
	// June 2025 starts on a Sunday and has 30 days: 5 rows, last row Sun..Mon
	panels := BuildConsistencyCalendar(nil, june15, Month{Year: 2025, Month: time.June})
	june := panels[0]

	require.Len(t, june.Weeks, 5)
	require.NotNil(t, june.Weeks[0][0])
	assert.Equal(t, 1, june.Weeks[0][0].Day)
	last := june.Weeks[4]
	assert.Equal(t, 29, last[0].Day)
	assert.Equal(t, 30, last[1].Day)
	for i := 2; i < 7; i++ {
		assert.Nil(t, last[i])
	}

	// July 2025 starts on a Tuesday
	july := panels[1]
	assert.Nil(t, july.Weeks[0][0])
	assert.Nil(t, july.Weeks[0][1])
	assert.Equal(t, 1, july.Weeks[0][2].Day)

	days := 0
	for _, w := range july.Weeks {
		for _, c := range w {
			if c != nil {
				days++
			}
		}
	}
	assert.Equal(t, 31, days)
}

func TestBuildConsistencyCalendarIsToday(t *testing.T) {
	panels := BuildConsistencyCalendar(nil, june15, Month{Year: 2025, Month: time.January})

	total := 0
	for _, p := range panels {
		perPanel := 0
		for _, w := range p.Weeks {
			for _, c := range w {
				if c != nil && c.IsToday {
					perPanel++
				}
			}
		}
		assert.LessOrEqual(t, perPanel, 1)
		total += perPanel
	}
	assert.Equal(t, 1, total)
	assert.True(t, findCell(panels, "2025-06-15").IsToday)
}

func TestBuildConsistencyCalendarDeterministic(t *testing.T) {
	epoch := Month{Year: 2025, Month: time.January}
	set := map[string]bool{"2025-03-03": true, "2025-06-14": true}

	first := BuildConsistencyCalendar(set, june15, epoch)
	second := BuildConsistencyCalendar(set, june15, epoch)
	assert.Equal(t, first, second)

	withOutOfRange := map[string]bool{"2025-03-03": true, "2025-06-14": true, "2024-11-20": true, "2026-02-01": true}
	assert.Equal(t, first, BuildConsistencyCalendar(withOutOfRange, june15, epoch))
}

func TestBuildConsistencyCalendarIgnoresClock(t *testing.T) {
	epoch := Month{Year: 2025, Month: time.June}
	late := time.Date(2025, 6, 15, 23, 59, 0, 0, time.FixedZone("UTC-10", -10*3600))

	assert.Equal(t,
		BuildConsistencyCalendar(nil, june15, epoch),
		BuildConsistencyCalendar(nil, late, epoch),
	)
}
