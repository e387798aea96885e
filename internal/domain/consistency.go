package domain

import "time"

// DayState classifies a calendar day. Exactly one state applies to every day cell.
type DayState string

const (
	DayFuture  DayState = "future"
	DayWorkout DayState = "workout"
	DayRest    DayState = "rest"
)

// DayCell is one day in a month panel
type DayCell struct {
	Date    string   `json:"date"`
	Day     int      `json:"day"`
	State   DayState `json:"state"`
	IsToday bool     `json:"is_today"`
}

// Week is a Sunday-first row; nil slots pad before day 1 and after the last day.
type Week [7]*DayCell

// MonthPanel is one month of the consistency calendar
type MonthPanel struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"` // e.g. "Jun 2025"
	Weeks []Week `json:"weeks"`
}

// ClassifyDay returns the state of date given today (both YYYY-MM-DD).
func ClassifyDay(date, today string, workoutDates map[string]bool) DayState {
	switch {
	case date > today:
		return DayFuture
	case workoutDates[date]:
		return DayWorkout
	default:
		return DayRest
	}
}

// BuildConsistencyCalendar lays out month panels from epoch through the month after today.
// It is a pure function of its inputs; dates outside the displayed range have no effect.
// today is interpreted as a calendar date (its clock and zone are ignored).
func BuildConsistencyCalendar(workoutDates map[string]bool, today time.Time, epoch Month) []MonthPanel {
	todayStr := today.Format(DateLayout)
	last := Month{Year: today.Year(), Month: today.Month()}.Next()

	months := epoch.MonthsThrough(last)
	panels := make([]MonthPanel, 0, len(months))
	for _, m := range months {
		panels = append(panels, buildMonthPanel(m, todayStr, workoutDates))
	}
	return panels
}

func buildMonthPanel(m Month, today string, workoutDates map[string]bool) MonthPanel {
	first := m.First(time.UTC)
	panel := MonthPanel{
		Year:  m.Year,
		Month: int(m.Month),
		Label: first.Format("Jan 2006"),
	}

	var week Week
	slot := int(first.Weekday())
	for day := 1; day <= m.Days(); day++ {
		date := time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
		week[slot] = &DayCell{
			Date:    date,
			Day:     day,
			State:   ClassifyDay(date, today, workoutDates),
			IsToday: date == today,
		}
		slot++
		if slot == 7 {
			panel.Weeks = append(panel.Weeks, week)
			week = Week{}
			slot = 0
		}
	}
	if slot > 0 {
		panel.Weeks = append(panel.Weeks, week)
	}
	return panel
}
