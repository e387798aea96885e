package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar-date format used for every dated record.
	DateLayout = "2006-01-02"
	// TimeLayout is the hour:minute format of FoodEntry.Time.
	TimeLayout = "15:04"
)

const monthLayout = "2006-01"

// ParseDate validates a YYYY-MM-DD string and returns it as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, Validationf("date %q must be YYYY-MM-DD", s)
	}
	return d, nil
}

// NormalizeTime validates an hour:minute string and returns it zero-padded as HH:MM,
// so stored times sort lexically.
func NormalizeTime(s string) (string, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return "", Validationf("time %q must be HH:MM", s)
	}
	return t.Format(TimeLayout), nil
}

// DateOf returns the calendar date of t in loc.
func DateOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// Month identifies a calendar month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// NewMonth validates year/month numbers coming from a request.
func NewMonth(year, month int) (Month, error) {
	if month < 1 || month > 12 {
		return Month{}, Validationf("month %d out of range 1..12", month)
	}
	if year < 1 || year > 9999 {
		return Month{}, Validationf("year %d out of range", year)
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("month %q must be YYYY-MM: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing the calendar date of t in loc.
func MonthOf(t time.Time, loc *time.Location) Month {
	lt := t.In(loc)
	return Month{Year: lt.Year(), Month: lt.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// First returns the first day of the month at midnight in loc.
func (m Month) First(loc *time.Location) time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Next returns the following month.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// DateRange returns the first and last calendar date of the month as YYYY-MM-DD.
func (m Month) DateRange() (string, string) {
	return fmt.Sprintf("%s-01", m), fmt.Sprintf("%s-%02d", m, m.Days())
}

// MonthsThrough lists every month from m up to and including last.
func (m Month) MonthsThrough(last Month) []Month {
	var months []Month
	for cur := m; !last.Before(cur); cur = cur.Next() {
		months = append(months, cur)
	}
	return months
}

// WeekStart returns midnight (in loc) of the first day of the week containing t.
func WeekStart(t time.Time, first time.Weekday, loc *time.Location) time.Time {
	lt := t.In(loc)
	offset := (int(lt.Weekday()) - int(first) + 7) % 7
	day := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	return day.AddDate(0, 0, -offset)
}

// ParseWeekday accepts full English weekday names, case-insensitive.
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), s) {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("unknown weekday %q", s)
}
