// README: Holiday calendar built from a set of toll-free dates.
package toll

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
)

const dateLayout = "2006-01-02"

// HolidayCalendar decides whether a date is a toll-free holiday.
type HolidayCalendar interface {
	IsHoliday(t time.Time) bool
}

// DateCalendar is a HolidayCalendar over an explicit set of dates. Each
// date is registered as a single-year holiday, so a date never repeats in
// other years.
type DateCalendar struct {
	calendar *cal.BusinessCalendar
	dates    []Day
}

func NewDateCalendar(dates []time.Time) *DateCalendar {
	seen := make(map[Day]struct{}, len(dates))
	days := make([]Day, 0, len(dates))
	for _, d := range dates {
		day := DayOf(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	calendar := cal.NewBusinessCalendar()
	for _, day := range days {
		calendar.AddHoliday(&cal.Holiday{
			Name:      "toll-free " + day.String(),
			Month:     day.Month,
			Day:       day.Day,
			StartYear: day.Year,
			EndYear:   day.Year,
			Func:      cal.CalcDayOfMonth,
		})
	}
	return &DateCalendar{calendar: calendar, dates: days}
}

func (c *DateCalendar) IsHoliday(t time.Time) bool {
	actual, _, _ := c.calendar.IsHoliday(t)
	return actual
}

// Dates returns the registered dates in ascending order.
func (c *DateCalendar) Dates() []Day {
	out := make([]Day, len(c.dates))
	copy(out, c.dates)
	return out
}

// ParseHolidayDates parses YYYY-MM-DD values.
func ParseHolidayDates(values []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		t, err := time.Parse(dateLayout, strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, v)
		}
		out = append(out, t)
	}
	return out, nil
}

// DefaultHolidayDates is the observed 2013 table, every day of July included.
func DefaultHolidayDates() []string {
	dates := []string{
		"2013-01-01",
		"2013-03-28", "2013-03-29",
		"2013-04-01", "2013-04-30",
		"2013-05-01", "2013-05-08", "2013-05-09",
		"2013-06-05", "2013-06-06", "2013-06-21",
	}
	for d := 1; d <= 31; d++ {
		dates = append(dates, fmt.Sprintf("2013-07-%02d", d))
	}
	return append(dates,
		"2013-11-01",
		"2013-12-24", "2013-12-25", "2013-12-26", "2013-12-31",
	)
}
