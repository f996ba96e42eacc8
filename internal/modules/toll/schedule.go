// README: Time-of-day fee schedule.
package toll

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a minute of the day, 0 (00:00) through 1439 (23:59).
type ClockTime int

func Clock(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

func ClockOf(t time.Time) ClockTime {
	return Clock(t.Hour(), t.Minute())
}

// ParseClock parses HH:MM on a 24h clock.
func ParseClock(s string) (ClockTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock(h, m), nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Band charges Fee from Start through End, both minutes inclusive.
type Band struct {
	Start ClockTime
	End   ClockTime
	Fee   int
}

func (b Band) Contains(c ClockTime) bool {
	return c >= b.Start && c <= b.End
}

func ParseBand(from, to string, fee int) (Band, error) {
	start, err := ParseClock(from)
	if err != nil {
		return Band{}, err
	}
	end, err := ParseClock(to)
	if err != nil {
		return Band{}, err
	}
	if start > end {
		return Band{}, fmt.Errorf("%w: %s after %s", ErrInvalidBand, from, to)
	}
	if fee < 0 {
		return Band{}, fmt.Errorf("%w: negative fee %d", ErrInvalidBand, fee)
	}
	return Band{Start: start, End: end, Fee: fee}, nil
}

// Schedule is evaluated in order; the first band containing the time wins.
type Schedule []Band

func (s Schedule) FeeAt(t time.Time) int {
	return s.FeeAtClock(ClockOf(t))
}

func (s Schedule) FeeAtClock(c ClockTime) int {
	for _, b := range s {
		if b.Contains(c) {
			return b.Fee
		}
	}
	return 0
}

func DefaultSchedule() Schedule {
	return Schedule{
		{Start: Clock(6, 0), End: Clock(6, 29), Fee: 8},
		{Start: Clock(6, 30), End: Clock(6, 59), Fee: 13},
		{Start: Clock(7, 0), End: Clock(7, 59), Fee: 18},
		{Start: Clock(8, 0), End: Clock(8, 29), Fee: 13},
		{Start: Clock(8, 30), End: Clock(14, 59), Fee: 8},
		{Start: Clock(15, 0), End: Clock(15, 29), Fee: 13},
		{Start: Clock(15, 30), End: Clock(16, 59), Fee: 18},
		{Start: Clock(17, 0), End: Clock(17, 59), Fee: 13},
		{Start: Clock(18, 0), End: Clock(18, 29), Fee: 8},
	}
}
