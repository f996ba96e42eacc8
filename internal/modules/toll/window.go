// README: Window aggregation for "highest fee wins" passages.
package toll

import (
	"sort"
	"time"
)

// GroupIntoWindows sweeps one day's passages in ascending order. A passage
// joins the current window while it is at most size after the window start;
// otherwise it opens the next window. Passages are never moved back into an
// earlier window.
func GroupIntoWindows(passages []time.Time, size time.Duration) []Window {
	if len(passages) == 0 {
		return nil
	}
	sorted := make([]time.Time, len(passages))
	copy(sorted, passages)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	windows := make([]Window, 0, 1)
	current := Window{Start: sorted[0]}
	for _, t := range sorted[1:] {
		if t.Sub(current.Start) <= size {
			current.Members = append(current.Members, t)
			continue
		}
		windows = append(windows, current)
		current = Window{Start: t}
	}
	return append(windows, current)
}

// groupByDay partitions passages by calendar date, days in ascending order.
func groupByDay(passages []time.Time) ([]Day, map[Day][]time.Time) {
	byDay := make(map[Day][]time.Time)
	for _, t := range passages {
		d := DayOf(t)
		byDay[d] = append(byDay[d], t)
	}
	days := make([]Day, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, byDay
}
