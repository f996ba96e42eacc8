// README: Toll service computes passage fees, window maxima and capped daily totals.
package toll

import (
	"time"
)

const (
	DefaultWindow   = 60 * time.Minute
	DefaultDailyCap = 60
)

type Rules struct {
	Window   time.Duration
	DailyCap int
}

func DefaultRules() Rules {
	return Rules{Window: DefaultWindow, DailyCap: DefaultDailyCap}
}

// Service holds no per-call state and is safe for concurrent use.
type Service struct {
	exemptions *Exemptions
	schedule   Schedule
	rules      Rules
}

func NewService(exemptions *Exemptions, schedule Schedule, rules Rules) *Service {
	if exemptions == nil {
		exemptions = NewExemptions(nil)
	}
	if rules.Window <= 0 {
		rules.Window = DefaultWindow
	}
	if rules.DailyCap <= 0 {
		rules.DailyCap = DefaultDailyCap
	}
	return &Service{exemptions: exemptions, schedule: schedule, rules: rules}
}

func (s *Service) Schedule() Schedule {
	out := make(Schedule, len(s.schedule))
	copy(out, s.schedule)
	return out
}

func (s *Service) Rules() Rules {
	return s.rules
}

func (s *Service) FeeForPassage(v Vehicle, at time.Time) int {
	if s.exemptions.IsFeeFreeDate(at) || s.exemptions.IsFeeFreeVehicle(v) {
		return 0
	}
	return s.schedule.FeeAt(at)
}

func (s *Service) FeePerWindow(v Vehicle, w Window) int {
	highest := s.FeeForPassage(v, w.Start)
	for _, t := range w.Members {
		if fee := s.FeeForPassage(v, t); fee > highest {
			highest = fee
		}
	}
	return highest
}

// DailyTotal expects passages from a single calendar day.
func (s *Service) DailyTotal(v Vehicle, passages []time.Time) int {
	return s.dailyTotal(v, DayOf(firstOrZero(passages)), passages).Fee
}

func (s *Service) GrandTotal(v Vehicle, passages []time.Time) int {
	total := 0
	for _, d := range s.Breakdown(v, passages) {
		total += d.Fee
	}
	return total
}

// FeeForSinglePassage charges a lone passage as its own window.
func (s *Service) FeeForSinglePassage(v Vehicle, at time.Time) int {
	return s.FeeForPassage(v, at)
}

func (s *Service) FeeForPassages(v Vehicle, passages []time.Time) int {
	return s.GrandTotal(v, passages)
}

// Breakdown returns the capped total of every day present in passages,
// ordered by date.
func (s *Service) Breakdown(v Vehicle, passages []time.Time) []DailyTotal {
	if len(passages) == 0 {
		return nil
	}
	days, byDay := groupByDay(passages)
	out := make([]DailyTotal, 0, len(days))
	for _, d := range days {
		out = append(out, s.dailyTotal(v, d, byDay[d]))
	}
	return out
}

func (s *Service) dailyTotal(v Vehicle, day Day, passages []time.Time) DailyTotal {
	windows := GroupIntoWindows(passages, s.rules.Window)
	total := DailyTotal{Date: day, Windows: make([]WindowFee, 0, len(windows))}
	sum := 0
	for _, w := range windows {
		fee := s.FeePerWindow(v, w)
		total.Windows = append(total.Windows, WindowFee{Window: w, Fee: fee})
		sum += fee
	}
	total.Fee = min(sum, s.rules.DailyCap)
	return total
}

func firstOrZero(passages []time.Time) time.Time {
	if len(passages) == 0 {
		return time.Time{}
	}
	return passages[0]
}
