// README: Exemption policy for toll-free dates and vehicles.
package toll

import (
	"time"

	"github.com/rickar/cal/v2"
)

type Exemptions struct {
	holidays HolidayCalendar
}

// NewExemptions uses the given calendar for holidays; nil means weekends only.
func NewExemptions(holidays HolidayCalendar) *Exemptions {
	return &Exemptions{holidays: holidays}
}

func (e *Exemptions) IsFeeFreeDate(t time.Time) bool {
	if cal.IsWeekend(t) {
		return true
	}
	return e.holidays != nil && e.holidays.IsHoliday(t)
}

func (e *Exemptions) IsFeeFreeVehicle(v Vehicle) bool {
	return v.IsTollFree()
}
