// README: Toll domain types: vehicle classes, windows and daily totals.
package toll

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownVehicleClass = errors.New("unknown vehicle class")
	ErrInvalidClock        = errors.New("invalid clock time")
	ErrInvalidBand         = errors.New("invalid fee band")
	ErrInvalidDate         = errors.New("invalid date")
)

type VehicleClass uint8

const (
	ClassUndefined VehicleClass = iota
	ClassCar
	ClassMotorbike
	ClassTractor
	ClassEmergency
	ClassDiplomat
	ClassForeign
	ClassMilitary
)

var classNames = [...]string{
	ClassUndefined: "undefined",
	ClassCar:       "car",
	ClassMotorbike: "motorbike",
	ClassTractor:   "tractor",
	ClassEmergency: "emergency",
	ClassDiplomat:  "diplomat",
	ClassForeign:   "foreign",
	ClassMilitary:  "military",
}

// exemptClasses never pay a toll.
var exemptClasses = map[VehicleClass]struct{}{
	ClassMotorbike: {},
	ClassTractor:   {},
	ClassEmergency: {},
	ClassDiplomat:  {},
	ClassForeign:   {},
	ClassMilitary:  {},
}

func (c VehicleClass) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

func (c VehicleClass) IsValid() bool {
	return int(c) < len(classNames)
}

// ParseVehicleClass accepts the lower-case class name, case-insensitively.
func ParseVehicleClass(s string) (VehicleClass, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range classNames {
		if n == name {
			return VehicleClass(i), nil
		}
	}
	return ClassUndefined, fmt.Errorf("%w: %q", ErrUnknownVehicleClass, s)
}

func (c VehicleClass) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVehicleClass, uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *VehicleClass) UnmarshalText(b []byte) error {
	parsed, err := ParseVehicleClass(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Vehicle is the only vehicle attribute the toll rules look at.
type Vehicle struct {
	Class VehicleClass
}

func NewVehicle(class VehicleClass) Vehicle {
	return Vehicle{Class: class}
}

// IsTollFree reports membership in the exempt class set. Undefined and
// out-of-range classes are charged.
func (v Vehicle) IsTollFree() bool {
	_, ok := exemptClasses[v.Class]
	return ok
}

// Day is a calendar date with the time of day discarded.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Day) Before(o Day) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// Window groups the passages charged as one: Start opens it and Members
// follow within the window size.
type Window struct {
	Start   time.Time
	Members []time.Time
}

// Passages returns the start followed by the members.
func (w Window) Passages() []time.Time {
	out := make([]time.Time, 0, len(w.Members)+1)
	out = append(out, w.Start)
	return append(out, w.Members...)
}

type WindowFee struct {
	Window Window
	Fee    int
}

type DailyTotal struct {
	Date    Day
	Windows []WindowFee
	Fee     int
}
