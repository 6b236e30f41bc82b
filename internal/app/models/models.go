package models

// DayOfWeek identifies the weekday of a recurring meeting.
type DayOfWeek string

// Weekday constants, matching the short names used in catalog exports.
const (
	DayMonday    DayOfWeek = "Mon"
	DayTuesday   DayOfWeek = "Tue"
	DayWednesday DayOfWeek = "Wed"
	DayThursday  DayOfWeek = "Thu"
	DayFriday    DayOfWeek = "Fri"
	DaySaturday  DayOfWeek = "Sat"
	DaySunday    DayOfWeek = "Sun"
)

// AllDays lists every weekday in calendar order.
var AllDays = []DayOfWeek{
	DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday,
}

// Valid reports whether d is one of the seven recognized weekdays.
func (d DayOfWeek) Valid() bool {
	switch d {
	case DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday:
		return true
	}
	return false
}

// Status represents the registration status of a section.
type Status string

// Section status constants.
const (
	StatusOpen     Status = "Open"
	StatusClosed   Status = "Closed"
	StatusWaitlist Status = "Waitlist"
)

// DeliveryMode represents how a section is delivered.
type DeliveryMode string

// Delivery mode constants.
const (
	DeliveryInPerson DeliveryMode = "In-Person"
	DeliveryOnline   DeliveryMode = "Online"
	DeliveryHybrid   DeliveryMode = "Hybrid"
	DeliveryAsync    DeliveryMode = "Async"
)

// AllDeliveryModes lists every recognized delivery mode.
var AllDeliveryModes = []DeliveryMode{
	DeliveryInPerson, DeliveryOnline, DeliveryHybrid, DeliveryAsync,
}
