package models

import "strings"

// Offering represents one schedulable section of a course, with its meetings
// and registration metadata. Offerings are immutable for the duration of a
// solve call.
type Offering struct {
	ID         int64        `json:"-" db:"id"`
	CRN        string       `json:"crn" db:"crn"`
	CourseKey  string       `json:"courseKey" db:"course_key"`
	Section    string       `json:"section" db:"section"`
	Title      string       `json:"title" db:"title"`
	Term       *string      `json:"term,omitempty" db:"term"`
	Meetings   []Meeting    `json:"meetings"`
	Status     Status       `json:"status" db:"status"`
	Delivery   DeliveryMode `json:"delivery" db:"delivery"`
	Instructor *string      `json:"instructor,omitempty" db:"instructor"`
	Capacity   *int         `json:"capacity,omitempty" db:"capacity"`
	Enrolled   *int         `json:"enrolled,omitempty" db:"enrolled"`
	Credits    *float64     `json:"credits,omitempty" db:"credits"`
	Info       *string      `json:"info,omitempty" db:"info"`
	Comments   *string      `json:"comments,omitempty" db:"comments"`
}

// SeatsAvailable returns the number of open seats, or nil when capacity or
// enrollment is unknown.
func (o *Offering) SeatsAvailable() *int {
	if o.Capacity == nil || o.Enrolled == nil {
		return nil
	}
	seats := *o.Capacity - *o.Enrolled
	if seats < 0 {
		seats = 0
	}
	return &seats
}

// IsHonors reports whether this is an honors section. Honors sections carry a
// section label beginning with 'H'.
func (o *Offering) IsHonors() bool {
	return strings.HasPrefix(strings.ToUpper(o.Section), "H")
}

// ConflictsWith reports whether any meeting of this offering overlaps a
// meeting of the other offering on the same day.
func (o *Offering) ConflictsWith(other *Offering) bool {
	for _, m := range o.Meetings {
		for _, n := range other.Meetings {
			if m.Overlaps(n) {
				return true
			}
		}
	}
	return false
}
