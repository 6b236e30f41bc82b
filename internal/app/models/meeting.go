package models

// Meeting is one recurring weekly time block belonging to an offering.
// StartMin and EndMin are minutes from midnight and StartMin < EndMin is
// guaranteed by the catalog normalizer.
type Meeting struct {
	Day      DayOfWeek `json:"day" db:"day"`
	StartMin int       `json:"startMin" db:"start_min"`
	EndMin   int       `json:"endMin" db:"end_min"`
	Location *string   `json:"location,omitempty" db:"location"`
}

// Overlaps reports whether two meetings intersect on the same day.
// Intervals are half-open, so a meeting ending exactly when another starts
// does not overlap.
func (m Meeting) Overlaps(other Meeting) bool {
	if m.Day != other.Day {
		return false
	}
	return m.StartMin < other.EndMin && m.EndMin > other.StartMin
}

// OverlapsInterval reports whether the meeting intersects the half-open
// interval [start, end) on its own day.
func (m Meeting) OverlapsInterval(start, end int) bool {
	return m.StartMin < end && m.EndMin > start
}

// AvailabilityBlock is a caller-declared hard-unavailable time window. It is
// owned by the solve request, not the catalog.
type AvailabilityBlock struct {
	Day      DayOfWeek `json:"day"`
	StartMin int       `json:"startMin"`
	EndMin   int       `json:"endMin"`
}
