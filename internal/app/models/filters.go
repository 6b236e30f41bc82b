package models

// ScheduleFilters enumerates every recognized hard pre-filter and scoring
// preference for schedule generation. The zero value is not usable directly;
// DefaultScheduleFilters supplies the documented defaults.
type ScheduleFilters struct {
	// Status keeps only offerings whose status is in the set. Default: {Open}.
	Status []Status `json:"status"`
	// Delivery keeps only offerings whose delivery mode is in the set.
	// Empty means all modes are allowed.
	Delivery []DeliveryMode `json:"delivery,omitempty"`
	// CampusInclude keeps offerings with at least one meeting whose location
	// contains one of the tokens. CampusExclude drops offerings with any
	// matching meeting location. Matching is case-insensitive.
	CampusInclude []string `json:"campusInclude,omitempty"`
	CampusExclude []string `json:"campusExclude,omitempty"`
	// AvoidInstructors drops matching offerings outright; PreferInstructors
	// only affects scoring.
	AvoidInstructors  []string `json:"avoidInstructors,omitempty"`
	PreferInstructors []string `json:"preferInstructors,omitempty"`
	// EarliestStart and LatestEnd bound every meeting of a surviving
	// offering, in minutes from midnight.
	EarliestStart *int `json:"earliestStart,omitempty"`
	LatestEnd     *int `json:"latestEnd,omitempty"`
	// MaxGapMin caps the idle time between consecutive same-day meetings.
	MaxGapMin *int `json:"maxGapMin,omitempty"`
	// Honors toggles. At least one must remain true.
	IncludeHonors    bool `json:"includeHonors"`
	IncludeNonHonors bool `json:"includeNonHonors"`
}

// DefaultScheduleFilters returns the documented filter defaults: open
// sections only, every delivery mode, both honors and non-honors sections.
func DefaultScheduleFilters() ScheduleFilters {
	return ScheduleFilters{
		Status:           []Status{StatusOpen},
		IncludeHonors:    true,
		IncludeNonHonors: true,
	}
}

// StatusAllowed reports whether s is a member of the configured status set.
func (f *ScheduleFilters) StatusAllowed(s Status) bool {
	for _, allowed := range f.Status {
		if allowed == s {
			return true
		}
	}
	return false
}

// DeliveryAllowed reports whether d is allowed. An empty delivery set allows
// every mode.
func (f *ScheduleFilters) DeliveryAllowed(d DeliveryMode) bool {
	if len(f.Delivery) == 0 {
		return true
	}
	for _, allowed := range f.Delivery {
		if allowed == d {
			return true
		}
	}
	return false
}
