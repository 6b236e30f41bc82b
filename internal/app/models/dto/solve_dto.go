package dto

import (
	"github.com/yigit/schedulepro/internal/app/models"
	"github.com/yigit/schedulepro/internal/app/solver"
)

// SolveRequest represents a schedule generation request
type SolveRequest struct {
	// Courses lists the required course keys, e.g. "CS114".
	Courses []string `json:"courses" binding:"required,min=1"`
	// RequiredCrns pins a specific CRN per course key.
	RequiredCrns map[string]string          `json:"requiredCrns,omitempty"`
	Unavailable  []models.AvailabilityBlock `json:"unavailable,omitempty"`
	Filters      *ScheduleFiltersRequest    `json:"filters,omitempty"`
	MinCredits   *float64                   `json:"minCredits,omitempty" binding:"omitempty,min=0"`
	MaxCredits   *float64                   `json:"maxCredits,omitempty" binding:"omitempty,min=0"`
	MaxResults   int                        `json:"maxResults,omitempty" binding:"omitempty,min=1"`
}

// ScheduleFiltersRequest represents the optional hard filters and scoring
// preferences of a solve request. Honors toggles use pointers so that an
// omitted field keeps its default of true.
type ScheduleFiltersRequest struct {
	Status            []models.Status       `json:"status,omitempty"`
	Delivery          []models.DeliveryMode `json:"delivery,omitempty"`
	CampusInclude     []string              `json:"campusInclude,omitempty"`
	CampusExclude     []string              `json:"campusExclude,omitempty"`
	AvoidInstructors  []string              `json:"avoidInstructors,omitempty"`
	PreferInstructors []string              `json:"preferInstructors,omitempty"`
	EarliestStart     *int                  `json:"earliestStart,omitempty" binding:"omitempty,min=0,max=1440"`
	LatestEnd         *int                  `json:"latestEnd,omitempty" binding:"omitempty,min=0,max=1440"`
	MaxGapMin         *int                  `json:"maxGapMin,omitempty" binding:"omitempty,min=0"`
	IncludeHonors     *bool                 `json:"includeHonors,omitempty"`
	IncludeNonHonors  *bool                 `json:"includeNonHonors,omitempty"`
}

// ToModel converts the request filters to the solver's filter model,
// applying documented defaults for omitted fields.
func (f *ScheduleFiltersRequest) ToModel() models.ScheduleFilters {
	filters := models.DefaultScheduleFilters()
	if f == nil {
		return filters
	}
	if len(f.Status) > 0 {
		filters.Status = f.Status
	}
	filters.Delivery = f.Delivery
	filters.CampusInclude = f.CampusInclude
	filters.CampusExclude = f.CampusExclude
	filters.AvoidInstructors = f.AvoidInstructors
	filters.PreferInstructors = f.PreferInstructors
	filters.EarliestStart = f.EarliestStart
	filters.LatestEnd = f.LatestEnd
	filters.MaxGapMin = f.MaxGapMin
	if f.IncludeHonors != nil {
		filters.IncludeHonors = *f.IncludeHonors
	}
	if f.IncludeNonHonors != nil {
		filters.IncludeNonHonors = *f.IncludeNonHonors
	}
	return filters
}

// ToSolverRequest maps the API request onto the engine's request type.
func (r *SolveRequest) ToSolverRequest() solver.Request {
	return solver.Request{
		RequiredCourseKeys: r.Courses,
		RequiredCRNs:       r.RequiredCrns,
		Unavailable:        r.Unavailable,
		Filters:            r.Filters.ToModel(),
		MinCredits:         r.MinCredits,
		MaxCredits:         r.MaxCredits,
		MaxResults:         r.MaxResults,
	}
}

// ScheduleResponse represents one generated conflict-free schedule
type ScheduleResponse struct {
	Crns         []string          `json:"crns"`
	Offerings    []*models.Offering `json:"offerings"`
	TotalCredits float64           `json:"totalCredits"`
	Score        float64           `json:"score"`
}

// SolveResponse represents the outcome of a solve request
type SolveResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	Count     int                `json:"count"`
	// Truncated reports that more feasible schedules existed than the
	// result cap allowed, or that the search was cut short.
	Truncated            bool     `json:"truncated"`
	Cancelled            bool     `json:"cancelled"`
	UnsatisfiableCourses []string `json:"unsatisfiableCourses,omitempty"`
	NodesVisited         int      `json:"nodesVisited"`
}

// NewSolveResponse maps an engine result onto the API response.
func NewSolveResponse(result *solver.Result) *SolveResponse {
	schedules := make([]ScheduleResponse, 0, len(result.Candidates))
	for i := range result.Candidates {
		c := &result.Candidates[i]
		crns := make([]string, len(c.Offerings))
		for j, o := range c.Offerings {
			crns[j] = o.CRN
		}
		schedules = append(schedules, ScheduleResponse{
			Crns:         crns,
			Offerings:    c.Offerings,
			TotalCredits: c.TotalCredits,
			Score:        c.Score,
		})
	}
	return &SolveResponse{
		Schedules:            schedules,
		Count:                len(schedules),
		Truncated:            result.Truncated,
		Cancelled:            result.Cancelled,
		UnsatisfiableCourses: result.UnsatisfiableCourses,
		NodesVisited:         result.NodesVisited,
	}
}
