// Package solver implements the constraint-solving engine that assigns one
// section per required course so that the resulting weekly schedule has no
// time conflicts, respects hard availability blocks and credit bounds, and is
// ranked by a deterministic multi-criteria score.
//
// The pipeline is: index the catalog by course key, pre-filter each course's
// offerings against the hard filters, order courses so the most constrained
// one is searched first, run a backtracking search with conflict and
// availability pruning, deduplicate completed candidates by section set, and
// finally score and rank the survivors.
//
// The engine is pure and deterministic: it only reads the catalog snapshot it
// is handed, writes no shared state, and produces identical output for
// identical input.
package solver

import (
	"context"
	"fmt"

	"github.com/yigit/schedulepro/internal/app/models"
	"github.com/yigit/schedulepro/internal/pkg/apperrors"
)

const (
	// DefaultMaxResults bounds the number of candidates returned when the
	// request does not say otherwise. It is also the hard ceiling.
	DefaultMaxResults = 500

	// DefaultNodeBudget bounds the number of search transitions explored
	// before the engine gives up on pathological inputs.
	DefaultNodeBudget = 2_000_000
)

// Request carries the inputs of a single solve invocation.
type Request struct {
	// RequiredCourseKeys is the non-empty set of courses to schedule.
	RequiredCourseKeys []string
	// RequiredCRNs pins a specific CRN per course key. A pinned course's
	// candidate list is restricted to the single matching offering.
	RequiredCRNs map[string]string
	// Unavailable lists hard-unavailable time windows.
	Unavailable []models.AvailabilityBlock
	// Filters holds the hard pre-filters and scoring preferences.
	Filters models.ScheduleFilters
	// MinCredits and MaxCredits bound the candidate's total credits,
	// inclusive, when set.
	MinCredits *float64
	MaxCredits *float64
	// MaxResults caps the number of candidates. Zero means DefaultMaxResults;
	// values above the ceiling are clamped.
	MaxResults int
	// NodeBudget caps search transitions. Zero means DefaultNodeBudget.
	NodeBudget int
}

// Result is the outcome of a solve call. An empty candidate list is a normal
// outcome, not an error: either a course was unsatisfiable after filtering
// (named in UnsatisfiableCourses) or no conflict-free combination existed.
type Result struct {
	Candidates []models.ScheduleCandidate
	// Truncated is true when more feasible schedules existed than MaxResults
	// allowed, or when the node budget or deadline cut the search short.
	Truncated bool
	// Cancelled is true when the context deadline or the node budget stopped
	// the search before it finished. Accumulated candidates are still valid.
	Cancelled bool
	// UnsatisfiableCourses names required courses left with zero offerings
	// after filtering.
	UnsatisfiableCourses []string
	// NodesVisited counts search transitions, for diagnostics.
	NodesVisited int
}

// Solve runs the full pipeline against the given snapshot. It returns an
// error only for malformed input; infeasibility is reported through the
// Result.
func Solve(ctx context.Context, snapshot *models.CatalogSnapshot, req Request) (*Result, error) {
	req = withDefaults(req)

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	index, err := buildIndex(snapshot, req.RequiredCourseKeys)
	if err != nil {
		return nil, err
	}

	filtered, err := applyFilters(index, req)
	if err != nil {
		return nil, err
	}

	ordered := orderCourses(filtered)

	if unsat := unsatisfiableCourses(ordered, filtered); len(unsat) > 0 {
		return &Result{UnsatisfiableCourses: unsat}, nil
	}

	result := newSearch(ordered, filtered, req).run(ctx)

	rankCandidates(result.Candidates, &req.Filters)
	return result, nil
}

// withDefaults fills unset request knobs with their documented defaults and
// clamps MaxResults to the hard ceiling.
func withDefaults(req Request) Request {
	if req.MaxResults <= 0 || req.MaxResults > DefaultMaxResults {
		req.MaxResults = DefaultMaxResults
	}
	if req.NodeBudget <= 0 {
		req.NodeBudget = DefaultNodeBudget
	}
	if req.Filters.Status == nil {
		req.Filters.Status = []models.Status{models.StatusOpen}
	}
	return req
}

// validateRequest surfaces malformed input before any search is attempted.
func validateRequest(req Request) error {
	if len(req.RequiredCourseKeys) == 0 {
		return apperrors.NewValidationError("requiredCourseKeys must not be empty")
	}
	seen := make(map[string]struct{}, len(req.RequiredCourseKeys))
	for _, key := range req.RequiredCourseKeys {
		if key == "" {
			return apperrors.NewValidationError("required course key must not be empty")
		}
		if _, dup := seen[key]; dup {
			return apperrors.NewValidationError(fmt.Sprintf("duplicate required course key %q", key))
		}
		seen[key] = struct{}{}
	}
	if req.MinCredits != nil && req.MaxCredits != nil && *req.MinCredits > *req.MaxCredits {
		return &apperrors.CustomError{
			Err:     apperrors.ErrCreditBounds,
			Message: fmt.Sprintf("minCredits (%.1f) greater than maxCredits (%.1f)", *req.MinCredits, *req.MaxCredits),
		}
	}
	if !req.Filters.IncludeHonors && !req.Filters.IncludeNonHonors {
		return apperrors.ErrHonorsConflict
	}
	for course := range req.RequiredCRNs {
		if _, required := seen[course]; !required {
			return apperrors.NewValidationError(fmt.Sprintf("requiredCrns references %q, which is not a required course", course))
		}
	}
	for _, b := range req.Unavailable {
		if !b.Day.Valid() {
			return apperrors.NewValidationError(fmt.Sprintf("invalid day %q in unavailable block", b.Day))
		}
		if b.StartMin < 0 || b.EndMin > 1440 || b.StartMin >= b.EndMin {
			return apperrors.NewValidationError(fmt.Sprintf("invalid unavailable interval [%d, %d)", b.StartMin, b.EndMin))
		}
	}
	return nil
}
