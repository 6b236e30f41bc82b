package solver

import (
	"fmt"
	"strings"

	"github.com/yigit/schedulepro/internal/app/models"
	"github.com/yigit/schedulepro/internal/pkg/apperrors"
)

// applyFilters prunes each course's offering list against the hard filters
// and the request-level CRN pins. It is pure: the input index is not
// modified. A pinned CRN must belong to its course's offerings; a pin that
// survives no other filter leaves the course empty, which the search reports
// as unsatisfiable rather than as an error.
func applyFilters(index map[string][]*models.Offering, req Request) (map[string][]*models.Offering, error) {
	filtered := make(map[string][]*models.Offering, len(index))
	for course, offerings := range index {
		kept := make([]*models.Offering, 0, len(offerings))
		for _, o := range offerings {
			if offeringPasses(o, &req.Filters) {
				kept = append(kept, o)
			}
		}
		filtered[course] = kept
	}

	for course, crn := range req.RequiredCRNs {
		if err := pinCourse(filtered, index, course, crn); err != nil {
			return nil, err
		}
	}
	return filtered, nil
}

// pinCourse restricts a course's candidate list to the single offering with
// the pinned CRN. Membership is checked against the unfiltered list so the
// caller learns the difference between a wrong CRN (an error) and a pin
// removed by their own filters (an empty search space).
func pinCourse(filtered, index map[string][]*models.Offering, course, crn string) error {
	found := false
	for _, o := range index[course] {
		if o.CRN == crn {
			found = true
			break
		}
	}
	if !found {
		return &apperrors.CustomError{
			Err:     apperrors.ErrCRNNotInCourse,
			Message: fmt.Sprintf("CRN %s does not belong to any offering of %s", crn, course),
		}
	}

	kept := filtered[course][:0:0]
	for _, o := range filtered[course] {
		if o.CRN == crn {
			kept = append(kept, o)
		}
	}
	filtered[course] = kept
	return nil
}

// offeringPasses applies every hard filter to a single offering.
func offeringPasses(o *models.Offering, f *models.ScheduleFilters) bool {
	if !f.StatusAllowed(o.Status) {
		return false
	}
	if !f.DeliveryAllowed(o.Delivery) {
		return false
	}
	if o.Instructor != nil && matchesAny(*o.Instructor, f.AvoidInstructors) {
		return false
	}
	if len(o.Meetings) > 0 {
		if len(f.CampusExclude) > 0 && anyLocationMatches(o.Meetings, f.CampusExclude) {
			return false
		}
		if len(f.CampusInclude) > 0 && !anyLocationMatches(o.Meetings, f.CampusInclude) {
			return false
		}
	}
	if f.EarliestStart != nil || f.LatestEnd != nil {
		for _, m := range o.Meetings {
			if f.EarliestStart != nil && m.StartMin < *f.EarliestStart {
				return false
			}
			if f.LatestEnd != nil && m.EndMin > *f.LatestEnd {
				return false
			}
		}
	}
	if o.IsHonors() && !f.IncludeHonors {
		return false
	}
	if !o.IsHonors() && !f.IncludeNonHonors {
		return false
	}
	return true
}

// matchesAny reports whether value contains any of the tokens,
// case-insensitively.
func matchesAny(value string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	lower := strings.ToLower(value)
	for _, token := range tokens {
		if token != "" && strings.Contains(lower, strings.ToLower(token)) {
			return true
		}
	}
	return false
}

// anyLocationMatches reports whether any meeting location contains one of the
// campus tokens.
func anyLocationMatches(meetings []models.Meeting, tokens []string) bool {
	for _, m := range meetings {
		if m.Location != nil && matchesAny(*m.Location, tokens) {
			return true
		}
	}
	return false
}
