package solver

import (
	"sort"

	"github.com/yigit/schedulepro/internal/app/models"
)

// orderCourses sorts course keys ascending by post-filter offering count,
// breaking ties lexicographically. Searching the most constrained course
// first maximizes early pruning, bounding the effective branching factor of
// the backtracking tree.
func orderCourses(filtered map[string][]*models.Offering) []string {
	ordered := make([]string, 0, len(filtered))
	for course := range filtered {
		ordered = append(ordered, course)
	}
	sort.Slice(ordered, func(i, j int) bool {
		ni, nj := len(filtered[ordered[i]]), len(filtered[ordered[j]])
		if ni != nj {
			return ni < nj
		}
		return ordered[i] < ordered[j]
	})
	return ordered
}

// unsatisfiableCourses names every course left with zero offerings after
// filtering, in search order. A non-empty result short-circuits the search:
// the solve call returns a normal empty outcome with this diagnostic.
func unsatisfiableCourses(ordered []string, filtered map[string][]*models.Offering) []string {
	var unsat []string
	for _, course := range ordered {
		if len(filtered[course]) == 0 {
			unsat = append(unsat, course)
		}
	}
	return unsat
}
