package models

import (
	"sort"
	"strings"
)

// ScheduleCandidate is one complete, conflict-free assignment of exactly one
// offering per required course. Candidates are created and destroyed within a
// single solve invocation; downstream consumers must not mutate them.
type ScheduleCandidate struct {
	Offerings    []*Offering `json:"offerings"`
	TotalCredits float64     `json:"totalCredits"`
	// Score ranks candidates; lower is better.
	Score float64 `json:"score"`
}

// Signature returns the deduplication key of the candidate: its CRNs, sorted
// and joined. Two candidates with the same section set share a signature
// regardless of assignment order.
func (c *ScheduleCandidate) Signature() string {
	crns := make([]string, len(c.Offerings))
	for i, o := range c.Offerings {
		crns[i] = o.CRN
	}
	sort.Strings(crns)
	return strings.Join(crns, ",")
}
