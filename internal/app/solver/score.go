package solver

import (
	"hash/fnv"
	"sort"
	"strconv"

	"github.com/yigit/schedulepro/internal/app/models"
)

// Scoring weights. The gap term must dominate the instructor term, which
// must dominate the seat term, under realistic value ranges: an order of
// magnitude between each keeps a single idle minute worth more than any
// instructor preference swing.
const (
	gapWeight       = 1000.0
	avoidPenalty    = 100.0
	preferBonus     = 50.0
	fullnessPenalty = 1.0
)

// rankCandidates scores every candidate in place and sorts ascending by
// (score, CRN sum). Lower scores are better; the CRN-sum tie-break makes the
// ordering reproducible for identical inputs.
func rankCandidates(candidates []models.ScheduleCandidate, filters *models.ScheduleFilters) {
	sums := make([]uint64, len(candidates))
	for i := range candidates {
		candidates[i].Score = scoreCandidate(&candidates[i], filters)
		sums[i] = crnSum(candidates[i].Offerings)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score < candidates[j].Score
		}
		return sums[i] < sums[j]
	})
}

// scoreCandidate computes the deterministic score of one candidate:
// idle minutes between same-day meetings weighted heaviest, then instructor
// avoid/prefer hits per meeting, then seat fullness per offering.
func scoreCandidate(c *models.ScheduleCandidate, filters *models.ScheduleFilters) float64 {
	score := float64(totalGapMinutes(c.Offerings)) * gapWeight

	for _, o := range c.Offerings {
		if o.Instructor != nil {
			hits := float64(len(o.Meetings))
			if matchesAny(*o.Instructor, filters.AvoidInstructors) {
				score += hits * avoidPenalty
			}
			if matchesAny(*o.Instructor, filters.PreferInstructors) {
				score -= hits * preferBonus
			}
		}
		score += fullness(o) * fullnessPenalty
	}
	return score
}

// totalGapMinutes sums, over each day with at least two meetings, the idle
// minutes between consecutive meetings sorted by start time.
func totalGapMinutes(offerings []*models.Offering) int {
	byDay := make(map[models.DayOfWeek][]interval)
	for _, o := range offerings {
		for _, m := range o.Meetings {
			byDay[m.Day] = append(byDay[m.Day], interval{m.StartMin, m.EndMin})
		}
	}

	total := 0
	for _, meetings := range byDay {
		if len(meetings) < 2 {
			continue
		}
		sort.Slice(meetings, func(i, j int) bool { return meetings[i].start < meetings[j].start })
		for i := 1; i < len(meetings); i++ {
			if gap := meetings[i].start - meetings[i-1].end; gap > 0 {
				total += gap
			}
		}
	}
	return total
}

// fullness returns enrolled/capacity for one offering, treated as 0 when
// capacity is missing or zero. Fuller sections score worse.
func fullness(o *models.Offering) float64 {
	if o.Capacity == nil || *o.Capacity <= 0 || o.Enrolled == nil {
		return 0
	}
	f := float64(*o.Enrolled) / float64(*o.Capacity)
	if f < 0 {
		return 0
	}
	return f
}

// crnSum adds the candidate's CRNs as integers. Non-numeric CRNs contribute
// a stable FNV-1a hash instead, so the tie-break stays deterministic for any
// catalog.
func crnSum(offerings []*models.Offering) uint64 {
	var sum uint64
	for _, o := range offerings {
		if n, err := strconv.ParseUint(o.CRN, 10, 64); err == nil {
			sum += n
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(o.CRN))
		sum += uint64(h.Sum32())
	}
	return sum
}
