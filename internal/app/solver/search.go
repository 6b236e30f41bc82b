package solver

import (
	"context"
	"sort"

	"github.com/yigit/schedulepro/internal/app/models"
)

// cancelCheckInterval is how many transitions pass between cooperative
// cancellation checks. Checking ctx.Err on every node would dominate the
// cost of the cheap interval tests.
const cancelCheckInterval = 2048

// interval is a half-open [start, end) minute range on a single day.
type interval struct {
	start, end int
}

// search holds the engine state for one solve invocation. One frame of the
// explicit stack corresponds to one required course; chosen is the single
// mutable partial schedule shared across frames, pushed and popped as the
// search enters and leaves each level.
type search struct {
	courses []string
	options map[string][]*models.Offering
	unavail map[models.DayOfWeek][]interval
	maxGap  *int
	minCred *float64
	maxCred *float64
	maxOut  int
	budget  int

	chosen      []*models.Offering
	dayMeetings map[models.DayOfWeek][]interval
	seen        map[string]struct{}
	out         []models.ScheduleCandidate
	nodes       int
	truncated   bool
	cancelled   bool
}

func newSearch(ordered []string, filtered map[string][]*models.Offering, req Request) *search {
	unavail := make(map[models.DayOfWeek][]interval)
	for _, b := range req.Unavailable {
		unavail[b.Day] = append(unavail[b.Day], interval{b.StartMin, b.EndMin})
	}
	return &search{
		courses:     ordered,
		options:     filtered,
		unavail:     unavail,
		maxGap:      req.Filters.MaxGapMin,
		minCred:     req.MinCredits,
		maxCred:     req.MaxCredits,
		maxOut:      req.MaxResults,
		budget:      req.NodeBudget,
		chosen:      make([]*models.Offering, 0, len(ordered)),
		dayMeetings: make(map[models.DayOfWeek][]interval),
		seen:        make(map[string]struct{}),
	}
}

// run drives the backtracking search with an explicit stack: next[d] is the
// index of the next offering to try for the course at depth d, and the
// invariant len(chosen) == d holds at the top of every iteration.
func (s *search) run(ctx context.Context) *Result {
	depthCount := len(s.courses)
	next := make([]int, depthCount)
	d := 0

search:
	for d >= 0 {
		if d == depthCount {
			if stop := s.accept(); stop {
				break
			}
			d--
			s.pop()
			continue
		}

		course := s.courses[d]
		options := s.options[course]
		advanced := false
		for next[d] < len(options) {
			offering := options[next[d]]
			next[d]++
			s.nodes++
			if s.nodes%cancelCheckInterval == 0 && s.abort(ctx) {
				break search
			}
			if !s.fits(offering) {
				continue
			}
			s.push(offering)
			d++
			if d < depthCount {
				next[d] = 0
			}
			advanced = true
			break
		}
		if !advanced {
			d--
			if d >= 0 {
				s.pop()
			}
		}
	}

	return &Result{
		Candidates:   s.out,
		Truncated:    s.truncated,
		Cancelled:    s.cancelled,
		NodesVisited: s.nodes,
	}
}

// abort reports whether the deadline or node budget has been exhausted.
// Aborting never corrupts accumulated candidates; it only stops the search.
func (s *search) abort(ctx context.Context) bool {
	if ctx.Err() != nil || s.nodes >= s.budget {
		s.cancelled = true
		s.truncated = true
		return true
	}
	return false
}

// fits applies the conflict, availability and gap-cap tests for a candidate
// offering against the current partial schedule.
func (s *search) fits(o *models.Offering) bool {
	for _, m := range o.Meetings {
		for _, iv := range s.dayMeetings[m.Day] {
			if m.StartMin < iv.end && m.EndMin > iv.start {
				return false
			}
		}
		for _, iv := range s.unavail[m.Day] {
			// Strict: a single shared minute excludes the offering.
			if m.StartMin < iv.end && m.EndMin > iv.start {
				return false
			}
		}
	}
	if s.maxGap != nil && s.createsExcessGap(o) {
		return false
	}
	return true
}

// createsExcessGap reports whether inserting the offering would leave, on any
// day it touches, a gap between consecutive meetings exceeding the cap. The
// check is incremental per day: days the offering does not touch were already
// validated when their meetings were pushed.
func (s *search) createsExcessGap(o *models.Offering) bool {
	byDay := make(map[models.DayOfWeek][]interval)
	for _, m := range o.Meetings {
		byDay[m.Day] = append(byDay[m.Day], interval{m.StartMin, m.EndMin})
	}
	for day, added := range byDay {
		merged := append(append([]interval{}, s.dayMeetings[day]...), added...)
		sort.Slice(merged, func(i, j int) bool { return merged[i].start < merged[j].start })
		for i := 1; i < len(merged); i++ {
			if gap := merged[i].start - merged[i-1].end; gap > *s.maxGap {
				return true
			}
		}
	}
	return false
}

// push adds an offering to the partial schedule.
func (s *search) push(o *models.Offering) {
	s.chosen = append(s.chosen, o)
	for _, m := range o.Meetings {
		s.dayMeetings[m.Day] = append(s.dayMeetings[m.Day], interval{m.StartMin, m.EndMin})
	}
}

// pop removes the most recently pushed offering.
func (s *search) pop() {
	last := s.chosen[len(s.chosen)-1]
	s.chosen = s.chosen[:len(s.chosen)-1]
	for _, m := range last.Meetings {
		day := s.dayMeetings[m.Day]
		s.dayMeetings[m.Day] = day[:len(day)-1]
	}
}

// accept validates a complete assignment and records it. A credits violation
// or a duplicate section set rejects this specific acceptance only; the
// search keeps unwinding normally. accept returns true when the search must
// stop because one more candidate would exceed the result cap.
func (s *search) accept() bool {
	var total float64
	for _, o := range s.chosen {
		if o.Credits != nil {
			total += *o.Credits
		}
	}
	if s.minCred != nil && total < *s.minCred {
		return false
	}
	if s.maxCred != nil && total > *s.maxCred {
		return false
	}

	candidate := models.ScheduleCandidate{
		Offerings:    append([]*models.Offering{}, s.chosen...),
		TotalCredits: total,
	}
	sig := candidate.Signature()
	if _, dup := s.seen[sig]; dup {
		return false
	}

	if len(s.out) >= s.maxOut {
		// A further feasible schedule exists beyond the cap.
		s.truncated = true
		return true
	}
	s.seen[sig] = struct{}{}
	s.out = append(s.out, candidate)
	return false
}
