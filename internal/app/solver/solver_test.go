package solver

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schedulepro/internal/app/models"
	"github.com/yigit/schedulepro/internal/pkg/apperrors"
)

func mtg(day models.DayOfWeek, start, end int) models.Meeting {
	return models.Meeting{Day: day, StartMin: start, EndMin: end}
}

func offering(crn, course string, credits float64, meetings ...models.Meeting) *models.Offering {
	return &models.Offering{
		CRN:       crn,
		CourseKey: course,
		Section:   "001",
		Title:     course,
		Meetings:  meetings,
		Status:    models.StatusOpen,
		Delivery:  models.DeliveryInPerson,
		Credits:   &credits,
	}
}

func snapshotOf(offerings ...*models.Offering) *models.CatalogSnapshot {
	return models.NewCatalogSnapshot(offerings, nil)
}

func solveRequest(keys ...string) Request {
	return Request{
		RequiredCourseKeys: keys,
		Filters:            models.DefaultScheduleFilters(),
	}
}

func candidateCRNs(c models.ScheduleCandidate) []string {
	crns := make([]string, len(c.Offerings))
	for i, o := range c.Offerings {
		crns[i] = o.CRN
	}
	return crns
}

func TestSolveSingleCourse(t *testing.T) {
	snapshot := snapshotOf(
		offering("1001", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
	)

	result, err := Solve(context.Background(), snapshot, solveRequest("CS 100"))
	require.NoError(t, err)

	require.Len(t, result.Candidates, 1)
	assert.Equal(t, 3.0, result.Candidates[0].TotalCredits)
	assert.False(t, result.Truncated)
	assert.False(t, result.Cancelled)
	assert.Empty(t, result.UnsatisfiableCourses)
}

func TestSolveAdjacentMeetingsDoNotConflict(t *testing.T) {
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
		offering("2", "MATH 111", 4, mtg(models.DayMonday, 570, 630)), // overlaps CRN 1
		offering("3", "MATH 111", 4, mtg(models.DayMonday, 600, 660)), // back-to-back with CRN 1
	)

	result, err := Solve(context.Background(), snapshot, solveRequest("CS 100", "MATH 111"))
	require.NoError(t, err)

	require.Len(t, result.Candidates, 1)
	assert.ElementsMatch(t, []string{"1", "3"}, candidateCRNs(result.Candidates[0]))
}

func TestSolveAvailabilityBlockIsStrict(t *testing.T) {
	// The meeting sits entirely inside the block's last hour; any shared
	// minute is enough to exclude it.
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayTuesday, 840, 900)),
	)

	req := solveRequest("CS 100")
	req.Unavailable = []models.AvailabilityBlock{
		{Day: models.DayTuesday, StartMin: 780, EndMin: 900},
	}
	result, err := Solve(context.Background(), snapshot, req)
	require.NoError(t, err)

	assert.Empty(t, result.Candidates)
	assert.False(t, result.Truncated)
}

func TestSolveAvailabilityBlockSingleMinuteOverlap(t *testing.T) {
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayMonday, 599, 660)),
		offering("2", "CS 100", 3, mtg(models.DayMonday, 600, 660)),
	)

	req := solveRequest("CS 100")
	req.Unavailable = []models.AvailabilityBlock{
		{Day: models.DayMonday, StartMin: 540, EndMin: 600},
	}
	result, err := Solve(context.Background(), snapshot, req)
	require.NoError(t, err)

	// CRN 1 starts one minute inside the block; CRN 2 starts exactly when
	// the block ends and survives.
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, []string{"2"}, candidateCRNs(result.Candidates[0]))
}

func TestSolveTruncatedAtMaxResults(t *testing.T) {
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
		offering("2", "CS 100", 3, mtg(models.DayTuesday, 540, 600)),
		offering("3", "CS 100", 3, mtg(models.DayWednesday, 540, 600)),
	)

	req := solveRequest("CS 100")
	req.MaxResults = 1
	result, err := Solve(context.Background(), snapshot, req)
	require.NoError(t, err)

	assert.Len(t, result.Candidates, 1)
	assert.True(t, result.Truncated)
	assert.False(t, result.Cancelled)
}

func TestSolveExactlyMaxResultsNotTruncated(t *testing.T) {
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
		offering("2", "CS 100", 3, mtg(models.DayTuesday, 540, 600)),
		offering("3", "CS 100", 3, mtg(models.DayWednesday, 540, 600)),
	)

	req := solveRequest("CS 100")
	req.MaxResults = 3
	result, err := Solve(context.Background(), snapshot, req)
	require.NoError(t, err)

	assert.Len(t, result.Candidates, 3)
	assert.False(t, result.Truncated)
}

func TestSolveDeduplicatesBySectionSet(t *testing.T) {
	// Duplicate catalog rows sharing a CRN produce identical section sets;
	// only one candidate survives.
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
		offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
	)

	result, err := Solve(context.Background(), snapshot, solveRequest("CS 100"))
	require.NoError(t, err)

	assert.Len(t, result.Candidates, 1)
}

func TestSolveEmptyCatalog(t *testing.T) {
	_, err := Solve(context.Background(), snapshotOf(), solveRequest("CS 100"))
	assert.ErrorIs(t, err, apperrors.ErrCatalogEmpty)
}

func TestSolveUnknownCourse(t *testing.T) {
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
	)

	_, err := Solve(context.Background(), snapshot, solveRequest("CS 100", "BIO 201"))
	require.ErrorIs(t, err, apperrors.ErrUnknownCourse)
	assert.Contains(t, err.Error(), "BIO 201")
}

func TestSolveValidation(t *testing.T) {
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
	)
	three, five := 3.0, 5.0

	tests := []struct {
		name    string
		build   func() Request
		wantErr error
	}{
		{
			name:    "empty course list",
			build:   func() Request { return solveRequest() },
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "blank course key",
			build:   func() Request { return solveRequest("") },
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "duplicate course key",
			build:   func() Request { return solveRequest("CS 100", "CS 100") },
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name: "inverted credit bounds",
			build: func() Request {
				req := solveRequest("CS 100")
				req.MinCredits, req.MaxCredits = &five, &three
				return req
			},
			wantErr: apperrors.ErrCreditBounds,
		},
		{
			name: "both honors toggles off",
			build: func() Request {
				req := solveRequest("CS 100")
				req.Filters.IncludeHonors = false
				req.Filters.IncludeNonHonors = false
				return req
			},
			wantErr: apperrors.ErrHonorsConflict,
		},
		{
			name: "pin references non-required course",
			build: func() Request {
				req := solveRequest("CS 100")
				req.RequiredCRNs = map[string]string{"MATH 111": "2"}
				return req
			},
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name: "invalid unavailable day",
			build: func() Request {
				req := solveRequest("CS 100")
				req.Unavailable = []models.AvailabilityBlock{
					{Day: "Funday", StartMin: 540, EndMin: 600},
				}
				return req
			},
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name: "inverted unavailable interval",
			build: func() Request {
				req := solveRequest("CS 100")
				req.Unavailable = []models.AvailabilityBlock{
					{Day: models.DayMonday, StartMin: 600, EndMin: 540},
				}
				return req
			},
			wantErr: apperrors.ErrValidationFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Solve(context.Background(), snapshot, tt.build())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSolveUnsatisfiableAfterFilters(t *testing.T) {
	closed := offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600))
	closed.Status = models.StatusClosed
	snapshot := snapshotOf(
		closed,
		offering("2", "MATH 111", 4, mtg(models.DayTuesday, 540, 600)),
	)

	result, err := Solve(context.Background(), snapshot, solveRequest("CS 100", "MATH 111"))
	require.NoError(t, err)

	assert.Empty(t, result.Candidates)
	assert.Equal(t, []string{"CS 100"}, result.UnsatisfiableCourses)
}

func TestSolveRequiredCrnPin(t *testing.T) {
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
		offering("2", "CS 100", 3, mtg(models.DayTuesday, 540, 600)),
	)

	req := solveRequest("CS 100")
	req.RequiredCRNs = map[string]string{"CS 100": "2"}
	result, err := Solve(context.Background(), snapshot, req)
	require.NoError(t, err)

	require.Len(t, result.Candidates, 1)
	assert.Equal(t, []string{"2"}, candidateCRNs(result.Candidates[0]))
}

func TestSolveRequiredCrnWrongCourse(t *testing.T) {
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
	)

	req := solveRequest("CS 100")
	req.RequiredCRNs = map[string]string{"CS 100": "9999"}
	_, err := Solve(context.Background(), snapshot, req)
	assert.ErrorIs(t, err, apperrors.ErrCRNNotInCourse)
}

func TestSolvePinRemovedByOwnFilters(t *testing.T) {
	// The pinned CRN exists but is Closed; under the default Open-only
	// filter the course becomes unsatisfiable rather than erroring.
	closed := offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600))
	closed.Status = models.StatusClosed
	snapshot := snapshotOf(
		closed,
		offering("2", "CS 100", 3, mtg(models.DayTuesday, 540, 600)),
	)

	req := solveRequest("CS 100")
	req.RequiredCRNs = map[string]string{"CS 100": "1"}
	result, err := Solve(context.Background(), snapshot, req)
	require.NoError(t, err)

	assert.Empty(t, result.Candidates)
	assert.Equal(t, []string{"CS 100"}, result.UnsatisfiableCourses)
}

func TestSolveMaxGapCap(t *testing.T) {
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
		offering("2", "MATH 111", 4, mtg(models.DayMonday, 630, 690)), // 30 minute gap
		offering("3", "MATH 111", 4, mtg(models.DayMonday, 780, 840)), // 180 minute gap
	)
	maxGap := 60

	req := solveRequest("CS 100", "MATH 111")
	req.Filters.MaxGapMin = &maxGap
	result, err := Solve(context.Background(), snapshot, req)
	require.NoError(t, err)

	require.Len(t, result.Candidates, 1)
	assert.ElementsMatch(t, []string{"1", "2"}, candidateCRNs(result.Candidates[0]))
}

func TestSolveCreditBoundsRejectCompletions(t *testing.T) {
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
		offering("2", "MATH 111", 4, mtg(models.DayTuesday, 540, 600)),
	)
	maxCredits := 5.0

	req := solveRequest("CS 100", "MATH 111")
	req.MaxCredits = &maxCredits
	result, err := Solve(context.Background(), snapshot, req)
	require.NoError(t, err)

	assert.Empty(t, result.Candidates)
	assert.Empty(t, result.UnsatisfiableCourses)
}

func TestSolveRankingPrefersCompactDays(t *testing.T) {
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
		offering("2", "MATH 111", 4, mtg(models.DayMonday, 600, 660)), // no gap
		offering("3", "MATH 111", 4, mtg(models.DayMonday, 720, 780)), // 120 minute gap
	)

	result, err := Solve(context.Background(), snapshot, solveRequest("CS 100", "MATH 111"))
	require.NoError(t, err)

	require.Len(t, result.Candidates, 2)
	assert.Contains(t, candidateCRNs(result.Candidates[0]), "2")
	assert.Contains(t, candidateCRNs(result.Candidates[1]), "3")
	assert.Less(t, result.Candidates[0].Score, result.Candidates[1].Score)
}

func TestSolveRankingPreferInstructor(t *testing.T) {
	liked := offering("9", "CS 100", 3, mtg(models.DayMonday, 540, 600))
	instructor := "Garcia"
	liked.Instructor = &instructor
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayTuesday, 540, 600)),
		liked,
	)

	req := solveRequest("CS 100")
	req.Filters.PreferInstructors = []string{"garcia"}
	result, err := Solve(context.Background(), snapshot, req)
	require.NoError(t, err)

	require.Len(t, result.Candidates, 2)
	assert.Equal(t, []string{"9"}, candidateCRNs(result.Candidates[0]))
}

func TestSolveAvoidInstructorIsHardFilter(t *testing.T) {
	avoided := offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600))
	instructor := "Smith, John"
	avoided.Instructor = &instructor
	snapshot := snapshotOf(
		avoided,
		offering("2", "CS 100", 3, mtg(models.DayTuesday, 540, 600)),
	)

	req := solveRequest("CS 100")
	req.Filters.AvoidInstructors = []string{"smith"}
	result, err := Solve(context.Background(), snapshot, req)
	require.NoError(t, err)

	require.Len(t, result.Candidates, 1)
	assert.Equal(t, []string{"2"}, candidateCRNs(result.Candidates[0]))
}

func TestSolveTieBreakByCrnSum(t *testing.T) {
	snapshot := snapshotOf(
		offering("200", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
		offering("100", "CS 100", 3, mtg(models.DayTuesday, 540, 600)),
	)

	result, err := Solve(context.Background(), snapshot, solveRequest("CS 100"))
	require.NoError(t, err)

	require.Len(t, result.Candidates, 2)
	assert.Equal(t, []string{"100"}, candidateCRNs(result.Candidates[0]))
	assert.Equal(t, []string{"200"}, candidateCRNs(result.Candidates[1]))
}

func TestSolveDeterministic(t *testing.T) {
	snapshot := snapshotOf(
		offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
		offering("2", "CS 100", 3, mtg(models.DayTuesday, 540, 600)),
		offering("3", "MATH 111", 4, mtg(models.DayWednesday, 540, 600)),
		offering("4", "MATH 111", 4, mtg(models.DayThursday, 540, 600)),
	)
	req := solveRequest("CS 100", "MATH 111")

	first, err := Solve(context.Background(), snapshot, req)
	require.NoError(t, err)
	second, err := Solve(context.Background(), snapshot, req)
	require.NoError(t, err)

	require.Equal(t, len(first.Candidates), len(second.Candidates))
	for i := range first.Candidates {
		assert.Equal(t, candidateCRNs(first.Candidates[i]), candidateCRNs(second.Candidates[i]))
		assert.Equal(t, first.Candidates[i].Score, second.Candidates[i].Score)
	}
}

// wideSnapshot builds one feasible course plus one course whose thousands of
// sections all conflict with it, forcing a long fruitless search.
func wideSnapshot(width int) *models.CatalogSnapshot {
	offerings := []*models.Offering{
		offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)),
	}
	for i := 0; i < width; i++ {
		offerings = append(offerings,
			offering(fmt.Sprintf("9%04d", i), "MATH 111", 4, mtg(models.DayMonday, 540, 600)))
	}
	return models.NewCatalogSnapshot(offerings, nil)
}

func TestSolveContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Solve(ctx, wideSnapshot(5000), solveRequest("CS 100", "MATH 111"))
	require.NoError(t, err)

	assert.True(t, result.Cancelled)
	assert.True(t, result.Truncated)
	assert.Empty(t, result.Candidates)
}

func TestSolveNodeBudget(t *testing.T) {
	req := solveRequest("CS 100", "MATH 111")
	req.NodeBudget = 100
	result, err := Solve(context.Background(), wideSnapshot(5000), req)
	require.NoError(t, err)

	assert.True(t, result.Cancelled)
	assert.True(t, result.Truncated)
}

func TestSolveExhaustiveSearchNotCancelled(t *testing.T) {
	result, err := Solve(context.Background(), wideSnapshot(5000), solveRequest("CS 100", "MATH 111"))
	require.NoError(t, err)

	assert.Empty(t, result.Candidates)
	assert.False(t, result.Cancelled)
	assert.False(t, result.Truncated)
	assert.Greater(t, result.NodesVisited, 5000)
}

func TestOrderCoursesMostConstrainedFirst(t *testing.T) {
	filtered := map[string][]*models.Offering{
		"CS 100": {
			offering("1", "CS 100", 3),
			offering("2", "CS 100", 3),
		},
		"MATH 111": {
			offering("3", "MATH 111", 4),
		},
		"BIO 201": {
			offering("4", "BIO 201", 3),
		},
	}

	ordered := orderCourses(filtered)
	assert.Equal(t, []string{"BIO 201", "MATH 111", "CS 100"}, ordered)
}

func TestOfferingPassesWindow(t *testing.T) {
	early, late := 540, 1020
	f := models.DefaultScheduleFilters()
	f.EarliestStart = &early
	f.LatestEnd = &late

	assert.True(t, offeringPasses(offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600)), &f))
	assert.False(t, offeringPasses(offering("2", "CS 100", 3, mtg(models.DayMonday, 530, 600)), &f))
	assert.False(t, offeringPasses(offering("3", "CS 100", 3, mtg(models.DayMonday, 960, 1030)), &f))
}

func TestOfferingPassesCampus(t *testing.T) {
	campus := "KUPF 117"
	o := offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600))
	o.Meetings[0].Location = &campus

	include := models.DefaultScheduleFilters()
	include.CampusInclude = []string{"kupf"}
	assert.True(t, offeringPasses(o, &include))

	exclude := models.DefaultScheduleFilters()
	exclude.CampusExclude = []string{"kupf"}
	assert.False(t, offeringPasses(o, &exclude))

	// An offering with no meetings is unaffected by campus filters.
	online := offering("2", "CS 100", 3)
	assert.True(t, offeringPasses(online, &exclude))
}

func TestOfferingPassesHonorsToggles(t *testing.T) {
	honors := offering("1", "CS 100", 3, mtg(models.DayMonday, 540, 600))
	honors.Section = "H01"
	regular := offering("2", "CS 100", 3, mtg(models.DayTuesday, 540, 600))

	noHonors := models.DefaultScheduleFilters()
	noHonors.IncludeHonors = false
	assert.False(t, offeringPasses(honors, &noHonors))
	assert.True(t, offeringPasses(regular, &noHonors))

	onlyHonors := models.DefaultScheduleFilters()
	onlyHonors.IncludeNonHonors = false
	assert.True(t, offeringPasses(honors, &onlyHonors))
	assert.False(t, offeringPasses(regular, &onlyHonors))
}

func TestTotalGapMinutes(t *testing.T) {
	offerings := []*models.Offering{
		offering("1", "A", 3, mtg(models.DayMonday, 540, 600), mtg(models.DayWednesday, 540, 600)),
		offering("2", "B", 3, mtg(models.DayMonday, 630, 690)),
		offering("3", "C", 3, mtg(models.DayWednesday, 600, 660)),
	}
	// Monday: 30 minute gap; Wednesday: back-to-back.
	assert.Equal(t, 30, totalGapMinutes(offerings))
}

func TestCrnSumNonNumericFallback(t *testing.T) {
	numeric := []*models.Offering{offering("12345", "A", 3)}
	assert.Equal(t, uint64(12345), crnSum(numeric))

	weird := []*models.Offering{offering("A1B2", "A", 3)}
	first := crnSum(weird)
	assert.NotZero(t, first)
	assert.Equal(t, first, crnSum(weird))
}

func TestFullness(t *testing.T) {
	cap30, enr15 := 30, 15
	o := offering("1", "A", 3)
	o.Capacity, o.Enrolled = &cap30, &enr15
	assert.Equal(t, 0.5, fullness(o))

	assert.Zero(t, fullness(offering("2", "A", 3)))
}
