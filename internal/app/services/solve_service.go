package services

import (
	"context"
	"time"

	"github.com/yigit/schedulepro/internal/app/models/dto"
	"github.com/yigit/schedulepro/internal/app/solver"
	"github.com/yigit/schedulepro/internal/pkg/apperrors"
	"github.com/yigit/schedulepro/internal/pkg/logger"
	"github.com/yigit/schedulepro/internal/pkg/normalize"
)

// SolveService defines the interface for schedule generation
type SolveService interface {
	Solve(ctx context.Context, req *dto.SolveRequest) (*dto.SolveResponse, error)
}

// solveServiceImpl implements the SolveService interface
type solveServiceImpl struct {
	catalogService CatalogService
	timeout        time.Duration
	nodeBudget     int
}

// NewSolveService creates a new solve service instance
func NewSolveService(catalogService CatalogService, timeout time.Duration, nodeBudget int) SolveService {
	return &solveServiceImpl{
		catalogService: catalogService,
		timeout:        timeout,
		nodeBudget:     nodeBudget,
	}
}

// Solve runs the engine against the current catalog snapshot under the
// configured deadline.
func (s *solveServiceImpl) Solve(ctx context.Context, req *dto.SolveRequest) (*dto.SolveResponse, error) {
	snapshot := s.catalogService.Snapshot()
	if snapshot.Empty() {
		return nil, apperrors.ErrCatalogEmpty
	}

	engineReq := req.ToSolverRequest()
	if engineReq.NodeBudget == 0 {
		engineReq.NodeBudget = s.nodeBudget
	}

	// Canonicalize course keys so "cs100" and "CS 100" name the same course.
	for i, key := range engineReq.RequiredCourseKeys {
		engineReq.RequiredCourseKeys[i] = normalize.ExtractCourseKey(key)
	}
	if len(engineReq.RequiredCRNs) > 0 {
		pins := make(map[string]string, len(engineReq.RequiredCRNs))
		for key, crn := range engineReq.RequiredCRNs {
			pins[normalize.ExtractCourseKey(key)] = crn
		}
		engineReq.RequiredCRNs = pins
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	result, err := solver.Solve(ctx, snapshot, engineReq)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Strs("courses", req.Courses).
		Int("schedules", len(result.Candidates)).
		Int("nodes", result.NodesVisited).
		Bool("truncated", result.Truncated).
		Bool("cancelled", result.Cancelled).
		Dur("elapsed", time.Since(started)).
		Msg("Solve completed")

	return dto.NewSolveResponse(result), nil
}
