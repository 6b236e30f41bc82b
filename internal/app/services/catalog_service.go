package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/yigit/schedulepro/internal/app/models"
	"github.com/yigit/schedulepro/internal/app/models/dto"
	"github.com/yigit/schedulepro/internal/pkg/apperrors"
	"github.com/yigit/schedulepro/internal/pkg/logger"
	"github.com/yigit/schedulepro/internal/pkg/normalize"
)

// OfferingStore is the slice of the offering repository the catalog service
// depends on.
type OfferingStore interface {
	GetAll(ctx context.Context) ([]*models.Offering, error)
	InsertBatch(ctx context.Context, offerings []*models.Offering) (int, error)
	DeleteAll(ctx context.Context) error
}

// CatalogService defines the interface for catalog operations
type CatalogService interface {
	// Snapshot returns the current immutable catalog snapshot, never nil.
	Snapshot() *models.CatalogSnapshot
	// Reload rebuilds the snapshot from the database.
	Reload(ctx context.Context) error
	// IngestCSV parses a CSV export, persists the new offerings, and reloads
	// the snapshot.
	IngestCSV(ctx context.Context, filename string, r io.Reader) (*dto.IngestResponse, error)
	// Clear removes every offering from the database and resets the snapshot.
	Clear(ctx context.Context) error
	ListOfferings(query dto.CatalogQuery) *dto.CatalogResponse
	ListCourses(search string) *dto.CourseListResponse
	// ResolveCrns returns the offerings matching the given CRNs, preserving
	// request order.
	ResolveCrns(crns []string) ([]*models.Offering, error)
}

// catalogServiceImpl implements the CatalogService interface
type catalogServiceImpl struct {
	offeringRepo OfferingStore
	snapshot     atomic.Pointer[models.CatalogSnapshot]
}

// NewCatalogService creates a new catalog service instance. The snapshot
// starts empty; call Reload to populate it from the database.
func NewCatalogService(offeringRepo OfferingStore) CatalogService {
	s := &catalogServiceImpl{
		offeringRepo: offeringRepo,
	}
	s.snapshot.Store(models.NewCatalogSnapshot(nil, nil))
	return s
}

// Snapshot returns the current catalog snapshot.
func (s *catalogServiceImpl) Snapshot() *models.CatalogSnapshot {
	return s.snapshot.Load()
}

// Reload rebuilds the snapshot from the offerings table.
func (s *catalogServiceImpl) Reload(ctx context.Context) error {
	offerings, err := s.offeringRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("error loading catalog: %w", err)
	}

	old := s.snapshot.Load()
	s.snapshot.Store(models.NewCatalogSnapshot(offerings, old.SourceFiles))

	logger.Info().
		Int("courses", s.snapshot.Load().CourseCount()).
		Int("sections", len(offerings)).
		Msg("Catalog snapshot reloaded")

	return nil
}

// IngestCSV parses and persists a CSV export, then reloads the snapshot.
func (s *catalogServiceImpl) IngestCSV(ctx context.Context, filename string, r io.Reader) (*dto.IngestResponse, error) {
	offerings, err := normalize.ParseCSV(r)
	if err != nil {
		return nil, err
	}

	inserted, err := s.offeringRepo.InsertBatch(ctx, offerings)
	if err != nil {
		return nil, fmt.Errorf("error persisting offerings: %w", err)
	}

	if err := s.reloadWithSource(ctx, filename); err != nil {
		return nil, err
	}

	snapshot := s.snapshot.Load()
	logger.Info().
		Str("file", filename).
		Int("parsed", len(offerings)).
		Int("inserted", inserted).
		Msg("CSV ingested")

	return &dto.IngestResponse{
		Filename:     filename,
		ParsedRows:   len(offerings),
		NewOfferings: inserted,
		CourseCount:  snapshot.CourseCount(),
		SectionCount: snapshot.SectionCount(),
	}, nil
}

// reloadWithSource reloads from the database and records the new source file.
func (s *catalogServiceImpl) reloadWithSource(ctx context.Context, filename string) error {
	offerings, err := s.offeringRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("error loading catalog: %w", err)
	}

	sources := append([]string{}, s.snapshot.Load().SourceFiles...)
	if filename != "" && !containsString(sources, filename) {
		sources = append(sources, filename)
	}
	s.snapshot.Store(models.NewCatalogSnapshot(offerings, sources))
	return nil
}

// Clear drops every offering and resets the snapshot.
func (s *catalogServiceImpl) Clear(ctx context.Context) error {
	if err := s.offeringRepo.DeleteAll(ctx); err != nil {
		return err
	}
	s.snapshot.Store(models.NewCatalogSnapshot(nil, nil))
	logger.Info().Msg("Catalog cleared")
	return nil
}

// ListOfferings returns a filtered, paginated view of the snapshot.
func (s *catalogServiceImpl) ListOfferings(query dto.CatalogQuery) *dto.CatalogResponse {
	snapshot := s.snapshot.Load()

	filtered := snapshot.Offerings
	if query.CourseKey != "" {
		filtered = snapshot.ByCourse[normalize.ExtractCourseKey(query.CourseKey)]
	}
	if query.Search != "" {
		search := strings.ToLower(query.Search)
		matched := make([]*models.Offering, 0, len(filtered))
		for _, o := range filtered {
			if strings.Contains(strings.ToLower(o.CourseKey), search) ||
				strings.Contains(strings.ToLower(o.Title), search) {
				matched = append(matched, o)
			}
		}
		filtered = matched
	}

	total := len(filtered)
	limit := query.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := query.Offset
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := filtered[offset:end]

	return &dto.CatalogResponse{
		Offerings: page,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
		Metadata: dto.CatalogMetadata{
			CourseCount:  snapshot.CourseCount(),
			SectionCount: snapshot.SectionCount(),
			LoadedAt:     snapshot.LoadedAt,
			Sources:      snapshot.SourceFiles,
		},
	}
}

// ListCourses returns the distinct courses, each with its sections.
func (s *catalogServiceImpl) ListCourses(search string) *dto.CourseListResponse {
	snapshot := s.snapshot.Load()

	keys := make([]string, 0, len(snapshot.ByCourse))
	for key := range snapshot.ByCourse {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	searchLower := strings.ToLower(search)
	courses := make([]dto.CourseSummary, 0, len(keys))
	for _, key := range keys {
		offerings := snapshot.ByCourse[key]
		title := offerings[0].Title

		if search != "" &&
			!strings.Contains(strings.ToLower(key), searchLower) &&
			!strings.Contains(strings.ToLower(title), searchLower) {
			continue
		}

		sections := make([]dto.SectionSummary, 0, len(offerings))
		for _, o := range offerings {
			sections = append(sections, dto.SectionSummary{
				CRN:        o.CRN,
				Section:    o.Section,
				Status:     string(o.Status),
				Delivery:   string(o.Delivery),
				Instructor: o.Instructor,
				Credits:    o.Credits,
			})
		}
		courses = append(courses, dto.CourseSummary{
			CourseKey: key,
			Title:     title,
			Sections:  sections,
		})
	}

	return &dto.CourseListResponse{
		Courses: courses,
		Total:   len(courses),
	}
}

// ResolveCrns maps CRNs to offerings in the current snapshot.
func (s *catalogServiceImpl) ResolveCrns(crns []string) ([]*models.Offering, error) {
	snapshot := s.snapshot.Load()
	if snapshot.Empty() {
		return nil, apperrors.ErrCatalogEmpty
	}

	byCRN := make(map[string]*models.Offering, len(snapshot.Offerings))
	for _, o := range snapshot.Offerings {
		byCRN[o.CRN] = o
	}

	offerings := make([]*models.Offering, 0, len(crns))
	for _, crn := range crns {
		offering, ok := byCRN[crn]
		if !ok {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("CRN %s not found in catalog", crn))
		}
		offerings = append(offerings, offering)
	}
	return offerings, nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
