package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schedulepro/internal/app/models"
)

// OfferingRepository handles database operations for catalog offerings
type OfferingRepository struct {
	db *pgxpool.Pool
}

// NewOfferingRepository creates a new offering repository
func NewOfferingRepository(pool *pgxpool.Pool) *OfferingRepository {
	return &OfferingRepository{
		db: pool,
	}
}

// GetAll retrieves every offering with its meetings, ordered deterministically
// by course key and CRN.
func (r *OfferingRepository) GetAll(ctx context.Context) ([]*models.Offering, error) {
	query := `
		SELECT id, crn, course_key, section, title, term, status, delivery,
		       instructor, capacity, enrolled, credits, info, comments
		FROM offerings
		ORDER BY course_key, crn
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offerings []*models.Offering
	byID := make(map[int64]*models.Offering)
	for rows.Next() {
		var offering models.Offering
		if err := rows.Scan(
			&offering.ID,
			&offering.CRN,
			&offering.CourseKey,
			&offering.Section,
			&offering.Title,
			&offering.Term,
			&offering.Status,
			&offering.Delivery,
			&offering.Instructor,
			&offering.Capacity,
			&offering.Enrolled,
			&offering.Credits,
			&offering.Info,
			&offering.Comments,
		); err != nil {
			return nil, err
		}
		offerings = append(offerings, &offering)
		byID[offering.ID] = &offering
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachMeetings(ctx, byID); err != nil {
		return nil, err
	}

	return offerings, nil
}

// attachMeetings loads all meetings and assigns them to their offerings.
func (r *OfferingRepository) attachMeetings(ctx context.Context, byID map[int64]*models.Offering) error {
	if len(byID) == 0 {
		return nil
	}

	query := `
		SELECT offering_id, day, start_min, end_min, location
		FROM meetings
		ORDER BY offering_id, day, start_min
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var offeringID int64
		var meeting models.Meeting
		if err := rows.Scan(
			&offeringID,
			&meeting.Day,
			&meeting.StartMin,
			&meeting.EndMin,
			&meeting.Location,
		); err != nil {
			return err
		}
		if offering, ok := byID[offeringID]; ok {
			offering.Meetings = append(offering.Meetings, meeting)
		}
	}

	return rows.Err()
}

// InsertBatch inserts offerings with their meetings in a single transaction.
// Offerings whose CRN already exists are skipped. Returns the number of
// offerings actually inserted.
func (r *OfferingRepository) InsertBatch(ctx context.Context, offerings []*models.Offering) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	offeringQuery := `
		INSERT INTO offerings (crn, course_key, section, title, term, status, delivery,
		                       instructor, capacity, enrolled, credits, info, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (crn) DO NOTHING
		RETURNING id
	`
	meetingQuery := `
		INSERT INTO meetings (offering_id, day, start_min, end_min, location)
		VALUES ($1, $2, $3, $4, $5)
	`

	inserted := 0
	for _, offering := range offerings {
		var id int64
		err := tx.QueryRow(ctx, offeringQuery,
			offering.CRN,
			offering.CourseKey,
			offering.Section,
			offering.Title,
			offering.Term,
			offering.Status,
			offering.Delivery,
			offering.Instructor,
			offering.Capacity,
			offering.Enrolled,
			offering.Credits,
			offering.Info,
			offering.Comments,
		).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			// CRN already present
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("error inserting offering %s: %w", offering.CRN, err)
		}

		offering.ID = id
		for _, meeting := range offering.Meetings {
			if _, err := tx.Exec(ctx, meetingQuery,
				id,
				meeting.Day,
				meeting.StartMin,
				meeting.EndMin,
				meeting.Location,
			); err != nil {
				return 0, fmt.Errorf("error inserting meeting for %s: %w", offering.CRN, err)
			}
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// DeleteAll removes every offering and, via cascade, every meeting.
func (r *OfferingRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM offerings`); err != nil {
		return fmt.Errorf("error clearing offerings: %w", err)
	}
	return nil
}

// Count returns the number of stored offerings.
func (r *OfferingRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM offerings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting offerings: %w", err)
	}
	return count, nil
}
