package dto

import (
	"time"

	"github.com/yigit/schedulepro/internal/app/models"
)

// CatalogQuery represents the query parameters of the catalog listing endpoint
type CatalogQuery struct {
	CourseKey string `form:"courseKey"`
	Search    string `form:"search"`
	Limit     int    `form:"limit,default=100" binding:"omitempty,min=1,max=1000"`
	Offset    int    `form:"offset,default=0" binding:"omitempty,min=0"`
}

// CatalogMetadata describes the currently loaded catalog snapshot
type CatalogMetadata struct {
	CourseCount  int       `json:"courseCount"`
	SectionCount int       `json:"sectionCount"`
	LoadedAt     time.Time `json:"loadedAt"`
	Sources      []string  `json:"sources,omitempty"`
}

// CatalogResponse represents a paginated catalog listing
type CatalogResponse struct {
	Offerings []*models.Offering `json:"offerings"`
	Total     int                `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	Metadata  CatalogMetadata    `json:"metadata"`
}

// SectionSummary represents one section of a course in the course listing
type SectionSummary struct {
	CRN        string   `json:"crn"`
	Section    string   `json:"section"`
	Status     string   `json:"status"`
	Delivery   string   `json:"delivery"`
	Instructor *string  `json:"instructor,omitempty"`
	Credits    *float64 `json:"credits,omitempty"`
}

// CourseSummary represents one course with its sections
type CourseSummary struct {
	CourseKey string           `json:"courseKey"`
	Title     string           `json:"title"`
	Sections  []SectionSummary `json:"sections"`
}

// CourseListResponse represents the unique-course listing
type CourseListResponse struct {
	Courses []CourseSummary `json:"courses"`
	Total   int             `json:"total"`
}

// IngestResponse represents the outcome of a CSV ingestion
type IngestResponse struct {
	Filename     string `json:"filename"`
	ParsedRows   int    `json:"parsedRows"`
	NewOfferings int    `json:"newOfferings"`
	CourseCount  int    `json:"courseCount"`
	SectionCount int    `json:"sectionCount"`
}
