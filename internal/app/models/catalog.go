package models

import "time"

// CatalogSnapshot is an immutable view of the loaded catalog. A snapshot is
// built once per catalog load and passed by reference into each solve call;
// in-flight solves keep operating against their captured snapshot even if the
// catalog is reloaded concurrently.
type CatalogSnapshot struct {
	Offerings []*Offering
	// ByCourse groups offerings by course key. The slices alias Offerings and
	// must be treated as read-only.
	ByCourse    map[string][]*Offering
	LoadedAt    time.Time
	SourceFiles []string
}

// NewCatalogSnapshot builds a snapshot over the given offerings, grouping
// them by course key.
func NewCatalogSnapshot(offerings []*Offering, sourceFiles []string) *CatalogSnapshot {
	byCourse := make(map[string][]*Offering)
	for _, o := range offerings {
		byCourse[o.CourseKey] = append(byCourse[o.CourseKey], o)
	}
	return &CatalogSnapshot{
		Offerings:   offerings,
		ByCourse:    byCourse,
		LoadedAt:    time.Now(),
		SourceFiles: sourceFiles,
	}
}

// CourseCount returns the number of distinct courses in the snapshot.
func (s *CatalogSnapshot) CourseCount() int {
	return len(s.ByCourse)
}

// SectionCount returns the number of offerings in the snapshot.
func (s *CatalogSnapshot) SectionCount() int {
	return len(s.Offerings)
}

// Empty reports whether the snapshot holds no offerings.
func (s *CatalogSnapshot) Empty() bool {
	return s == nil || len(s.Offerings) == 0
}
