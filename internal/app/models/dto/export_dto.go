package dto

// ExportRequest identifies a schedule to export by its CRNs. The offerings
// are resolved against the current catalog snapshot.
type ExportRequest struct {
	Crns []string `json:"crns" binding:"required,min=1"`
	// TermStart and TermEnd bound the weekly recurrence of calendar events,
	// formatted YYYY-MM-DD. Both default to the configured term.
	TermStart string `json:"termStart,omitempty"`
	TermEnd   string `json:"termEnd,omitempty"`
}
