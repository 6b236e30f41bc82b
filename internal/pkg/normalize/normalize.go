// Package normalize turns raw schedule CSV exports into validated catalog
// offerings. It owns the upstream contract of the solver: every meeting it
// emits has start < end within a day, a day drawn from the seven-day
// enumeration, and offerings are unique by CRN.
package normalize

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/yigit/schedulepro/internal/app/models"
	"github.com/yigit/schedulepro/internal/pkg/apperrors"
)

// dayLetters maps schedule-export day letters to weekdays. Thursday is 'R'
// and Sunday is 'U' in the exports.
var dayLetters = map[byte]models.DayOfWeek{
	'M': models.DayMonday,
	'T': models.DayTuesday,
	'W': models.DayWednesday,
	'R': models.DayThursday,
	'F': models.DayFriday,
	'S': models.DaySaturday,
	'U': models.DaySunday,
}

var (
	timeRe      = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])`)
	timeSplitRe = regexp.MustCompile(`\s*-\s*|\s+to\s+`)
	courseKeyRe = regexp.MustCompile(`^([A-Z]+)\s*(\d+)([A-Z]*)`)
)

// ParseDays parses a day string like "MW", "TR" or "MWF" into weekdays.
// Unknown letters are ignored; empty and "TBA" yield no days.
func ParseDays(days string) []models.DayOfWeek {
	days = strings.ToUpper(strings.TrimSpace(days))
	if days == "" || days == "TBA" {
		return nil
	}
	var result []models.DayOfWeek
	for i := 0; i < len(days); i++ {
		if day, ok := dayLetters[days[i]]; ok {
			result = append(result, day)
		}
	}
	return result
}

// ParseTime parses a clock time like "8:30 AM" or "11:20 pm" into minutes
// from midnight. It returns -1 for empty, TBA or unparseable input.
func ParseTime(value string) int {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "TBA") {
		return -1
	}
	m := timeRe.FindStringSubmatch(value)
	if m == nil {
		return -1
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 12 || minute > 59 {
		return -1
	}
	period := strings.ToUpper(m[3])
	if period == "PM" && hour != 12 {
		hour += 12
	} else if period == "AM" && hour == 12 {
		hour = 0
	}
	return hour*60 + minute
}

// ParseTimeRange parses a range like "8:30 AM - 9:50 AM" into start and end
// minutes. ok is false when either side is missing or the range is inverted.
func ParseTimeRange(value string) (start, end int, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "TBA") {
		return 0, 0, false
	}
	parts := timeSplitRe.Split(value, 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start = ParseTime(parts[0])
	end = ParseTime(parts[1])
	if start < 0 || end < 0 || start >= end {
		return 0, 0, false
	}
	return start, end, true
}

// NormalizeStatus maps a raw status field to a Status, defaulting to Open.
func NormalizeStatus(value string) models.Status {
	value = strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.Contains(value, "closed"):
		return models.StatusClosed
	case strings.Contains(value, "wait"):
		return models.StatusWaitlist
	default:
		return models.StatusOpen
	}
}

// NormalizeDelivery maps a raw delivery-mode field to a DeliveryMode. When
// the field is empty the location is used as a hint for online sections.
func NormalizeDelivery(value, location string) models.DeliveryMode {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		loc := strings.ToLower(location)
		if strings.Contains(loc, "online") || strings.Contains(loc, "web") {
			return models.DeliveryOnline
		}
		return models.DeliveryInPerson
	}
	switch {
	case strings.Contains(value, "online"), strings.Contains(value, "web"), strings.Contains(value, "distance"):
		return models.DeliveryOnline
	case strings.Contains(value, "hybrid"), strings.Contains(value, "blended"):
		return models.DeliveryHybrid
	case strings.Contains(value, "async"):
		return models.DeliveryAsync
	default:
		return models.DeliveryInPerson
	}
}

// ExtractCourseKey normalizes a course identifier like "CS100", "cs 100" or
// "PHYS111A" into the canonical "SUBJ 100A" form.
func ExtractCourseKey(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	m := courseKeyRe.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	return fmt.Sprintf("%s %s%s", m[1], m[2], m[3])
}

// ParseCSV reads one schedule CSV export and returns normalized offerings.
// Rows without a CRN or course identifier are skipped; rows sharing a CRN
// are merged into one offering with the union of their meetings.
func ParseCSV(r io.Reader) ([]*models.Offering, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidCSV, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["crn"]; !ok {
		return nil, fmt.Errorf("%w: missing CRN column", apperrors.ErrInvalidCSV)
	}

	var offerings []*models.Offering
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed rows are skipped, not fatal.
			continue
		}
		if o := normalizeRow(record, columns); o != nil {
			offerings = append(offerings, o)
		}
	}

	merged := MergeByCRN(offerings)
	if len(merged) == 0 {
		return nil, apperrors.ErrNothingParsed
	}
	return merged, nil
}

// normalizeRow turns one CSV record into an offering, or nil when the row
// carries no usable section.
func normalizeRow(record []string, columns map[string]int) *models.Offering {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	crn := field("crn")
	if crn == "" {
		return nil
	}
	courseKey := ExtractCourseKey(field("course"))
	if courseKey == "" {
		return nil
	}

	location := field("location")
	var meetings []models.Meeting
	if start, end, ok := ParseTimeRange(field("times")); ok {
		for _, day := range ParseDays(field("days")) {
			m := models.Meeting{Day: day, StartMin: start, EndMin: end}
			if location != "" {
				m.Location = strPtr(location)
			}
			meetings = append(meetings, m)
		}
	}

	return &models.Offering{
		CRN:        crn,
		CourseKey:  courseKey,
		Section:    field("section"),
		Title:      field("title"),
		Term:       optStr(field("term")),
		Meetings:   meetings,
		Status:     NormalizeStatus(field("status")),
		Delivery:   NormalizeDelivery(field("delivery mode"), location),
		Instructor: optStr(field("instructor")),
		Capacity:   optInt(field("max")),
		Enrolled:   optInt(field("now")),
		Credits:    optFloat(field("credits")),
		Info:       optStr(field("info")),
		Comments:   optStr(field("comments")),
	}
}

// MergeByCRN merges offerings sharing a CRN into one offering holding the
// union of their meetings. A multi-day section often arrives as one CSV row
// per day. Exact duplicate meetings are dropped.
func MergeByCRN(offerings []*models.Offering) []*models.Offering {
	byCRN := make(map[string]*models.Offering)
	var order []string
	for _, o := range offerings {
		existing, ok := byCRN[o.CRN]
		if !ok {
			byCRN[o.CRN] = o
			order = append(order, o.CRN)
			continue
		}
		for _, m := range o.Meetings {
			if !hasMeeting(existing.Meetings, m) {
				existing.Meetings = append(existing.Meetings, m)
			}
		}
	}

	merged := make([]*models.Offering, 0, len(order))
	for _, crn := range order {
		merged = append(merged, byCRN[crn])
	}
	return merged
}

func hasMeeting(meetings []models.Meeting, m models.Meeting) bool {
	for _, existing := range meetings {
		if existing.Day == m.Day && existing.StartMin == m.StartMin && existing.EndMin == m.EndMin {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func optFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
