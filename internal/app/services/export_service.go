package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yigit/schedulepro/internal/app/models"
	"github.com/yigit/schedulepro/internal/pkg/apperrors"
)

// Default term bounds used when the export request leaves them unset.
const (
	DefaultTermStart = "2026-01-21"
	DefaultTermEnd   = "2026-05-08"
)

const icsDateFormat = "2006-01-02"

// ExportService defines the interface for schedule export
type ExportService interface {
	// BuildICS renders the offerings as a weekly-recurring ICS calendar
	// spanning the term.
	BuildICS(offerings []*models.Offering, termStart, termEnd string) ([]byte, error)
	// BuildCSV renders the offerings as a flat CSV summary.
	BuildCSV(offerings []*models.Offering) ([]byte, error)
}

// exportServiceImpl implements the ExportService interface
type exportServiceImpl struct{}

// NewExportService creates a new export service instance
func NewExportService() ExportService {
	return &exportServiceImpl{}
}

// dayWeekdays maps catalog days onto time.Weekday.
var dayWeekdays = map[models.DayOfWeek]time.Weekday{
	models.DayMonday:    time.Monday,
	models.DayTuesday:   time.Tuesday,
	models.DayWednesday: time.Wednesday,
	models.DayThursday:  time.Thursday,
	models.DayFriday:    time.Friday,
	models.DaySaturday:  time.Saturday,
	models.DaySunday:    time.Sunday,
}

// BuildICS generates an ICS calendar with one weekly-recurring event per
// meeting.
func (s *exportServiceImpl) BuildICS(offerings []*models.Offering, termStart, termEnd string) ([]byte, error) {
	if termStart == "" {
		termStart = DefaultTermStart
	}
	if termEnd == "" {
		termEnd = DefaultTermEnd
	}

	start, err := time.Parse(icsDateFormat, termStart)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid termStart, expected YYYY-MM-DD")
	}
	end, err := time.Parse(icsDateFormat, termEnd)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid termEnd, expected YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, apperrors.NewBadRequestError("termEnd is before termStart")
	}

	var b strings.Builder
	writeICSLine(&b, "BEGIN:VCALENDAR")
	writeICSLine(&b, "PRODID:-//SchedulePro//schedulepro.app//")
	writeICSLine(&b, "VERSION:2.0")
	writeICSLine(&b, "CALSCALE:GREGORIAN")
	writeICSLine(&b, "METHOD:PUBLISH")
	writeICSLine(&b, "X-WR-CALNAME:Course Schedule")
	writeICSLine(&b, "X-WR-TIMEZONE:America/New_York")

	stamp := time.Now().UTC().Format("20060102T150405Z")
	until := end.Format("20060102") + "T235959Z"

	for _, offering := range offerings {
		for _, meeting := range offering.Meetings {
			weekday, ok := dayWeekdays[meeting.Day]
			if !ok {
				continue
			}

			// First occurrence of the meeting's weekday on or after term start.
			daysAhead := (int(weekday) - int(start.Weekday()) + 7) % 7
			first := start.AddDate(0, 0, daysAhead)

			dtstart := first.Add(time.Duration(meeting.StartMin) * time.Minute)
			dtend := first.Add(time.Duration(meeting.EndMin) * time.Minute)

			writeICSLine(&b, "BEGIN:VEVENT")
			writeICSLine(&b, "SUMMARY:"+escapeICS(fmt.Sprintf("%s - %s", offering.CourseKey, offering.Title)))
			writeICSLine(&b, "DESCRIPTION:"+escapeICS(meetingDescription(offering, meeting)))
			if meeting.Location != nil {
				writeICSLine(&b, "LOCATION:"+escapeICS(*meeting.Location))
			}
			writeICSLine(&b, "DTSTART:"+dtstart.Format("20060102T150405"))
			writeICSLine(&b, "DTEND:"+dtend.Format("20060102T150405"))
			writeICSLine(&b, "RRULE:FREQ=WEEKLY;UNTIL="+until)
			writeICSLine(&b, fmt.Sprintf("UID:%s-%s-%d@schedulepro.app", offering.CRN, meeting.Day, meeting.StartMin))
			writeICSLine(&b, "DTSTAMP:"+stamp)
			writeICSLine(&b, "END:VEVENT")
		}
	}

	writeICSLine(&b, "END:VCALENDAR")
	return []byte(b.String()), nil
}

// meetingDescription builds the human-readable event description.
func meetingDescription(offering *models.Offering, meeting models.Meeting) string {
	parts := []string{
		"Course: " + offering.CourseKey,
		"Section: " + offering.Section,
		"CRN: " + offering.CRN,
	}
	if offering.Instructor != nil {
		parts = append(parts, "Instructor: "+*offering.Instructor)
	}
	if meeting.Location != nil {
		parts = append(parts, "Location: "+*meeting.Location)
	}
	if offering.Credits != nil {
		parts = append(parts, fmt.Sprintf("Credits: %g", *offering.Credits))
	}
	return strings.Join(parts, "\n")
}

// writeICSLine appends a content line with the CRLF terminator RFC 5545
// requires.
func writeICSLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

// escapeICS escapes text values per RFC 5545.
func escapeICS(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, ";", "\\;")
	value = strings.ReplaceAll(value, ",", "\\,")
	value = strings.ReplaceAll(value, "\n", "\\n")
	return value
}

// BuildCSV renders the offerings as a CSV summary, one row per offering.
func (s *exportServiceImpl) BuildCSV(offerings []*models.Offering) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Course", "Title", "CRN", "Section", "Days", "Times",
		"Location", "Instructor", "Delivery", "Credits", "Status",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, offering := range offerings {
		days, times, location := "TBA", "TBA", ""
		if len(offering.Meetings) > 0 {
			days = meetingDayLetters(offering.Meetings)
			first := offering.Meetings[0]
			times = fmt.Sprintf("%02d:%02d - %02d:%02d",
				first.StartMin/60, first.StartMin%60,
				first.EndMin/60, first.EndMin%60)
			if first.Location != nil {
				location = *first.Location
			}
		}

		instructor := ""
		if offering.Instructor != nil {
			instructor = *offering.Instructor
		}
		credits := ""
		if offering.Credits != nil {
			credits = fmt.Sprintf("%g", *offering.Credits)
		}

		row := []string{
			offering.CourseKey,
			offering.Title,
			offering.CRN,
			offering.Section,
			days,
			times,
			location,
			instructor,
			string(offering.Delivery),
			credits,
			string(offering.Status),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// meetingDayLetters returns the sorted distinct first letters of the meeting
// days, e.g. "MW".
func meetingDayLetters(meetings []models.Meeting) string {
	seen := make(map[string]struct{})
	letters := make([]string, 0, len(meetings))
	for _, m := range meetings {
		letter := string(m.Day)[:1]
		if _, dup := seen[letter]; dup {
			continue
		}
		seen[letter] = struct{}{}
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	return strings.Join(letters, "")
}
