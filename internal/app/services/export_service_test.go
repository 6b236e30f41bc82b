package services

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schedulepro/internal/app/models"
	"github.com/yigit/schedulepro/internal/pkg/apperrors"
)

func exportOffering() *models.Offering {
	location := "KUPF 117"
	instructor := "Garcia, Maria"
	credits := 3.0
	return &models.Offering{
		CRN:        "11192",
		CourseKey:  "CS 100",
		Section:    "002",
		Title:      "Intro to CS, Honors",
		Status:     models.StatusOpen,
		Delivery:   models.DeliveryInPerson,
		Instructor: &instructor,
		Credits:    &credits,
		Meetings: []models.Meeting{
			{Day: models.DayMonday, StartMin: 510, EndMin: 590, Location: &location},
			{Day: models.DayWednesday, StartMin: 510, EndMin: 590, Location: &location},
		},
	}
}

func TestBuildICS(t *testing.T) {
	svc := NewExportService()

	out, err := svc.BuildICS([]*models.Offering{exportOffering()}, "2026-01-21", "2026-05-08")
	require.NoError(t, err)
	ics := string(out)

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
	assert.Contains(t, ics, "X-WR-TIMEZONE:America/New_York")

	// One event per meeting.
	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Equal(t, 2, strings.Count(ics, "END:VEVENT"))

	// 2026-01-21 is a Wednesday; the Monday meeting first occurs on the 26th.
	assert.Contains(t, ics, "DTSTART:20260126T083000")
	assert.Contains(t, ics, "DTEND:20260126T095000")
	assert.Contains(t, ics, "DTSTART:20260121T083000")
	assert.Contains(t, ics, "RRULE:FREQ=WEEKLY;UNTIL=20260508T235959Z")
	assert.Contains(t, ics, "UID:11192-Mon-510@schedulepro.app")
	assert.Contains(t, ics, "LOCATION:KUPF 117")

	// Commas in text values are escaped.
	assert.Contains(t, ics, "SUMMARY:CS 100 - Intro to CS\\, Honors")

	// Every content line ends in CRLF.
	for _, line := range strings.Split(strings.TrimSuffix(ics, "\r\n"), "\r\n") {
		assert.NotContains(t, line, "\n")
	}
}

func TestBuildICSDefaultTerm(t *testing.T) {
	svc := NewExportService()

	out, err := svc.BuildICS([]*models.Offering{exportOffering()}, "", "")
	require.NoError(t, err)

	assert.Contains(t, string(out), "UNTIL=20260508T235959Z")
}

func TestBuildICSInvalidDates(t *testing.T) {
	svc := NewExportService()
	offerings := []*models.Offering{exportOffering()}

	_, err := svc.BuildICS(offerings, "01/21/2026", "")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.BuildICS(offerings, "", "May 8")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.BuildICS(offerings, "2026-05-08", "2026-01-21")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestBuildICSSkipsMeetinglessOfferings(t *testing.T) {
	svc := NewExportService()
	online := &models.Offering{CRN: "11555", CourseKey: "PHYS 102", Title: "General Physics"}

	out, err := svc.BuildICS([]*models.Offering{online}, "", "")
	require.NoError(t, err)

	assert.NotContains(t, string(out), "BEGIN:VEVENT")
}

func TestBuildCSV(t *testing.T) {
	svc := NewExportService()
	online := &models.Offering{
		CRN:       "11555",
		CourseKey: "PHYS 102",
		Title:     "General Physics",
		Status:    models.StatusOpen,
		Delivery:  models.DeliveryOnline,
	}

	out, err := svc.BuildCSV([]*models.Offering{exportOffering(), online})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"Course", "Title", "CRN", "Section", "Days", "Times",
		"Location", "Instructor", "Delivery", "Credits", "Status",
	}, records[0])

	assert.Equal(t, []string{
		"CS 100", "Intro to CS, Honors", "11192", "002", "MW",
		"08:30 - 09:50", "KUPF 117", "Garcia, Maria", "In-Person", "3", "Open",
	}, records[1])

	// An offering without meetings gets TBA placeholders.
	assert.Equal(t, "TBA", records[2][4])
	assert.Equal(t, "TBA", records[2][5])
	assert.Equal(t, "", records[2][6])
}
