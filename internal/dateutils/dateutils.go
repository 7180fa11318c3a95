// Package dateutils provides the date parsing shared by the import paths.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date format constants used throughout the application
const (
	LayoutISO      = "2006-01-02"
	LayoutFrench   = "02/01/2006"
	LayoutEuropean = "02.01.2006"
	LayoutFull     = "2006-01-02 15:04:05"
)

// CommonFormats is the list of formats tried in order when parsing dates.
// French bank exports use dd/mm/yyyy, so that comes before any US layout.
var CommonFormats = []string{
	LayoutISO,
	time.RFC3339,
	LayoutFrench,
	LayoutEuropean,
	LayoutFull,
	"02/01/06",
	"02-01-2006",
	"2006/01/02",
}

// serialEpochOffset is the number of days between the spreadsheet serial
// epoch (1899-12-30, accounting for the Lotus leap-year bug) and the Unix
// epoch.
const serialEpochOffset = 25569

// ParseDate parses a date string using the common formats.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// FromSerial converts a spreadsheet serial day count to a UTC timestamp.
// Serial 25569 is 1970-01-01; fractional days carry the time of day.
func FromSerial(serial float64) time.Time {
	seconds := (serial - serialEpochOffset) * 86400
	return time.Unix(int64(seconds+0.5), 0).UTC()
}

// CleanDateString trims and collapses whitespace in a date string.
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	re := regexp.MustCompile(`\s+`)
	return re.ReplaceAllString(dateStr, " ")
}

// Truncate returns the date at midnight UTC. Time of day is not significant
// for fingerprint matching.
func Truncate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ToISODate formats a time as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(LayoutISO)
}
