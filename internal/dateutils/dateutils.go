// Package dateutils provides common date operations used throughout the application.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Date format constants for the source exports handled by the pipeline.
const (
	LayoutISO     = "2006-01-02" // Card export dates
	LayoutShortUS = "01/02/06"   // Partner export dates (two-digit year)
	LayoutUS      = "01/02/2006"
	LayoutCompact = "20060102" // used in synthesized identifiers
)

// CommonFormats is a list of formats to try when parsing dates of unknown origin.
var CommonFormats = []string{
	LayoutISO,
	LayoutUS,
	LayoutShortUS,
	"2006-01-02 15:04:05",
	"1/2/2006",
	"Jan 2, 2006",
}

// ParseDate attempts to parse a date string using multiple common formats.
// Returns the parsed time and the detected format.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = strings.TrimSpace(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// FormatUS formats a date as M/D/YYYY without zero padding, the shape the
// Partner adapter writes into posting and effective dates.
func FormatUS(date time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(date.Month()), date.Day(), date.Year())
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD).
func ToISODate(date time.Time) string {
	return date.Format(LayoutISO)
}
