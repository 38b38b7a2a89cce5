// backend/src/utils/date_utils.go
package utils

import (
	"strconv"
	"strings"
	"time"
)

const DefaultDateFormat = "02/01/2006"

// serialEpoch is day 0 of the spreadsheet serial day-count convention.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dayFirstLayouts are tried in order when a value is not a serial number.
var dayFirstLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/06",
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// ParseDateRobust converts the heterogeneous date encodings found in statement
// exports into a calendar date at midnight UTC. It tries, in order: a
// spreadsheet-style serial day-count from the 1899-12-30 epoch, then day-first
// text layouts. The boolean is false when nothing matched; callers drop such
// rows rather than failing the batch.
func ParseDateRobust(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		return serialEpoch.AddDate(0, 0, int(serial)), true
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Midnight(t), true
		}
	}
	return time.Time{}, false
}

// Midnight normalizes a timestamp to its calendar date in UTC. Reconciliation
// keys are built on dates, never instants.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
