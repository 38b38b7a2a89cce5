// backend/src/utils/date_utils_test.go
package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRobust(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
		ok   bool
	}{
		{name: "day-first slashes", raw: "15/07/2023", want: time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "day-first dashes", raw: "01-02-2024", want: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "day-first dots", raw: "31.12.2023", want: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "with time component", raw: "15/07/2023 10:30:00", want: time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "two digit year", raw: "05/03/24", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "iso layout", raw: "2023-07-15", want: time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "serial day one", raw: "1", want: time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "serial mid 2023", raw: "45122", want: time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "serial zero rejected", raw: "0", ok: false},
		{name: "negative serial rejected", raw: "-3", ok: false},
		{name: "free text rejected", raw: "SALDO DO DIA", ok: false},
		{name: "empty rejected", raw: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDateRobust(tt.raw)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseDateRobustSerialAndTextAgree(t *testing.T) {
	fromSerial, ok := ParseDateRobust("1")
	require.True(t, ok)
	fromText, ok := ParseDateRobust("31/12/1899")
	require.True(t, ok)
	assert.True(t, fromSerial.Equal(fromText))
}

func TestMidnight(t *testing.T) {
	in := time.Date(2023, 7, 15, 18, 45, 12, 300, time.FixedZone("BRT", -3*3600))
	got := Midnight(in)
	assert.Equal(t, time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), got)
}
