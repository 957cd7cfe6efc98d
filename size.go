package main

import (
	"fmt"
	"time"
)

// Timestamp layouts used by the renderers.
const (
	displayTimeLayout = "2006-01-02 15:04"
	isoTimeLayout     = "2006-01-02T15:04:05"
	isoMicroLayout    = "2006-01-02T15:04:05.000000"
	csvTimeLayout     = "2006-01-02T15:04:05"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// formatSize renders a byte count with one decimal in 1024-based units.
// Ties round half to even, as fmt does for exactly representable values.
func formatSize(sizeBytes int64) string {
	if sizeBytes == 0 {
		return "0 B"
	}

	size := float64(sizeBytes)
	for _, unit := range sizeUnits {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.1f PB", size)
}

func formatDisplayTime(t time.Time) string {
	return t.Format(displayTimeLayout)
}

// formatISOTime prints six microsecond digits whenever the microsecond part
// is non-zero, and none otherwise.
func formatISOTime(t time.Time) string {
	if t.Nanosecond()/1000 != 0 {
		return t.Format(isoMicroLayout)
	}
	return t.Format(isoTimeLayout)
}
