package main

import (
	"fmt"
	"time"
)

// formatWeight renders a tree weight according to the ingested profile's
// unit.
func formatWeight(v int64, unit string) string {
	switch unit {
	case "nanoseconds":
		return formatNanos(v)
	case "bytes":
		return formatBytes(v)
	case "", "count", "samples":
		return fmt.Sprintf("%d samples", v)
	default:
		return fmt.Sprintf("%d %s", v, unit)
	}
}

// formatBytes converts bytes to a human-readable string (KiB, MiB, GiB).
func formatBytes(b int64) string {
	if b == 0 {
		return "0 B"
	}
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

func formatNanos(n int64) string {
	if n == 0 {
		return "0s"
	}
	return time.Duration(n).String()
}

// formatPercent renders part/whole as a percentage with one decimal. A zero
// whole reads as 0%.
func formatPercent(part, whole int64) string {
	return fmt.Sprintf("%.1f%%", percentOf(part, whole))
}

func percentOf(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}

// formatClock renders an elapsed duration as HH:MM:SS for the live header.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
