package main

import (
	"testing"
	"time"
)

func TestFormatWeight(t *testing.T) {
	tests := []struct {
		name string
		v    int64
		unit string
		want string
	}{
		{"samples", 42, "samples", "42 samples"},
		{"count behaves like samples", 7, "count", "7 samples"},
		{"empty unit defaults to samples", 3, "", "3 samples"},
		{"nanoseconds", 1500000000, "nanoseconds", "1.5s"},
		{"bytes", 2048, "bytes", "2.0 KiB"},
		{"unknown unit passes through", 9, "widgets", "9 widgets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatWeight(tt.v, tt.unit); got != tt.want {
				t.Errorf("formatWeight(%d, %q) = %q, want %q", tt.v, tt.unit, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		b    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.b); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.b, got, tt.want)
		}
	}
}

func TestFormatNanos(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0s"},
		{250, "250ns"},
		{1500000, "1.5ms"},
		{90 * 1000 * 1000 * 1000, "1m30s"},
	}
	for _, tt := range tests {
		if got := formatNanos(tt.n); got != tt.want {
			t.Errorf("formatNanos(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		part, whole int64
		want        float64
	}{
		{50, 200, 25},
		{200, 200, 100},
		{0, 200, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := percentOf(tt.part, tt.whole); got != tt.want {
			t.Errorf("percentOf(%d, %d) = %v, want %v", tt.part, tt.whole, got, tt.want)
		}
	}
	if got := formatPercent(1, 3); got != "33.3%" {
		t.Errorf("formatPercent(1, 3) = %q, want 33.3%%", got)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{61 * time.Second, "00:01:01"},
		{3 * time.Hour, "03:00:00"},
		{25*time.Hour + 4*time.Minute + 5*time.Second, "25:04:05"},
		{-time.Second, "00:00:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.d); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
