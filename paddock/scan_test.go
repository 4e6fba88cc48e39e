package paddock

import (
	"testing"
	"time"
)

func TestStaleness(t *testing.T) {
	base := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		updatedAt  time.Time
		lastScanAt time.Time
		expected   ScanState
	}{
		{
			name:       "never scanned",
			updatedAt:  base,
			lastScanAt: time.Time{}, // zero time
			expected:   ScanStateNew,
		},
		{
			name:       "never scanned with old update",
			updatedAt:  base.Add(-48 * time.Hour),
			lastScanAt: time.Time{},
			expected:   ScanStateNew,
		},
		{
			name:       "scanned after last update",
			updatedAt:  base,
			lastScanAt: base.Add(10 * time.Second),
			expected:   ScanStateClean,
		},
		{
			name:       "update within skew window",
			updatedAt:  base.Add(1500 * time.Millisecond),
			lastScanAt: base,
			expected:   ScanStateClean,
		},
		{
			name:       "update exactly at skew boundary",
			updatedAt:  base.Add(2 * time.Second),
			lastScanAt: base,
			expected:   ScanStateClean,
		},
		{
			name:       "update one millisecond past boundary",
			updatedAt:  base.Add(2*time.Second + time.Millisecond),
			lastScanAt: base,
			expected:   ScanStateModified,
		},
		{
			name:       "update long after scan",
			updatedAt:  base.Add(3 * time.Hour),
			lastScanAt: base,
			expected:   ScanStateModified,
		},
		{
			name:       "scan and update simultaneous",
			updatedAt:  base,
			lastScanAt: base,
			expected:   ScanStateClean,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Staleness(tt.updatedAt, tt.lastScanAt, DefaultScanSkew)
			if result != tt.expected {
				t.Errorf("Staleness() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestStalenessIgnoresWallClock(t *testing.T) {
	// the predicate must depend only on the two stored timestamps, so the
	// same pair far in the past and far in the future must agree
	past := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2199, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{past, future} {
		if got := Staleness(at.Add(5*time.Second), at, DefaultScanSkew); got != ScanStateModified {
			t.Errorf("Staleness at %v = %v, expected ScanStateModified", at, got)
		}
		if got := Staleness(at, at, DefaultScanSkew); got != ScanStateClean {
			t.Errorf("Staleness at %v = %v, expected ScanStateClean", at, got)
		}
	}
}

func TestNeedsScan(t *testing.T) {
	base := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

	if !NeedsScan(base, time.Time{}) {
		t.Error("NeedsScan() = false for a never-scanned post, expected true")
	}
	if NeedsScan(base.Add(2*time.Second), base) {
		t.Error("NeedsScan() = true at exactly the skew boundary, expected false")
	}
	if !NeedsScan(base.Add(3*time.Second), base) {
		t.Error("NeedsScan() = false past the skew boundary, expected true")
	}
}

func TestScanStateLabel(t *testing.T) {
	tests := []struct {
		state    ScanState
		expected string
	}{
		{ScanStateNew, "New Content"},
		{ScanStateModified, "Modified"},
		{ScanStateClean, ""},
	}
	for _, tt := range tests {
		if got := tt.state.Label(); got != tt.expected {
			t.Errorf("Label() = %q, expected %q", got, tt.expected)
		}
	}
}
