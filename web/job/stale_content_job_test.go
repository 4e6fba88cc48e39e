package job

import (
	"testing"
	"time"

	"github.com/AlvanCjh/paddock-panel/paddock"
)

func post(updated, scanned time.Time) paddock.BlogPost {
	return paddock.BlogPost{
		UpdatedAt:  paddock.Timestamp{Time: updated},
		LastScanAt: paddock.Timestamp{Time: scanned},
	}
}

func TestCountNeedingScan(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	skew := 2 * time.Second

	tests := []struct {
		name     string
		posts    []paddock.BlogPost
		expected int
	}{
		{
			name:     "empty feed",
			posts:    nil,
			expected: 0,
		},
		{
			name: "never scanned counts",
			posts: []paddock.BlogPost{
				post(base, time.Time{}),
			},
			expected: 1,
		},
		{
			name: "scan inside skew does not count",
			posts: []paddock.BlogPost{
				post(base, base.Add(-skew)),
			},
			expected: 0,
		},
		{
			name: "edit past skew counts",
			posts: []paddock.BlogPost{
				post(base, base.Add(-skew-time.Millisecond)),
			},
			expected: 1,
		},
		{
			name: "mixed feed counts only the stale ones",
			posts: []paddock.BlogPost{
				post(base, base),
				post(base, time.Time{}),
				post(base, base.Add(-time.Hour)),
				post(base, base.Add(time.Second)),
			},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CountNeedingScan(tt.posts, skew)
			if result != tt.expected {
				t.Errorf("CountNeedingScan() = %v, expected %v", result, tt.expected)
			}
		})
	}
}
