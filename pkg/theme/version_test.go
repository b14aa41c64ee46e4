package theme

import "testing"

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.0.1", "1.0.0", 1},
		{"2.0.0", "1.9.9", 1},

		// Numeric, not lexicographic: "10" > "2".
		{"1.2.0", "1.10.0", -1},
		{"1.10.0", "1.2.0", 1},

		// Missing trailing components count as 0.
		{"1.2", "1.2.0", 0},
		{"1", "1.0.0", 0},
		{"1.2", "1.2.1", -1},

		// Non-numeric segments are tolerated as 0.
		{"abc", "0", 0},
		{"1.x.3", "1.0.3", 0},
		{"1.x", "1.1", -1},
		{"", "0.0.0", 0},
	}

	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
