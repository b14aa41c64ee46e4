package theme

import (
	"strconv"
	"strings"
)

// CompareVersions compares two dot-separated version strings numerically,
// component by component, left to right. Missing trailing components count
// as 0, as do non-numeric components, so a comparison always reaches a
// decision ("1.2.0" < "1.10.0", "1.2" == "1.2.0", "abc" == "0").
// Returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}

	for i := 0; i < n; i++ {
		av := versionComponent(as, i)
		bv := versionComponent(bs, i)
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

// versionComponent returns the numeric value of component i, or 0 when the
// component is absent or not a non-negative integer.
func versionComponent(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
