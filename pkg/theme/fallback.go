package theme

import "sort"

// fallbackParent maps each derived variable key to the key it inherits from
// when the theme does not set it explicitly. The graph is static data; the
// resolver walks it with one generic function rather than per-key fallback
// expressions.
var fallbackParent = map[string]string{
	"primaryHover":       "primaryColor",
	"cardBg":             "bgSecondary",
	"cardBorder":         "borderPrimary",
	"buttonBg":           "primaryColor",
	"inputBg":            "bgTertiary",
	"inputBorder":        "borderSecondary",
	"inputFocus":         "primaryColor",
	"badgeBg":            "primaryColor",
	"progressBar":        "primaryColor",
	"progressBg":         "bgTertiary",
	"dragHandleColor":    "textMuted",
	"dragHandleHover":    "textAccent",
	"navBg":              "bgSecondary",
	"navBorder":          "borderPrimary",
	"navTabActive":       "primaryColor",
	"navTabInactive":     "textMuted",
	"navTabHover":        "textPrimary",
	"navTabActiveBorder": "primaryColor",
	"navMobileMenuBg":    "bgSecondary",
	"navMobileItemHover": "bgTertiary",
}

// baselineDefaults is the hardcoded dark baseline, one entry per variable
// key in the output vocabulary. Keys with a fallback parent normally
// inherit before this table is consulted; their entries matter only for
// keys the graph does not chain anywhere (e.g. buttonHover).
var baselineDefaults = map[string]string{
	"primaryColor":    "#3b82f6",
	"primaryHover":    "#2563eb",
	"bgPrimary":       "#111827",
	"bgSecondary":     "#1f2937",
	"bgTertiary":      "#374151",
	"textPrimary":     "#f9fafb",
	"textSecondary":   "#d1d5db",
	"textMuted":       "#9ca3af",
	"textAccent":      "#60a5fa",
	"borderPrimary":   "#374151",
	"borderSecondary": "#4b5563",
	"successColor":    "#22c55e",
	"warningColor":    "#f59e0b",
	"errorColor":      "#ef4444",

	"cardBg":     "#1f2937",
	"cardBorder": "#374151",

	"buttonBg":    "#3b82f6",
	"buttonHover": "#2563eb",

	"inputBg":     "#374151",
	"inputBorder": "#4b5563",
	"inputFocus":  "#3b82f6",

	"badgeBg":     "#3b82f6",
	"progressBar": "#3b82f6",
	"progressBg":  "#374151",

	"dragHandleColor": "#9ca3af",
	"dragHandleHover": "#60a5fa",

	"navBg":              "#1f2937",
	"navBorder":          "#374151",
	"navTabActive":       "#3b82f6",
	"navTabInactive":     "#9ca3af",
	"navTabHover":        "#f9fafb",
	"navTabActiveBorder": "#3b82f6",
	"navMobileMenuBg":    "#1f2937",
	"navMobileItemHover": "#374151",
}

// Keys returns the complete output vocabulary in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(baselineDefaults))
	for k := range baselineDefaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FallbackParent returns the designated fallback parent for key, if any.
func FallbackParent(key string) (string, bool) {
	p, ok := fallbackParent[key]
	return p, ok
}

// BaselineDefault returns the hardcoded baseline value for key. Unknown
// keys return the empty string.
func BaselineDefault(key string) string {
	return baselineDefaults[key]
}
