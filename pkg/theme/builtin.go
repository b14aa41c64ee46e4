package theme

// Builtins returns freshly cloned copies of the two reserved themes. They
// are constructed in memory at process start and never persisted.
func Builtins() []Theme {
	return []Theme{darkDefault(), lightDefault()}
}

// Builtin returns the reserved theme for id, or false for any other id.
func Builtin(id string) (Theme, bool) {
	switch id {
	case DarkDefaultID:
		return darkDefault(), true
	case LightDefaultID:
		return lightDefault(), true
	}
	return Theme{}, false
}

// darkDefault is the baseline dark theme. Its colors match the hardcoded
// baseline defaults, so resolving it is a no-op beyond filling the map.
func darkDefault() Theme {
	return Theme{
		Meta: Meta{
			ID:          DarkDefaultID,
			Name:        "Dark Default",
			Description: "Default dark theme",
			Author:      "themedeck",
			Version:     "1.0.0",
			IsDark:      true,
			Provenance:  ProvenanceBuiltin,
		},
		Colors: map[string]string{
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
		},
	}
}

// lightDefault is the baseline light theme.
func lightDefault() Theme {
	return Theme{
		Meta: Meta{
			ID:          LightDefaultID,
			Name:        "Light Default",
			Description: "Default light theme",
			Author:      "themedeck",
			Version:     "1.0.0",
			IsDark:      false,
			Provenance:  ProvenanceBuiltin,
		},
		Colors: map[string]string{
			"primaryColor":    "#2563eb",
			"primaryHover":    "#1d4ed8",
			"bgPrimary":       "#f9fafb",
			"bgSecondary":     "#ffffff",
			"bgTertiary":      "#f3f4f6",
			"textPrimary":     "#111827",
			"textSecondary":   "#374151",
			"textMuted":       "#6b7280",
			"textAccent":      "#2563eb",
			"borderPrimary":   "#e5e7eb",
			"borderSecondary": "#d1d5db",
			"successColor":    "#16a34a",
			"warningColor":    "#d97706",
			"errorColor":      "#dc2626",
		},
	}
}
