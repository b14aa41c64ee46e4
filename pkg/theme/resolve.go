package theme

// Resolved is the complete, fully-defaulted set of display variables
// computed from a possibly sparse theme. Vars contains a value for every
// key in the output vocabulary plus any explicit keys outside it; Custom
// is the theme's custom map passed through unresolved, and CSS the raw
// fragment carried along for the style applier.
type Resolved struct {
	Vars   map[string]string
	Custom map[string]string
	CSS    string
}

// Resolve computes the full variable set for a theme. For each vocabulary
// key the value is, in priority order: the explicit entry in the theme's
// color map, the recursively resolved value of the key's fallback parent,
// or the hardcoded baseline default. Resolution is pure: no I/O, and equal
// themes always resolve to equal results.
func Resolve(t Theme) Resolved {
	vars := make(map[string]string, len(baselineDefaults)+len(t.Colors))

	for key := range baselineDefaults {
		vars[key] = resolveKey(t.Colors, key, nil)
	}

	// Explicit keys outside the vocabulary pass through untouched.
	for key, value := range t.Colors {
		if _, known := baselineDefaults[key]; !known {
			vars[key] = value
		}
	}

	return Resolved{
		Vars:   vars,
		Custom: cloneMap(t.Custom),
		CSS:    t.CSS,
	}
}

// resolveKey walks the fallback graph for a single key. The seen map
// guards against cycles in a miswritten graph; on a cycle the baseline
// default wins.
func resolveKey(colors map[string]string, key string, seen map[string]bool) string {
	if v, ok := colors[key]; ok && v != "" {
		return v
	}
	if parent, ok := fallbackParent[key]; ok && !seen[key] {
		if seen == nil {
			seen = make(map[string]bool)
		}
		seen[key] = true
		return resolveKey(colors, parent, seen)
	}
	return baselineDefaults[key]
}
