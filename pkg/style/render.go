package style

import (
	"sort"
	"strings"
	"unicode"

	"gitlab.com/tinyland/lab/themedeck/pkg/theme"
)

// Render produces the stylesheet text for a resolved variable set: a
// ":root" block of custom properties (resolved variables first, custom
// entries after, each group sorted by key), followed by the theme's raw
// css fragment verbatim. Identity markers are emitted as data attribute
// selectors so dependent styles can key off the active theme.
func Render(res theme.Resolved, meta theme.Meta) string {
	var b strings.Builder

	b.WriteString(":root {\n")
	for _, key := range sortedKeys(res.Vars) {
		b.WriteString("  ")
		b.WriteString(CSSVarName(key))
		b.WriteString(": ")
		b.WriteString(res.Vars[key])
		b.WriteString(";\n")
	}
	for _, key := range sortedKeys(res.Custom) {
		b.WriteString("  ")
		b.WriteString(CSSVarName(key))
		b.WriteString(": ")
		b.WriteString(res.Custom[key])
		b.WriteString(";\n")
	}
	b.WriteString("}\n")

	if meta.ID != "" {
		b.WriteString(":root {\n")
		b.WriteString("  --active-theme: \"" + meta.ID + "\";\n")
		if meta.IsDark {
			b.WriteString("  color-scheme: dark;\n")
		} else {
			b.WriteString("  color-scheme: light;\n")
		}
		b.WriteString("}\n")
	}

	if css := strings.TrimRight(res.CSS, "\n"); css != "" {
		b.WriteString(css)
		b.WriteString("\n")
	}

	return b.String()
}

// CSSVarName converts a camelCase variable key to its --kebab-case custom
// property name ("primaryColor" -> "--primary-color").
func CSSVarName(key string) string {
	var b strings.Builder
	b.WriteString("--")
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
