// Package theme defines the portable theme definition format for the
// dashboard: the Theme data model, the TOML codec that parses and
// serializes definitions, and the resolver that expands a sparse color
// map into the complete set of display variables.
package theme

import (
	"fmt"
	"strings"
)

// Reserved built-in theme ids. Both are constructed in memory at startup,
// are never persisted to the storage backend, and can never be deleted.
const (
	DarkDefaultID  = "dark-default"
	LightDefaultID = "light-default"
)

// ForkSuffix is appended to a community theme's id when an edit forks it.
const ForkSuffix = "-custom"

// Provenance classifies where a theme came from. The classification is
// exhaustive: a theme is exactly one of built-in, community (installed from
// the remote catalog) or custom (user-authored, possibly forked from a
// community theme).
type Provenance int

const (
	ProvenanceCustom Provenance = iota
	ProvenanceBuiltin
	ProvenanceCommunity
)

func (p Provenance) String() string {
	switch p {
	case ProvenanceBuiltin:
		return "builtin"
	case ProvenanceCommunity:
		return "community"
	default:
		return "custom"
	}
}

// Meta holds the identifying fields of a theme definition.
type Meta struct {
	ID          string
	Name        string
	Description string
	Author      string
	Version     string // dot-separated non-negative integers, e.g. "1.2.0"
	IsDark      bool
	Provenance  Provenance
	BasedOn     string // name of the source theme when forked
}

// Theme is a named, versioned bundle of display-variable values and an
// optional raw stylesheet fragment. Colors is sparse: any subset of the
// variable vocabulary may be present. Custom entries pass through the
// resolver untouched.
type Theme struct {
	Meta   Meta
	Colors map[string]string
	Custom map[string]string
	CSS    string
}

// IsBuiltinID reports whether id is one of the two reserved ids.
func IsBuiltinID(id string) bool {
	return id == DarkDefaultID || id == LightDefaultID
}

// ForkID derives the id a community theme is stored under once edited.
func ForkID(id string) string {
	return id + ForkSuffix
}

// Validate checks the invariants a theme must satisfy to enter the
// registry: a non-empty id and name, and a colors section (possibly empty,
// but present).
func (t Theme) Validate() error {
	if strings.TrimSpace(t.Meta.ID) == "" {
		return fmt.Errorf("theme: missing required field \"meta.id\"")
	}
	if strings.TrimSpace(t.Meta.Name) == "" {
		return fmt.Errorf("theme: missing required field \"meta.name\"")
	}
	if t.Colors == nil {
		return fmt.Errorf("theme: missing required section [colors]")
	}
	return nil
}

// Clone returns a deep copy of the theme. Registry lookups hand out clones
// so callers can never mutate registry state in place.
func (t Theme) Clone() Theme {
	c := t
	c.Colors = cloneMap(t.Colors)
	c.Custom = cloneMap(t.Custom)
	return c
}

// Fork returns a copy of a community theme rewritten as a custom theme:
// id gains the fork suffix, BasedOn records the original's name, and the
// provenance flips to custom. The receiver is not modified.
func Fork(t Theme) Theme {
	f := t.Clone()
	f.Meta.ID = ForkID(t.Meta.ID)
	f.Meta.BasedOn = t.Meta.Name
	f.Meta.Provenance = ProvenanceCustom
	return f
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
