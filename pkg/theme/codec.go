package theme

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ParseError reports a definition that could not be accepted: either the
// text is not valid TOML, or a required field or section is absent.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("theme: parse definition: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("theme: parse definition: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// wireTheme is the TOML-serializable representation of a Theme. The wire
// format keeps the original isCommunityTheme/basedOn encoding; the codec
// maps it to and from the Provenance variant.
type wireTheme struct {
	Meta   wireMeta          `toml:"meta"`
	Colors map[string]string `toml:"colors"`
	Custom map[string]string `toml:"custom,omitempty"`
	CSS    map[string]string `toml:"css,omitempty"`
}

type wireMeta struct {
	ID               string `toml:"id"`
	Name             string `toml:"name"`
	Description      string `toml:"description,omitempty"`
	Author           string `toml:"author,omitempty"`
	Version          string `toml:"version,omitempty"`
	IsDark           bool   `toml:"isDark"`
	IsCommunityTheme bool   `toml:"isCommunityTheme,omitempty"`
	BasedOn          string `toml:"basedOn,omitempty"`
}

// Parse decodes a definition text into a Theme. It fails with a *ParseError
// when the text is not valid TOML, when meta.id or meta.name is absent, or
// when the [colors] section is missing entirely. No defaulting happens
// here: the returned maps contain exactly the pairs present in the text.
func Parse(text string) (Theme, error) {
	var w wireTheme
	md, err := toml.Decode(text, &w)
	if err != nil {
		return Theme{}, &ParseError{Reason: "invalid TOML", Err: err}
	}

	if !md.IsDefined("meta", "id") || w.Meta.ID == "" {
		return Theme{}, &ParseError{Reason: "missing required field \"meta.id\""}
	}
	if !md.IsDefined("meta", "name") || w.Meta.Name == "" {
		return Theme{}, &ParseError{Reason: "missing required field \"meta.name\""}
	}
	if !md.IsDefined("colors") {
		return Theme{}, &ParseError{Reason: "missing required section [colors]"}
	}
	if w.Colors == nil {
		w.Colors = map[string]string{}
	}

	prov := ProvenanceCustom
	if w.Meta.IsCommunityTheme {
		prov = ProvenanceCommunity
	}

	t := Theme{
		Meta: Meta{
			ID:          w.Meta.ID,
			Name:        w.Meta.Name,
			Description: w.Meta.Description,
			Author:      w.Meta.Author,
			Version:     w.Meta.Version,
			IsDark:      w.Meta.IsDark,
			Provenance:  prov,
			BasedOn:     w.Meta.BasedOn,
		},
		Colors: w.Colors,
		Custom: w.Custom,
	}
	t.CSS = w.CSS["content"]
	return t, nil
}

// Export serializes a theme back into definition text: the [meta] block,
// then [colors], then [custom] if non-empty, then [css] with the raw
// fragment. Parse(Export(t)) reproduces t's meta, colors and custom maps
// exactly, and the css fragment verbatim; the TOML encoder handles value
// escaping, so quotes and newlines inside values survive the round trip.
func Export(t Theme) (string, error) {
	w := wireTheme{
		Meta: wireMeta{
			ID:               t.Meta.ID,
			Name:             t.Meta.Name,
			Description:      t.Meta.Description,
			Author:           t.Meta.Author,
			Version:          t.Meta.Version,
			IsDark:           t.Meta.IsDark,
			IsCommunityTheme: t.Meta.Provenance == ProvenanceCommunity,
			BasedOn:          t.Meta.BasedOn,
		},
		Colors: t.Colors,
		Custom: t.Custom,
	}
	if w.Colors == nil {
		w.Colors = map[string]string{}
	}
	if len(w.Custom) == 0 {
		w.Custom = nil
	}
	if t.CSS != "" {
		w.CSS = map[string]string{"content": t.CSS}
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(w); err != nil {
		return "", fmt.Errorf("theme: encode definition: %w", err)
	}
	return buf.String(), nil
}
