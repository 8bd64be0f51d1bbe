package format

import "fmt"

// Config selects the normalisations Format applies. The zero value changes
// nothing, like Passthrough.
type Config struct {
	// NormalizeNoteSpacing collapses whitespace runs in the body to one space
	// and drops indentation. Presence or absence of a gap is kept, because it
	// decides beaming.
	NormalizeNoteSpacing bool `toml:"normalize_note_spacing" yaml:"normalize_note_spacing" json:"normalize_note_spacing"`
	// SpaceAroundBars puts a space between a bar line and an adjacent note,
	// rest, chord, tuplet, slur, grace group or annotation on the same line.
	SpaceAroundBars bool `toml:"space_around_bars" yaml:"space_around_bars" json:"space_around_bars"`
	// AlignHeaderValues writes "T: value" instead of "T:value". Only used
	// together with NormalizeHeaderSpacing.
	AlignHeaderValues bool `toml:"align_header_values" yaml:"align_header_values" json:"align_header_values"`
	TrimTrailingWhitespace bool `toml:"trim_trailing_whitespace" yaml:"trim_trailing_whitespace" json:"trim_trailing_whitespace"`
	EnsureFinalNewline     bool `toml:"ensure_final_newline" yaml:"ensure_final_newline" json:"ensure_final_newline"`
	// NormalizeHeaderOrder sorts header fields X T C O A M L Q P Z N G H K.
	NormalizeHeaderOrder bool `toml:"normalize_header_order" yaml:"normalize_header_order" json:"normalize_header_order"`
	// NormalizeHeaderSpacing removes blanks around the colon and trims values.
	NormalizeHeaderSpacing bool `toml:"normalize_header_spacing" yaml:"normalize_header_spacing" json:"normalize_header_spacing"`
	RemoveEmptyHeaderLines bool `toml:"remove_empty_header_lines" yaml:"remove_empty_header_lines" json:"remove_empty_header_lines"`
	// NormalizeUnicode converts field text, annotations and comments to NFC.
	NormalizeUnicode bool `toml:"normalize_unicode" yaml:"normalize_unicode" json:"normalize_unicode"`
	// MaxLineWidth breaks long music lines after bar lines with a '\'
	// continuation; 0 means no limit.
	MaxLineWidth int `toml:"max_line_width" yaml:"max_line_width" json:"max_line_width"`
}

// Default is the preset used by `chamber fmt`.
func Default() Config {
	return Config{
		NormalizeNoteSpacing:   true,
		SpaceAroundBars:        true,
		TrimTrailingWhitespace: true,
		EnsureFinalNewline:     true,
		NormalizeHeaderSpacing: true,
		RemoveEmptyHeaderLines: true,
		NormalizeUnicode:       true,
	}
}

// Passthrough reproduces the input byte for byte.
func Passthrough() Config { return Config{} }

// Minimal only cleans line ends.
func Minimal() Config {
	return Config{
		TrimTrailingWhitespace: true,
		EnsureFinalNewline:     true,
	}
}

// PresetNames lists the names accepted by Preset.
var PresetNames = []string{"default", "minimal", "passthrough"}

// Preset returns a named preset.
func Preset(name string) (Config, error) {
	switch name {
	case "", "default":
		return Default(), nil
	case "minimal":
		return Minimal(), nil
	case "passthrough":
		return Passthrough(), nil
	default:
		return Config{}, fmt.Errorf("format: unknown preset %q (want one of %v)", name, PresetNames)
	}
}
