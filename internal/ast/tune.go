package ast

import "chamber/internal/source"

// Tune is the root of the semantic tree.
type Tune struct {
	Header Header
	Body   Body
	Range  source.Range
}

// Header is the ordered list of fields before the body.
type Header struct {
	Fields []HeaderField
	Range  source.Range
}

// HeaderFieldKind says which field a label denotes.
type HeaderFieldKind uint8

const (
	FieldOther HeaderFieldKind = iota
	FieldReferenceNumber
	FieldTitle
	FieldComposer
	FieldMeter
	FieldUnitNoteLength
	FieldTempo
	FieldKey
)

// FieldKindOf maps a field label letter to its kind.
func FieldKindOf(label rune) HeaderFieldKind {
	switch label {
	case 'X':
		return FieldReferenceNumber
	case 'T':
		return FieldTitle
	case 'C':
		return FieldComposer
	case 'M':
		return FieldMeter
	case 'L':
		return FieldUnitNoteLength
	case 'Q':
		return FieldTempo
	case 'K':
		return FieldKey
	default:
		return FieldOther
	}
}

func (k HeaderFieldKind) String() string {
	switch k {
	case FieldReferenceNumber:
		return "reference_number"
	case FieldTitle:
		return "title"
	case FieldComposer:
		return "composer"
	case FieldMeter:
		return "meter"
	case FieldUnitNoteLength:
		return "unit_note_length"
	case FieldTempo:
		return "tempo"
	case FieldKey:
		return "key"
	default:
		return "other"
	}
}

// HeaderField is one "L:value" line. Value is trimmed.
type HeaderField struct {
	Kind  HeaderFieldKind
	Label rune
	Value string
	Range source.Range
}

// Field returns the first field of the given kind.
func (h *Header) Field(kind HeaderFieldKind) (HeaderField, bool) {
	for _, f := range h.Fields {
		if f.Kind == kind {
			return f, true
		}
	}
	return HeaderField{}, false
}

// Value returns the trimmed value of the first field of the given kind, or "".
func (h *Header) Value(kind HeaderFieldKind) string {
	f, _ := h.Field(kind)
	return f.Value
}

// Body is the ordered sequence of music elements.
type Body struct {
	Elements []Element
	Range    source.Range
}
