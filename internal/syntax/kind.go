package syntax

import "strconv"

// Kind tags every token and every lossless tree node.
type Kind uint8

// NodeBase is the first node kind. Everything below is a token kind.
const NodeBase Kind = 128

const (
	// Error marks a character sequence the lexer could not classify.
	Error Kind = iota
	// EOF marks the end of input. It always has an empty range.
	EOF

	// Whitespace is a run of spaces and tabs.
	Whitespace
	// Newline is "\n" or "\r\n".
	Newline
	// Comment runs from '%' to the end of the line.
	Comment
	// LineContinuation is a single '\'.
	LineContinuation

	// FieldLabel is the letter of a "X:" style field.
	FieldLabel
	// Colon follows a field label.
	Colon
	// Text is opaque field value text.
	Text

	// NoteName is a pitch letter A-G or a-g.
	NoteName
	// Rest is 'z' or 'Z'.
	Rest
	OctaveUp   // '
	OctaveDown // ,
	Sharp      // ^
	Natural    // =
	Flat       // _

	Bar          // |
	DoubleBar    // ||
	RepeatStart  // |:
	RepeatEnd    // :|
	ThinThickBar // |]
	ThickThinBar // [|

	LeftBracket  // [
	RightBracket // ]
	LeftParen    // (
	RightParen   // )
	LeftBrace    // {
	RightBrace   // }

	// Tie is '-'.
	Tie
	// BrokenRhythm is a run of '>' or '<'.
	BrokenRhythm
	// TupletMarker is '(' followed by digits, e.g. "(3".
	TupletMarker
	// Decoration is "!name!" or "+name+".
	Decoration
	// Annotation is a quoted string.
	Annotation
	// Number is a run of decimal digits in the music body.
	Number
	// Slash separates duration numerator and denominator.
	Slash

	tokenEnd
)

const (
	// Tune is the root node.
	Tune Kind = NodeBase + iota
	Header
	HeaderField
	Body
	Note
	RestNode
	Chord
	BarLine
	Tuplet
	Slur
	GraceNotes
	BrokenRhythmNode
	TieNode
	InlineField
	Duration
	Accidental
	DecorationNode
	AnnotationNode

	nodeEnd
)

var kindNames = map[Kind]string{
	Error:            "ERROR",
	EOF:              "EOF",
	Whitespace:       "WHITESPACE",
	Newline:          "NEWLINE",
	Comment:          "COMMENT",
	LineContinuation: "LINE_CONTINUATION",
	FieldLabel:       "FIELD_LABEL",
	Colon:            "COLON",
	Text:             "TEXT",
	NoteName:         "NOTE_NAME",
	Rest:             "REST",
	OctaveUp:         "OCTAVE_UP",
	OctaveDown:       "OCTAVE_DOWN",
	Sharp:            "SHARP",
	Natural:          "NATURAL",
	Flat:             "FLAT",
	Bar:              "BAR",
	DoubleBar:        "DOUBLE_BAR",
	RepeatStart:      "REPEAT_START",
	RepeatEnd:        "REPEAT_END",
	ThinThickBar:     "THIN_THICK_BAR",
	ThickThinBar:     "THICK_THIN_BAR",
	LeftBracket:      "L_BRACKET",
	RightBracket:     "R_BRACKET",
	LeftParen:        "L_PAREN",
	RightParen:       "R_PAREN",
	LeftBrace:        "L_BRACE",
	RightBrace:       "R_BRACE",
	Tie:              "TIE",
	BrokenRhythm:     "BROKEN_RHYTHM",
	TupletMarker:     "TUPLET_MARKER",
	Decoration:       "DECORATION",
	Annotation:       "ANNOTATION",
	Number:           "NUMBER",
	Slash:            "SLASH",

	Tune:             "TUNE",
	Header:           "HEADER",
	HeaderField:      "HEADER_FIELD",
	Body:             "BODY",
	Note:             "NOTE",
	RestNode:         "REST_NODE",
	Chord:            "CHORD",
	BarLine:          "BAR_LINE",
	Tuplet:           "TUPLET",
	Slur:             "SLUR",
	GraceNotes:       "GRACE_NOTES",
	BrokenRhythmNode: "BROKEN_RHYTHM_NODE",
	TieNode:          "TIE_NODE",
	InlineField:      "INLINE_FIELD",
	Duration:         "DURATION",
	Accidental:       "ACCIDENTAL",
	DecorationNode:   "DECORATION_NODE",
	AnnotationNode:   "ANNOTATION_NODE",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsToken reports whether k is a terminal kind.
func (k Kind) IsToken() bool { return k < tokenEnd }

// IsNode reports whether k is a composite node kind.
func (k Kind) IsNode() bool { return k >= NodeBase && k < nodeEnd }

// IsTrivia reports whether k is whitespace, a newline, a comment or a line continuation.
func (k Kind) IsTrivia() bool {
	switch k {
	case Whitespace, Newline, Comment, LineContinuation:
		return true
	default:
		return false
	}
}

// IsBar reports whether k is any bar-line variant.
func (k Kind) IsBar() bool {
	switch k {
	case Bar, DoubleBar, RepeatStart, RepeatEnd, ThinThickBar, ThickThinBar:
		return true
	default:
		return false
	}
}

// IsAccidental reports whether k is '^', '=' or '_'.
func (k Kind) IsAccidental() bool {
	return k == Sharp || k == Natural || k == Flat
}

// TokenKinds returns every token kind in numeric order.
func TokenKinds() []Kind {
	out := make([]Kind, 0, int(tokenEnd))
	for k := Error; k < tokenEnd; k++ {
		out = append(out, k)
	}
	return out
}

// NodeKinds returns every node kind in numeric order.
func NodeKinds() []Kind {
	out := make([]Kind, 0, int(nodeEnd-NodeBase))
	for k := NodeBase; k < nodeEnd; k++ {
		out = append(out, k)
	}
	return out
}
