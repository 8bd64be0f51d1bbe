package diag

import "fmt"

// Code is a stable diagnostic identifier. The string form ("H001") and the
// default severity and message of every code are part of the public contract.
type Code uint8

const (
	// Неизвестная ошибка
	UnknownCode Code = iota

	// Лексические
	UnexpectedCharacter
	UnterminatedDecoration
	UnterminatedAnnotation

	// Заголовок
	MissingReferenceNumber
	MissingKeyField
	DuplicateReferenceNumber
	InvalidFieldOrder
	InvalidMeterValue
	InvalidTempo
	InvalidUnitNoteLength
	InvalidKeySignature
	MissingTitle
	EmptyTitle
	EmptyReferenceNumber
	InvalidReferenceNumber

	// Тело мелодии
	UnclosedChord
	UnclosedSlur
	UnclosedGraceNotes
	UnexpectedClosingBracket
	UnexpectedClosingParen
	UnexpectedClosingBrace
	InvalidNoteName
	InvalidAccidental
	InvalidDuration
	EmptyChord
	EmptyTuplet
	TupletNoteMismatch
	UnclosedInlineField
	UnknownDecoration

	// Структура
	EmptyTune
	UnexpectedToken

	// Стиль
	UnusualOctave
	SuspiciousDuration
	BarLengthMismatch

	// Ввод-вывод драйвера
	IOLoadFileError

	codeEnd
)

// Category groups codes by the stage that detects them.
type Category uint8

const (
	CategoryLexical Category = iota
	CategoryHeader
	CategoryMusic
	CategoryStructural
	CategoryStyle
	CategoryIO
)

func (c Category) String() string {
	switch c {
	case CategoryLexical:
		return "lexical"
	case CategoryHeader:
		return "header"
	case CategoryMusic:
		return "music"
	case CategoryStructural:
		return "structural"
	case CategoryStyle:
		return "style"
	case CategoryIO:
		return "io"
	}
	return "unknown"
}

type codeInfo struct {
	id       string
	name     string
	category Category
	severity Severity
	message  string
}

var codeTable = [...]codeInfo{
	UnknownCode: {"E000", "Unknown", CategoryStructural, SevError, "unknown diagnostic"},

	UnexpectedCharacter:    {"L001", "UnexpectedCharacter", CategoryLexical, SevError, "unexpected character"},
	UnterminatedDecoration: {"L002", "UnterminatedDecoration", CategoryLexical, SevError, "unterminated decoration"},
	UnterminatedAnnotation: {"L003", "UnterminatedAnnotation", CategoryLexical, SevError, "unterminated annotation"},

	MissingReferenceNumber:   {"H001", "MissingReferenceNumber", CategoryHeader, SevError, "missing reference number field (X:)"},
	MissingKeyField:          {"H002", "MissingKeyField", CategoryHeader, SevError, "missing key field (K:)"},
	DuplicateReferenceNumber: {"H003", "DuplicateReferenceNumber", CategoryHeader, SevError, "duplicate reference number field"},
	InvalidFieldOrder:        {"H004", "InvalidFieldOrder", CategoryHeader, SevWarning, "X: (reference number) should be the first field in the header"},
	InvalidMeterValue:        {"H005", "InvalidMeterValue", CategoryHeader, SevError, "invalid meter value"},
	InvalidTempo:             {"H006", "InvalidTempo", CategoryHeader, SevError, "invalid tempo"},
	InvalidUnitNoteLength:    {"H007", "InvalidUnitNoteLength", CategoryHeader, SevError, "invalid unit note length"},
	InvalidKeySignature:      {"H008", "InvalidKeySignature", CategoryHeader, SevError, "invalid key signature"},
	MissingTitle:             {"H009", "MissingTitle", CategoryHeader, SevWarning, "missing title field (T:)"},
	EmptyTitle:               {"H010", "EmptyTitle", CategoryHeader, SevWarning, "empty title field"},
	EmptyReferenceNumber:     {"H011", "EmptyReferenceNumber", CategoryHeader, SevError, "empty reference number field"},
	InvalidReferenceNumber:   {"H012", "InvalidReferenceNumber", CategoryHeader, SevError, "invalid reference number (must be a positive integer)"},

	UnclosedChord:            {"M001", "UnclosedChord", CategoryMusic, SevError, "unclosed chord, missing ']'"},
	UnclosedSlur:             {"M002", "UnclosedSlur", CategoryMusic, SevError, "unclosed slur, missing ')'"},
	UnclosedGraceNotes:       {"M003", "UnclosedGraceNotes", CategoryMusic, SevError, "unclosed grace notes, missing '}'"},
	UnexpectedClosingBracket: {"M004", "UnexpectedClosingBracket", CategoryMusic, SevError, "unexpected ']' without matching '['"},
	UnexpectedClosingParen:   {"M005", "UnexpectedClosingParen", CategoryMusic, SevError, "unexpected ')' without matching '('"},
	UnexpectedClosingBrace:   {"M006", "UnexpectedClosingBrace", CategoryMusic, SevError, "unexpected '}' without matching '{'"},
	InvalidNoteName:          {"M007", "InvalidNoteName", CategoryMusic, SevError, "invalid note name"},
	InvalidAccidental:        {"M008", "InvalidAccidental", CategoryMusic, SevError, "invalid accidental"},
	InvalidDuration:          {"M009", "InvalidDuration", CategoryMusic, SevError, "invalid duration: denominator cannot be zero"},
	EmptyChord:               {"M010", "EmptyChord", CategoryMusic, SevWarning, "empty chord"},
	EmptyTuplet:              {"M011", "EmptyTuplet", CategoryMusic, SevWarning, "empty tuplet"},
	TupletNoteMismatch:       {"M012", "TupletNoteMismatch", CategoryMusic, SevWarning, "tuplet note count mismatch"},
	UnclosedInlineField:      {"M013", "UnclosedInlineField", CategoryMusic, SevError, "unclosed inline field, missing ']'"},
	UnknownDecoration:        {"M014", "UnknownDecoration", CategoryMusic, SevError, "unknown decoration"},

	EmptyTune:       {"S001", "EmptyTune", CategoryStructural, SevWarning, "empty tune (no header or body content)"},
	UnexpectedToken: {"S002", "UnexpectedToken", CategoryStructural, SevWarning, "unexpected token"},

	UnusualOctave:      {"W001", "UnusualOctave", CategoryStyle, SevWarning, "unusual octave"},
	SuspiciousDuration: {"W002", "SuspiciousDuration", CategoryStyle, SevWarning, "suspicious duration"},
	BarLengthMismatch:  {"W003", "BarLengthMismatch", CategoryStyle, SevWarning, "bar length does not match meter"},

	IOLoadFileError: {"I001", "IOLoadFileError", CategoryIO, SevError, "failed to load file"},
}

var codeByID = func() map[string]Code {
	m := make(map[string]Code, len(codeTable))
	for c := UnknownCode + 1; c < codeEnd; c++ {
		m[codeTable[c].id] = c
	}
	return m
}()

func (c Code) info() codeInfo {
	if c >= codeEnd {
		return codeTable[UnknownCode]
	}
	return codeTable[c]
}

// ID returns the stable short identifier, e.g. "M001".
func (c Code) ID() string { return c.info().id }

// Name returns the descriptive name, e.g. "UnclosedChord".
func (c Code) Name() string { return c.info().name }

// Title returns the default message template.
func (c Code) Title() string { return c.info().message }

// DefaultSeverity returns the severity used when a diagnostic is built with New.
func (c Code) DefaultSeverity() Severity { return c.info().severity }

// Category returns the stage that detects the code.
func (c Code) Category() Category { return c.info().category }

func (c Code) String() string { return c.ID() }

// GoString keeps %#v output readable in test failures.
func (c Code) GoString() string {
	return fmt.Sprintf("diag.%s", c.Name())
}

// ParseCode resolves "H001" style identifiers.
func ParseCode(id string) (Code, bool) {
	c, ok := codeByID[id]
	return c, ok
}

// AllCodes lists every known code in numeric order.
func AllCodes() []Code {
	out := make([]Code, 0, int(codeEnd)-1)
	for c := UnknownCode + 1; c < codeEnd; c++ {
		out = append(out, c)
	}
	return out
}
