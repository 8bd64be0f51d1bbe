package parser

import (
	"strconv"
	"strings"

	"chamber/internal/cst"
	"chamber/internal/diag"
)

// validateHeader runs the header checks in a fixed order: required fields,
// duplicates, per-field syntax, then field order.
func (p *Parser) validateHeader(header *cst.Node) {
	hrng := p.headerRange(header)

	var xs []fieldInfo
	hasK, hasT := false, false
	for _, f := range p.header {
		switch f.label {
		case 'X':
			xs = append(xs, f)
		case 'K':
			hasK = true
		case 'T':
			hasT = true
		}
	}

	if len(xs) == 0 {
		diag.Report(p.sink, diag.MissingReferenceNumber, hrng, "missing reference number field (X:)").
			WithFix("insert 'X:1'", diag.InsertText(0, "X:1\n")).
			Emit()
	}
	for _, dup := range xs[min(1, len(xs)):] {
		diag.Report(p.sink, diag.DuplicateReferenceNumber, dup.rng, "duplicate reference number field").
			WithLabel(xs[0].rng, "first X: defined here").
			Emit()
	}
	if !hasK {
		end, closed := p.headerEnd(header)
		text := "K:C\n"
		if !closed {
			text = "\n" + text
		}
		diag.Report(p.sink, diag.MissingKeyField, hrng, "missing key field (K:)").
			WithFix("insert 'K:C'", diag.InsertText(end, text)).
			Emit()
	}
	if !hasT {
		p.report(diag.MissingTitle, hrng, "missing title field (T:)")
	}

	for _, f := range p.header {
		switch f.label {
		case 'X':
			p.checkReferenceNumber(f)
		case 'T':
			if strings.TrimSpace(f.value) == "" {
				p.report(diag.EmptyTitle, f.rng, "empty title field")
			}
		case 'M':
			p.checkMeter(f)
		case 'Q':
			p.checkTempo(f)
		case 'L':
			p.checkUnitNoteLength(f)
		case 'K':
			p.checkKey(f)
		}
	}

	if len(p.header) > 0 && p.header[0].label != 'X' {
		p.report(diag.InvalidFieldOrder, p.header[0].rng,
			"X: (reference number) should be the first field in the header")
	}
}

func (p *Parser) checkReferenceNumber(f fieldInfo) {
	if f.value == "" {
		p.report(diag.EmptyReferenceNumber, f.rng, "empty reference number field")
		return
	}
	if !isUint32(f.value) {
		p.report(diag.InvalidReferenceNumber, f.rng,
			"invalid reference number '"+f.value+"' (must be a positive integer)")
	}
}

func (p *Parser) checkMeter(f fieldInfo) {
	if ValidMeter(f.value) {
		return
	}
	p.report(diag.InvalidMeterValue, f.rng,
		"invalid meter value '"+f.value+"' (expected format: 4/4, 3/4, C, C|)")
}

func (p *Parser) checkTempo(f fieldInfo) {
	if msg, ok := CheckTempo(f.value); !ok {
		p.report(diag.InvalidTempo, f.rng, msg)
	}
}

func (p *Parser) checkUnitNoteLength(f fieldInfo) {
	if f.value == "" {
		return
	}
	if _, _, ok := parseFraction(f.value); !ok {
		p.report(diag.InvalidUnitNoteLength, f.rng,
			"invalid unit note length '"+f.value+"' (expected format: 1/4, 1/8)")
	}
}

func (p *Parser) checkKey(f fieldInfo) {
	if msg, ok := CheckKey(f.value); !ok {
		p.report(diag.InvalidKeySignature, f.rng, msg)
	}
}

// ValidMeter accepts "", "C", "C|", "none" and n/d with d > 0.
func ValidMeter(value string) bool {
	value = strings.TrimSpace(value)
	switch value {
	case "", "C", "C|", "none":
		return true
	}
	_, _, ok := parseFraction(value)
	return ok
}

// CheckTempo validates a Q: value: an optional quoted name followed by
// "bpm" or "note=bpm". The message describes the first problem found.
func CheckTempo(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", true
	}
	if strings.HasPrefix(value, `"`) {
		if end := strings.IndexByte(value[1:], '"'); end >= 0 {
			value = strings.TrimSpace(value[end+2:])
		}
	}
	if value == "" {
		return "", true
	}

	notePart, bpmPart, hasEq := strings.Cut(value, "=")
	if !hasEq {
		if !isUint32(value) {
			return "invalid tempo value '" + value + "' (expected format: 120 or 1/4=120)", false
		}
		return "", true
	}

	notePart = strings.TrimSpace(notePart)
	if strings.Contains(notePart, "/") {
		if _, _, ok := parseFraction(notePart); !ok {
			return "invalid tempo note length '" + notePart + "'", false
		}
	} else if !isUint32(notePart) {
		return "invalid tempo note length '" + notePart + "'", false
	}

	bpmPart = strings.TrimSpace(bpmPart)
	if !isUint32(bpmPart) {
		return "invalid tempo BPM '" + bpmPart + "'", false
	}
	return "", true
}

var keyModes = [...]string{
	"m", "min", "minor",
	"maj", "major",
	"mix", "mixolydian",
	"dor", "dorian",
	"phr", "phrygian",
	"lyd", "lydian",
	"loc", "locrian",
	"exp",
}

// CheckKey validates a K: value: tonic A-G, optional '#' or 'b', optional
// mode matched by prefix, or one of "none", "HP", "Hp".
func CheckKey(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "empty key field (K:)", false
	}
	switch value {
	case "none", "HP", "Hp":
		return "", true
	}
	tonic := value[0]
	if tonic < 'A' || tonic > 'G' {
		return "invalid key '" + value + "' (must start with A-G)", false
	}
	rest := value[1:]
	if len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		rest = rest[1:]
	}
	if rest == "" || strings.TrimSpace(rest) == "" {
		return "", true
	}
	mode := strings.ToLower(strings.TrimLeft(rest, " \t"))
	for _, m := range keyModes {
		if strings.HasPrefix(mode, m) {
			return "", true
		}
	}
	return "invalid key mode '" + mode + "' for key " + string(tonic), false
}

// parseFraction parses "n/d" with optional spaces around both parts; d must be > 0.
func parseFraction(s string) (num, den uint32, ok bool) {
	a, b, found := strings.Cut(s, "/")
	if !found {
		return 0, 0, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(a), 10, 32)
	if err != nil {
		return 0, 0, false
	}
	d, err := strconv.ParseUint(strings.TrimSpace(b), 10, 32)
	if err != nil || d == 0 {
		return 0, 0, false
	}
	return uint32(n), uint32(d), true
}

func isUint32(s string) bool {
	_, err := strconv.ParseUint(s, 10, 32)
	return err == nil
}
