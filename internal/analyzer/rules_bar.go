package analyzer

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"chamber/internal/ast"
	"chamber/internal/diag"
	"chamber/internal/source"
)

var barLengthRule = Rule{
	Name:     "barLength",
	Code:     diag.BarLengthMismatch,
	Category: CategoryLint,
	Docs:     "Warns when the notes of a bar do not add up to the meter.",
	Default:  true,
	Check:    checkBarLength,
}

// defaultUnit: L: по умолчанию.
var defaultUnit = big.NewRat(1, 8)

// meter is the expected bar length; ok is false for free meter.
type meter struct {
	text string
	len  *big.Rat
	ok   bool
}

// parseMeter понимает "C", "C|", "none" и n/d.
func parseMeter(value string) (meter, bool) {
	value = strings.TrimSpace(value)
	switch value {
	case "C":
		return meter{text: "4/4", len: big.NewRat(4, 4), ok: true}, true
	case "C|":
		return meter{text: "2/2", len: big.NewRat(2, 2), ok: true}, true
	case "none":
		return meter{text: value}, true
	}
	num, den, ok := fraction(value)
	if !ok {
		return meter{}, false
	}
	return meter{text: fmt.Sprintf("%d/%d", num, den), len: big.NewRat(num, den), ok: true}, true
}

func fraction(s string) (num, den int64, ok bool) {
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
	return int64(n), int64(d), true
}

func parseUnit(value string) (*big.Rat, bool) {
	num, den, ok := fraction(strings.TrimSpace(value))
	if !ok || num == 0 {
		return nil, false
	}
	return big.NewRat(num, den), true
}

// TupletTime returns how many units of the given ratio the tuplet occupies:
// (2 plays in the time of 3, (3 and (4 in the time of 2, (n in the time
// of n-1 from 5 on.
func TupletTime(ratio uint32) uint32 {
	switch {
	case ratio == 2:
		return 3
	case ratio == 3 || ratio == 4:
		return 2
	case ratio >= 5:
		return ratio - 1
	}
	return ratio
}

// barCounter sums durations of the current bar.
type barCounter struct {
	meter meter
	unit  *big.Rat
	total *big.Rat
	start source.Pos
	open  bool
	sink  diag.Sink
}

func checkBarLength(tune *ast.Tune, cfg Config, sink diag.Sink) {
	bc := &barCounter{unit: defaultUnit, total: new(big.Rat), sink: sink}

	fallback := cfg.MeterDefault
	if fallback == "" {
		fallback = "4/4"
	}
	bc.meter, _ = parseMeter(fallback)
	if f, ok := tune.Header.Field(ast.FieldMeter); ok {
		if m, ok := parseMeter(f.Value); ok {
			bc.meter = m
		}
	}
	if f, ok := tune.Header.Field(ast.FieldUnitNoteLength); ok {
		if u, ok := parseUnit(f.Value); ok {
			bc.unit = u
		}
	}

	for _, el := range tune.Body.Elements {
		bc.element(el)
	}
	// последний такт не проверяется: он может быть неполным
}

func (bc *barCounter) element(el ast.Element) {
	switch e := el.(type) {
	case *ast.BarLine:
		bc.close(e.Range.Start)
	case *ast.InlineField:
		switch e.Label {
		case 'M':
			if m, ok := parseMeter(e.Value); ok {
				bc.meter = m
			}
		case 'L':
			if u, ok := parseUnit(e.Value); ok {
				bc.unit = u
			}
		}
	default:
		if d := bc.length(el); d.Sign() > 0 {
			if !bc.open {
				bc.start, bc.open = el.Span().Start, true
			}
			bc.total.Add(bc.total, d)
		}
	}
}

// length: вклад элемента в такт в долях целой ноты.
func (bc *barCounter) length(el ast.Element) *big.Rat {
	out := new(big.Rat)
	switch e := el.(type) {
	case *ast.Note:
		out.Set(bc.units(e.Duration))
	case *ast.Rest:
		if !e.MultiMeasure {
			out.Set(bc.units(e.Duration))
		}
	case *ast.Chord:
		out.Set(bc.units(e.Duration))
	case *ast.Tuplet:
		if e.Ratio == 0 {
			break
		}
		scale := big.NewRat(int64(TupletTime(e.Ratio)), int64(e.Ratio))
		for i := range e.Notes {
			out.Add(out, new(big.Rat).Mul(bc.units(e.Notes[i].Duration), scale))
		}
	case *ast.Slur:
		for _, inner := range e.Elements {
			out.Add(out, bc.length(inner))
		}
	}
	return out
}

func (bc *barCounter) units(d *ast.Duration) *big.Rat {
	r := big.NewRat(1, 1)
	if d != nil && d.Den != 0 {
		r = big.NewRat(int64(d.Num), int64(d.Den))
	}
	return r.Mul(r, bc.unit)
}

// close проверяет накопленный такт и начинает новый.
func (bc *barCounter) close(end source.Pos) {
	if bc.open && bc.meter.ok && bc.total.Cmp(bc.meter.len) != 0 {
		diag.ReportWarning(bc.sink, diag.BarLengthMismatch, source.NewRange(bc.start, end),
			fmt.Sprintf("bar has %s beats, expected %s", ratString(bc.total), bc.meter.text)).Emit()
	}
	bc.total.SetInt64(0)
	bc.open = false
}

func ratString(r *big.Rat) string {
	return r.Num().String() + "/" + r.Denom().String()
}
