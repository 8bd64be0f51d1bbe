package ast

// Walk calls fn for every element of the body, descending into slurs.
// Notes nested in chords, tuplets and grace notes are reached through
// WalkNotes.
func Walk(elems []Element, fn func(Element)) {
	for _, el := range elems {
		fn(el)
		if s, ok := el.(*Slur); ok {
			Walk(s.Elements, fn)
		}
	}
}

// WalkNotes calls fn for every note reachable from elems: plain notes, chord
// notes, tuplet notes, grace notes and everything nested in slurs.
func WalkNotes(elems []Element, fn func(*Note)) {
	Walk(elems, func(el Element) {
		switch e := el.(type) {
		case *Note:
			fn(e)
		case *Chord:
			for i := range e.Notes {
				fn(&e.Notes[i])
			}
		case *Tuplet:
			for i := range e.Notes {
				fn(&e.Notes[i])
			}
		case *GraceNotes:
			for i := range e.Notes {
				fn(&e.Notes[i])
			}
		}
	})
}
