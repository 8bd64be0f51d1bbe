package lexer

import (
	"testing"
)

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor("a\nb")

	for i, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF at step %d", i)
		}
		if got := cursor.Peek(); got != want {
			t.Fatalf("step %d: peek %q, want %q", i, got, want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("step %d: bump %q, want %q", i, got, want)
		}
	}
	if !cursor.EOF() {
		t.Fatal("expected EOF after three bumps")
	}
	if cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Error("Peek/Bump at EOF must return 0")
	}
}

func TestMarkResetAndRange(t *testing.T) {
	cursor := NewCursor("^^C,")
	m := cursor.Mark()
	if n := cursor.EatWhile(func(b byte) bool { return b == '^' }); n != 2 {
		t.Fatalf("EatWhile = %d, want 2", n)
	}
	if r := cursor.RangeFrom(m); r.Start != 0 || r.End != 2 {
		t.Fatalf("RangeFrom = %v", r)
	}
	if cursor.PeekAt(1) != ',' || cursor.PeekAt(5) != 0 {
		t.Error("PeekAt mismatch")
	}
	cursor.Reset(m)
	if !cursor.Eat('^') || cursor.Eat('C') {
		t.Error("Eat mismatch after Reset")
	}
}
