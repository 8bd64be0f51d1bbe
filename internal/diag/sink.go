package diag

// Sink: минимальный контракт получения диагностик от фаз.
// Реализации: *Bag (копит), Discard (глушит), *DedupSink (фильтрует повторы).
type Sink interface {
	Report(d Diagnostic)
}

type discard struct{}

func (discard) Report(Diagnostic) {}

// Discard drops everything. Parsing with it yields the lossless-only behaviour.
var Discard Sink = discard{}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }
