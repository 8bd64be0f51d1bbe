package diag

type dedupKey struct {
	code  Code
	sev   Severity
	start uint32
	end   uint32
	msg   string
}

// DedupSink wraps another Sink and suppresses duplicate diagnostics
// with the same code, severity, range and message.
type DedupSink struct {
	next Sink
	seen map[dedupKey]struct{}
}

// NewDedupSink returns a Sink that filters out duplicates while
// forwarding unique diagnostics to next.
func NewDedupSink(next Sink) *DedupSink {
	return &DedupSink{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupSink) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := dedupKey{
		code:  d.Code,
		sev:   d.Severity,
		start: uint32(d.Range.Start),
		end:   uint32(d.Range.End),
		msg:   d.Message,
	}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
