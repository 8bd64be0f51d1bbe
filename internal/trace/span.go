package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

func nextSeq() uint64 { return seqCounter.Add(1) }

// Span is an open begin/end pair. A nil or disabled span accepts every
// method and records nothing, so call sites never check the level.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	file    string
	started time.Time
	attrs   []Attr
}

// Begin opens a span under parent (0 for a root span) and emits its begin
// event. Scopes filtered by the tracer's level yield an inert span.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{}
	}
	s := &Span{
		tracer:  t,
		id:      spanCounter.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	s.emit(KindSpanBegin, "")
	return s
}

// StartSpan opens a span under the span stored in ctx and returns a context
// that carries the new span as current.
func StartSpan(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	s := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx).SpanID)
	if s.live() {
		ctx = WithSpanContext(ctx, SpanContext{SpanID: s.id})
	}
	return ctx, s
}

func (s *Span) live() bool { return s != nil && s.tracer != nil }

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s.live() {
		s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	}
	return s
}

// End emits the end event and returns the span duration. Later calls are
// no-ops.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	elapsed := s.emit(KindSpanEnd, detail)
	s.tracer = nil
	return elapsed
}

// ID returns the span id, 0 for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) emit(kind Kind, detail string) time.Duration {
	ev := &Event{
		Time:     time.Now(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		File:     s.file,
		Detail:   detail,
	}
	if kind == KindSpanEnd {
		ev.Elapsed = ev.Time.Sub(s.started)
		ev.Attrs = s.attrs
	}
	s.tracer.Emit(ev)
	return ev.Elapsed
}

// StartFileSpan is StartSpan for per-file work; both events name path.
func StartFileSpan(ctx context.Context, name, path string) (context.Context, *Span) {
	t := FromContext(ctx)
	if !t.Level().ShouldEmit(ScopeFile) {
		return ctx, &Span{}
	}
	s := &Span{
		tracer:  t,
		id:      spanCounter.Add(1),
		parent:  CurrentSpan(ctx).SpanID,
		scope:   ScopeFile,
		name:    name,
		file:    path,
		started: time.Now(),
	}
	s.emit(KindSpanBegin, "")
	return WithSpanContext(ctx, SpanContext{SpanID: s.id}), s
}

type tracerKey struct{}

type spanKey struct{}

// SpanContext is the span a context currently runs under.
type SpanContext struct {
	SpanID uint64
}

// FromContext returns the tracer in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer stores t in ctx; nil stores Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// CurrentSpan returns the span context stored in ctx, zero when absent.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx != nil {
		if sc, ok := ctx.Value(spanKey{}).(SpanContext); ok {
			return sc
		}
	}
	return SpanContext{}
}

// WithSpanContext makes sc the current span of the returned context.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return context.WithValue(ctx, spanKey{}, sc)
}
