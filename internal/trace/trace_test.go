package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNewEmitsSessionPoint(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeStream, Format: FormatNDJSON, Output: &buf, Session: "abc"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopeDriver, "check", 0).End("ok")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 events, got %d:\n%s", len(lines), buf.String())
	}
	var first struct {
		Kind  string     `json:"kind"`
		Name  string     `json:"name"`
		Attrs []jsonAttr `json:"attrs"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if first.Kind != "point" || first.Name != "session" || len(first.Attrs) != 1 || first.Attrs[0].Value != "abc" {
		t.Fatalf("first event = %+v", first)
	}
}

func TestRandomSessionID(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(Config{Level: LevelPhase, Mode: ModeStream, Format: FormatText, Output: &buf}); err != nil {
		t.Fatalf("New: %v", err)
	}
	// uuid в каноническом виде: 36 символов
	out := buf.String()
	i := strings.Index(out, "session=")
	if i < 0 || len(out) < i+len("session=")+36 {
		t.Fatalf("no session id in %q", out)
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	Begin(tr, ScopeFile, "parse", 0).End("")
	if buf.Len() != 0 {
		t.Fatalf("file scope must be filtered at phase level, got %q", buf.String())
	}
	if !LevelDetail.ShouldEmit(ScopeFile) || LevelDetail.ShouldEmit(ScopeNode) {
		t.Fatal("detail level filter mismatch")
	}
}

func TestRingWrapsAround(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeDriver, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context must yield Nop")
	}
	r := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatal("tracer lost in context")
	}
	ctx = WithSpanContext(ctx, SpanContext{SpanID: 7})
	if CurrentSpan(ctx).SpanID != 7 {
		t.Fatal("span context lost")
	}
}

func TestParseHelpers(t *testing.T) {
	if l, err := ParseLevel("detail"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
}

func TestRingFindsBufferedTracer(t *testing.T) {
	r := NewRingTracer(4, LevelPhase)
	var buf bytes.Buffer
	multi := NewMultiTracer(LevelPhase, NewStreamTracer(&buf, LevelPhase, FormatText), r)
	if Ring(multi) != r || Ring(r) != r {
		t.Fatal("ring tracer not found")
	}
	if Ring(Nop) != nil {
		t.Fatal("Nop has no ring")
	}
}

func TestFileSpanNestsUnderPass(t *testing.T) {
	r := NewRingTracer(8, LevelDetail)
	ctx := WithTracer(context.Background(), r)
	ctx, pass := StartSpan(ctx, ScopePass, "check")
	_, file := StartFileSpan(ctx, "parse", "reel.abc")
	file.WithExtra("diagnostics", "2").End("")
	file.End("again")
	pass.End("")

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("events = %d, want 4: %+v", len(snap), snap)
	}
	end := snap[2]
	if end.Kind != KindSpanEnd || end.File != "reel.abc" || end.ParentID != pass.ID() {
		t.Fatalf("file span end = %+v", end)
	}
	if v, ok := end.Attr("diagnostics"); !ok || v != "2" {
		t.Fatalf("diagnostics attr = %q, %v", v, ok)
	}
	if snap[1].Seq >= snap[2].Seq {
		t.Fatalf("seq not increasing: %d, %d", snap[1].Seq, snap[2].Seq)
	}
}

func TestFileSpanFilteredAtPhase(t *testing.T) {
	r := NewRingTracer(8, LevelPhase)
	ctx := WithTracer(context.Background(), r)
	next, span := StartFileSpan(ctx, "parse", "reel.abc")
	span.WithExtra("k", "v").End("")
	if len(r.Snapshot()) != 0 || span.ID() != 0 || CurrentSpan(next).SpanID != 0 {
		t.Fatalf("file span leaked at phase level: %+v", r.Snapshot())
	}
}

func TestTextFormat(t *testing.T) {
	ev := &Event{
		Seq:      3,
		Kind:     KindSpanEnd,
		Scope:    ScopeFile,
		ParentID: 1,
		Name:     "parse",
		File:     "reel.abc",
		Elapsed:  1500 * time.Microsecond,
		Attrs:    []Attr{{Key: "b", Value: "1"}, {Key: "a", Value: "2"}},
	}
	got := string(FormatEvent(ev, FormatText))
	want := " #3     file     \u2190 parse reel.abc 1.5ms b=1 a=2\n"
	if !strings.HasSuffix(got, want) {
		t.Fatalf("text = %q, want suffix %q", got, want)
	}
}

func TestHeartbeatStops(t *testing.T) {
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatal("heartbeat on Nop")
	}
	r := NewRingTracer(64, LevelPhase)
	h := StartHeartbeat(r, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(r.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	snap := r.Snapshot()
	if len(snap) == 0 || snap[0].Kind != KindHeartbeat {
		t.Fatalf("no heartbeat recorded: %+v", snap)
	}
	var nilBeat *Heartbeat
	nilBeat.Stop()
}
