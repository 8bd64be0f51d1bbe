package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tracer stores or writes events. Implementations are goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled is Level() > LevelOff.
	Enabled() bool
}

// gate carries the level shared by every tracer in this package.
type gate struct{ level Level }

func (g gate) Level() Level  { return g.level }
func (g gate) Enabled() bool { return g.level > LevelOff }

// admits lets heartbeats through regardless of scope.
func (g gate) admits(ev *Event) bool {
	return ev.Kind == KindHeartbeat || g.level.ShouldEmit(ev.Scope)
}

type nopTracer struct{ gate }

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }

// Nop drops everything.
var Nop Tracer = nopTracer{}

// StorageMode selects where New keeps events.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // write as they happen
	ModeRing                          // keep the last RingSize in memory
	ModeBoth
)

var modeNames = [...]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m StorageMode) String() string {
	if int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode accepts stream, ring or both in any case.
func ParseMode(s string) (StorageMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n != "" && n == name {
			return StorageMode(m), nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config describes the tracer New builds.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format // FormatAuto picks by OutputPath extension
	Session    string // random UUID when empty
	Output     io.Writer
	OutputPath string // used when Output is nil; "-" is stderr
	RingSize   int    // default 4096
	Heartbeat  time.Duration
}

const defaultRingSize = 4096

// New builds a tracer for cfg and emits the opening "session" point, so
// interleaved logs from parallel runs can be separated.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}
	format := resolveFormat(cfg.Format, cfg.OutputPath)

	var t Tracer
	switch cfg.Mode {
	case ModeRing:
		t = NewRingTracer(cfg.RingSize, cfg.Level)
	case ModeStream, ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		t = NewStreamTracer(w, cfg.Level, format)
		if cfg.Mode == ModeBoth {
			t = NewMultiTracer(cfg.Level, t, NewRingTracer(cfg.RingSize, cfg.Level))
		}
	default:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}

	session := cfg.Session
	if session == "" {
		session = uuid.NewString()
	}
	Point(t, ScopeDriver, "session", "", Attr{Key: "session", Value: session})
	return t, nil
}

// Point emits an instant event about file ("" for none).
func Point(t Tracer, scope Scope, name, file string, attrs ...Attr) {
	if t == nil || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:  time.Now(),
		Kind:  KindPoint,
		Scope: scope,
		Name:  name,
		File:  file,
		Attrs: attrs,
	})
}

func resolveFormat(f Format, path string) Format {
	if f != FormatAuto {
		return f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}

// stderrWriter hides os.Stderr's Close from StreamTracer.Close.
type stderrWriter struct{ io.Writer }

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return stderrWriter{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}
