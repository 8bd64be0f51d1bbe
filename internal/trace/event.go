package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind says what an event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat // периодический сигнал «ещё жив»
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Smaller values are coarser.
type Scope uint8

const (
	// ScopeDriver is a whole CLI command.
	ScopeDriver Scope = iota + 1
	// ScopePass covers all inputs at once: a batch check, a format run.
	ScopePass
	// ScopeFile is work on one tune file: parse, lower, analyze, cache.
	ScopeFile
	// ScopeNode is a single tree node; only meaningful at LevelDebug.
	ScopeNode
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeFile:   "file",
	ScopeNode:   "node",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Level controls verbosity. Each level admits scopes up to a bound.
type Level uint8

const (
	LevelOff Level = iota
	// LevelError keeps the tracer alive for crash dumps but admits no scope.
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// widest scope admitted per level; zero admits nothing
var levelBound = [...]Scope{
	LevelPhase:  ScopePass,
	LevelDetail: ScopeFile,
	LevelDebug:  ScopeNode,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelBound) {
		return false
	}
	return scope != 0 && scope <= levelBound[l]
}

// ParseLevel accepts level names in any case.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// Attr is one key/value annotation. Attrs keep insertion order so text
// output reads the way the call site wrote it.
type Attr struct {
	Key   string
	Value string
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer that stores the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "check", "parse", "cache_hit"
	// File is the tune file the event is about; empty for batch-wide events.
	File    string
	Detail  string
	Elapsed time.Duration // span end only
	Attrs   []Attr
}

// Attr returns the value stored under key.
func (ev *Event) Attr(key string) (string, bool) {
	for _, a := range ev.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
