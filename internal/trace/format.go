package trace

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format is the trace output encoding.
type Format uint8

const (
	FormatAuto   Format = iota // by file extension, text otherwise
	FormatText                 // one aligned line per event
	FormatNDJSON               // one JSON object per line
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatNDJSON:
		return "ndjson"
	}
	return "auto"
}

// ParseFormat accepts auto, text, ndjson and json (an alias of ndjson).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent renders ev as one newline-terminated record. FormatAuto
// renders as text.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return eventJSON(ev)
	}
	return eventText(ev)
}

type jsonAttr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type jsonEvent struct {
	Time      string     `json:"time"`
	Seq       uint64     `json:"seq"`
	Kind      string     `json:"kind"`
	Scope     string     `json:"scope"`
	SpanID    uint64     `json:"span_id,omitempty"`
	ParentID  uint64     `json:"parent_id,omitempty"`
	Name      string     `json:"name"`
	File      string     `json:"file,omitempty"`
	Detail    string     `json:"detail,omitempty"`
	ElapsedUS int64      `json:"elapsed_us,omitempty"`
	Attrs     []jsonAttr `json:"attrs,omitempty"`
}

func eventJSON(ev *Event) []byte {
	j := jsonEvent{
		Time:      ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		SpanID:    ev.SpanID,
		ParentID:  ev.ParentID,
		Name:      ev.Name,
		File:      ev.File,
		Detail:    ev.Detail,
		ElapsedUS: ev.Elapsed.Microseconds(),
	}
	for _, a := range ev.Attrs {
		j.Attrs = append(j.Attrs, jsonAttr(a))
	}
	data, _ := json.Marshal(j) // только строки и числа
	return append(data, '\n')
}

var kindMarks = [...]string{
	KindSpanBegin: "\u2192",
	KindSpanEnd:   "\u2190",
	KindPoint:     "\u2022",
	KindHeartbeat: "\u2661",
}

// eventText: "15:04:05.000 #12    file   ← parse reel.abc 1.2ms (detail) k=v"
func eventText(ev *Event) []byte {
	var sb strings.Builder
	sb.WriteString(ev.Time.Format("15:04:05.000"))
	fmt.Fprintf(&sb, " #%-5d %-6s ", ev.Seq, ev.Scope)
	if ev.ParentID != 0 {
		sb.WriteString("  ")
	}
	if int(ev.Kind) < len(kindMarks) && kindMarks[ev.Kind] != "" {
		sb.WriteString(kindMarks[ev.Kind])
		sb.WriteByte(' ')
	}
	sb.WriteString(ev.Name)
	if ev.File != "" {
		sb.WriteByte(' ')
		sb.WriteString(ev.File)
	}
	if ev.Kind == KindSpanEnd {
		sb.WriteByte(' ')
		sb.WriteString(ev.Elapsed.String())
	}
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	for _, a := range ev.Attrs {
		fmt.Fprintf(&sb, " %s=%s", a.Key, a.Value)
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
