package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Stage records one timed step: parse, lower, analyze or a whole batch.
type Stage struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer collects stages. Begin and End may be called from several
// goroutines; batch checking times files in parallel against one timer.
type Timer struct {
	mu     sync.Mutex
	stages []Stage
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{stages: make([]Stage, 0, 4)} }

// Begin starts a stage and returns its index for End.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stages = append(t.stages, Stage{Name: name, Start: time.Now()})
	return len(t.stages) - 1
}

// End finishes a stage by its index. Unknown indexes are ignored.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.stages) {
		return
	}
	s := &t.stages[idx]
	s.Dur = time.Since(s.Start)
	s.Note = note
}

// Measure times fn as one stage.
func (t *Timer) Measure(name string, fn func()) {
	idx := t.Begin(name)
	fn()
	t.End(idx, "")
}

// StageReport is one stage in serialisable form.
type StageReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is a timer snapshot in milliseconds.
type Report struct {
	Path    string        `json:"path,omitempty"`
	TotalMS float64       `json:"total_ms"`
	Stages  []StageReport `json:"stages"`
}

// Report формирует срез стадий и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.stages) == 0 {
		return Report{}
	}
	report := Report{Stages: make([]StageReport, len(t.stages))}
	var total time.Duration
	for i, s := range t.stages {
		total += s.Dur
		report.Stages[i] = StageReport{
			Name:       s.Name,
			DurationMS: durationToMillis(s.Dur),
			Note:       s.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Aggregate sums stages with the same name across reports, keeping the
// order in which names first appear.
func Aggregate(reports []Report) Report {
	var out Report
	index := map[string]int{}
	for _, r := range reports {
		out.TotalMS += r.TotalMS
		for _, s := range r.Stages {
			i, ok := index[s.Name]
			if !ok {
				index[s.Name] = len(out.Stages)
				out.Stages = append(out.Stages, StageReport{Name: s.Name})
				i = len(out.Stages) - 1
			}
			out.Stages[i].DurationMS += s.DurationMS
		}
	}
	return out
}

// Summary renders a report as an aligned table:
//
//	timings:
//	  parse                   0.12 ms
//	  total                   0.12 ms
func (r Report) Summary() string {
	var b strings.Builder
	b.WriteString("timings")
	if r.Path != "" {
		b.WriteString(" (" + r.Path + ")")
	}
	b.WriteString(":\n")
	for _, s := range r.Stages {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", s.Name, s.DurationMS)
		if s.Note != "" {
			b.WriteString("  // " + s.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
