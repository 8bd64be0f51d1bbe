package driver

import "time"

// Stage describes a step of per-file work.
type Stage string

const (
	StageLoad    Stage = "load"
	StageParse   Stage = "parse"
	StageAnalyze Stage = "analyze"
	StageFormat  Stage = "format"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusCached  Status = "cached"
	StatusError   Status = "error"
)

// ProgressEvent is emitted for every stage boundary of a file.
type ProgressEvent struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink receives progress events. Workers call OnEvent concurrently.
type ProgressSink interface {
	OnEvent(ProgressEvent)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(ProgressEvent)

func (f ProgressFunc) OnEvent(ev ProgressEvent) { f(ev) }

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- ProgressEvent
}

func (s ChannelSink) OnEvent(ev ProgressEvent) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

func emit(sink ProgressSink, ev ProgressEvent) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
