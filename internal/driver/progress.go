package driver

import "time"

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one input file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Check calls it from several
// goroutines at once.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type progress struct {
	sink  ProgressSink
	file  string
	start time.Time
}

func (p progress) emit(stage Stage, status Status, err error) {
	if p.sink == nil {
		return
	}
	ev := Event{File: p.file, Stage: stage, Status: status, Err: err}
	if status == StatusDone || status == StatusError {
		ev.Elapsed = time.Since(p.start)
	}
	p.sink.OnEvent(ev)
}
