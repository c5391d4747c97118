package buildpipeline

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

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

// EmitQueued reports every file as waiting.
func EmitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageScan, Status: StatusQueued})
	}
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil || evt.File == "" {
		return
	}
	sink.OnEvent(evt)
}
