package pipeline

// ProgressEvent reports one processed video out of a known total. Completed
// is 1-based and strictly increasing: exactly one event is emitted per video,
// whether it succeeded or not.
type ProgressEvent struct {
	URL       string
	Success   bool
	Total     int
	Completed int
}

// ProgressSink receives progress events from a channel run.
type ProgressSink interface {
	Notify(event ProgressEvent)
}

// ProgressSinkFunc adapts a function to the ProgressSink interface.
type ProgressSinkFunc func(event ProgressEvent)

func (f ProgressSinkFunc) Notify(event ProgressEvent) {
	f(event)
}
