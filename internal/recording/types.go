package recording

// State is the recording session lifecycle state.
type State string

const (
	StateIdle             State = "idle"
	StateRecording        State = "recording"
	StatePaused           State = "paused"
	StateStopping         State = "stopping"
	StatePermissionDenied State = "permission_denied"
)

// Capture owns the microphone device and buffers fixed-interval audio chunks.
// Exactly one session owns a Capture at a time; Stop releases the device.
type Capture interface {
	// Start acquires the device. An error means access was denied.
	Start() error
	Pause()
	Resume()
	Stop()
	// Chunks delivers buffered audio in capture order while recording.
	Chunks() <-chan []byte
	// Recorded returns every chunk captured so far, for playback while paused.
	Recorded() [][]byte
}

// Recognizer is a single-use live speech engine. Interim text is unstable and
// overwrites the previous interim; final text is stable and appends. Done is
// signaled when the engine ends on its own; a stopped engine cannot be
// resumed, only replaced.
type Recognizer interface {
	Connect() error
	SendAudio(pcm []byte) error
	Interims() <-chan string
	Finals() <-chan string
	Done() <-chan struct{}
	Close() error
}

// RecognizerFactory builds a fresh engine instance. The controller calls it
// on start, on resume, and whenever a live engine ends spontaneously.
type RecognizerFactory func() Recognizer

// Events lets the host react to session progress. Callbacks are invoked from
// the controller's internal goroutines and must not block.
type Events struct {
	// OnState fires on every state transition.
	OnState func(State)
	// OnInterim delivers the live combined transcript (final + interim).
	OnInterim func(text string)
	// OnTranscript delivers the final non-empty transcript when the session
	// stops. A session that stops with nothing captured never fires it.
	OnTranscript func(transcript string)
	OnError      func(err error)
}
