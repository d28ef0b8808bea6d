package recording

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// DefaultInactivityTimeout is how long the session waits without new speech
// before considering an auto-stop. Kept conservative so a thinking pause does
// not cut the user off.
const DefaultInactivityTimeout = 3 * time.Second

// minMeaningfulLen guards auto-stop against ambient silence before the user
// has said anything: the same floor the downstream transcript precondition
// uses, so an auto-stopped session never carries a transcript the next stage
// would reject.
const minMeaningfulLen = 5

// ErrPermissionDenied means microphone access was refused. Fatal to the
// recording flow; the user must be told, there is no silent fallback.
var ErrPermissionDenied = errors.New("microphone access denied - allow microphone permissions and try again")

// Controller coordinates microphone capture, live speech recognition and the
// inactivity auto-stop for one recording session. Create one per screen
// visit; it is single-use.
type Controller struct {
	capture       Capture
	newRecognizer RecognizerFactory
	ev            Events

	// InactivityTimeout overrides DefaultInactivityTimeout when set before Start.
	InactivityTimeout time.Duration

	mu           sync.Mutex
	state        State
	rec          Recognizer
	finalText    string
	interimText  string
	silenceTimer *time.Timer
	stopCh       chan struct{}
}

func NewController(capture Capture, factory RecognizerFactory, ev Events) *Controller {
	return &Controller{
		capture:           capture,
		newRecognizer:     factory,
		ev:                ev,
		InactivityTimeout: DefaultInactivityTimeout,
		state:             StateIdle,
		stopCh:            make(chan struct{}),
	}
}

// Start acquires the microphone and begins capture and recognition. On a
// denied device the controller enters the terminal PermissionDenied state.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return fmt.Errorf("recording session already started")
	}
	c.mu.Unlock()

	if err := c.capture.Start(); err != nil {
		c.setState(StatePermissionDenied)
		c.emitError(ErrPermissionDenied)
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	rec := c.newRecognizer()
	if err := rec.Connect(); err != nil {
		c.capture.Stop()
		c.emitError(err)
		return fmt.Errorf("speech engine connect: %w", err)
	}

	c.mu.Lock()
	c.rec = rec
	c.state = StateRecording
	c.armSilenceTimerLocked()
	c.mu.Unlock()
	c.emitState(StateRecording)

	go c.pumpAudio()
	go c.pumpText(rec)
	return nil
}

// pumpAudio forwards captured chunks to whichever recognizer is current.
func (c *Controller) pumpAudio() {
	for {
		select {
		case <-c.stopCh:
			return
		case chunk, ok := <-c.capture.Chunks():
			if !ok {
				return
			}
			c.mu.Lock()
			rec := c.rec
			recording := c.state == StateRecording
			c.mu.Unlock()
			if !recording || rec == nil {
				continue
			}
			if err := rec.SendAudio(chunk); err != nil {
				log.Printf("recognizer send error: %v", err)
			}
		}
	}
}

// pumpText consumes one recognizer instance until the session stops, the
// engine is replaced, or the engine ends on its own.
func (c *Controller) pumpText(rec Recognizer) {
	for {
		select {
		case <-c.stopCh:
			return
		case text, ok := <-rec.Interims():
			if !ok {
				return
			}
			if !c.isCurrent(rec) {
				return
			}
			c.onInterim(text)
		case text, ok := <-rec.Finals():
			if !ok {
				return
			}
			if !c.isCurrent(rec) {
				return
			}
			c.onFinal(text)
		case <-rec.Done():
			c.replaceEngine(rec)
			return
		}
	}
}

func (c *Controller) isCurrent(rec Recognizer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec == rec
}

func (c *Controller) onInterim(text string) {
	c.mu.Lock()
	if c.state != StateRecording || c.interimText == text {
		c.mu.Unlock()
		return
	}
	c.interimText = text
	c.armSilenceTimerLocked()
	combined := c.combinedLocked()
	c.mu.Unlock()
	if c.ev.OnInterim != nil {
		c.ev.OnInterim(combined)
	}
}

func (c *Controller) onFinal(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	c.mu.Lock()
	if c.state != StateRecording {
		c.mu.Unlock()
		return
	}
	if c.finalText == "" {
		c.finalText = text
	} else {
		c.finalText += " " + text
	}
	// the interim that produced this final is superseded
	c.interimText = ""
	c.armSilenceTimerLocked()
	combined := c.combinedLocked()
	c.mu.Unlock()
	if c.ev.OnInterim != nil {
		c.ev.OnInterim(combined)
	}
}

// replaceEngine transparently restarts recognition when a live engine ended
// on its own (platform timeout). No state change is visible to the user.
func (c *Controller) replaceEngine(old Recognizer) {
	c.mu.Lock()
	current := c.rec == old && c.state == StateRecording
	c.mu.Unlock()
	if !current {
		return
	}

	fresh := c.newRecognizer()
	if err := fresh.Connect(); err != nil {
		log.Printf("speech engine restart failed: %v", err)
		c.emitError(fmt.Errorf("speech engine restart: %w", err))
		return
	}
	c.mu.Lock()
	if c.rec != old || c.state != StateRecording {
		c.mu.Unlock()
		_ = fresh.Close()
		return
	}
	c.rec = fresh
	c.mu.Unlock()
	_ = old.Close()
	go c.pumpText(fresh)
}

// Pause stops capture and discards the live engine; captured audio stays
// available for playback.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.state != StateRecording {
		c.mu.Unlock()
		return
	}
	rec := c.rec
	c.rec = nil
	c.state = StatePaused
	c.cancelSilenceTimerLocked()
	c.mu.Unlock()

	c.capture.Pause()
	if rec != nil {
		_ = rec.Close()
	}
	c.emitState(StatePaused)
}

// Resume restarts capture with a fresh engine instance; a stopped engine
// cannot be resumed.
func (c *Controller) Resume() error {
	c.mu.Lock()
	if c.state != StatePaused {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	fresh := c.newRecognizer()
	if err := fresh.Connect(); err != nil {
		c.emitError(err)
		return fmt.Errorf("speech engine connect: %w", err)
	}

	c.mu.Lock()
	if c.state != StatePaused {
		c.mu.Unlock()
		_ = fresh.Close()
		return nil
	}
	c.rec = fresh
	c.state = StateRecording
	c.armSilenceTimerLocked()
	c.mu.Unlock()

	c.capture.Resume()
	c.emitState(StateRecording)
	go c.pumpText(fresh)
	return nil
}

// Stop ends the session and delivers the transcript when one was captured.
func (c *Controller) Stop() { c.finish(true) }

// Close tears the session down without delivering a transcript. Safe on any
// state and on every exit path.
func (c *Controller) Close() { c.finish(false) }

func (c *Controller) finish(emit bool) {
	c.mu.Lock()
	if c.state != StateRecording && c.state != StatePaused {
		c.mu.Unlock()
		return
	}
	c.state = StateStopping
	rec := c.rec
	c.rec = nil
	c.cancelSilenceTimerLocked()
	transcript := c.combinedLocked()
	close(c.stopCh)
	c.mu.Unlock()

	c.emitState(StateStopping)
	c.capture.Stop()
	if rec != nil {
		_ = rec.Close()
	}

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()
	c.emitState(StateIdle)

	if emit && transcript != "" && c.ev.OnTranscript != nil {
		c.ev.OnTranscript(transcript)
	}
}

// onSilence fires after InactivityTimeout without any transcript change.
func (c *Controller) onSilence() {
	c.mu.Lock()
	if c.state != StateRecording {
		c.mu.Unlock()
		return
	}
	if len(c.combinedLocked()) < minMeaningfulLen {
		// nothing meaningful captured yet; keep listening
		c.armSilenceTimerLocked()
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.finish(true)
}

func (c *Controller) armSilenceTimerLocked() {
	if c.silenceTimer == nil {
		c.silenceTimer = time.AfterFunc(c.InactivityTimeout, c.onSilence)
	} else {
		c.silenceTimer.Stop()
		c.silenceTimer.Reset(c.InactivityTimeout)
	}
}

func (c *Controller) cancelSilenceTimerLocked() {
	if c.silenceTimer != nil {
		c.silenceTimer.Stop()
		c.silenceTimer = nil
	}
}

func (c *Controller) combinedLocked() string {
	return strings.TrimSpace(strings.TrimSpace(c.finalText) + " " + c.interimText)
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Transcript returns the current combined final+interim text.
func (c *Controller) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.combinedLocked()
}

// RecordedAudio returns the chunks captured so far, for playback.
func (c *Controller) RecordedAudio() [][]byte {
	return c.capture.Recorded()
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.emitState(s)
}

func (c *Controller) emitState(s State) {
	if c.ev.OnState != nil {
		c.ev.OnState(s)
	}
}

func (c *Controller) emitError(err error) {
	if c.ev.OnError != nil {
		c.ev.OnError(err)
	}
}
