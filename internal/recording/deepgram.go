package recording

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	msginterfaces "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/listen"
)

// DeepgramRecognizer is the production Recognizer: a single-use Deepgram live
// transcription connection for 16kHz PCM16LE mono audio.
type DeepgramRecognizer struct {
	apiKey string

	client   *listen.WSCallback
	interims chan string
	finals   chan string
	done     chan struct{}

	doneOnce  sync.Once
	closeOnce sync.Once
}

// NewDeepgramRecognizer builds an unconnected engine instance. Use it as a
// RecognizerFactory target: one instance per Connect.
func NewDeepgramRecognizer(apiKey string) *DeepgramRecognizer {
	return &DeepgramRecognizer{
		apiKey:   apiKey,
		interims: make(chan string, 100),
		finals:   make(chan string, 100),
		done:     make(chan struct{}),
	}
}

func (r *DeepgramRecognizer) Connect() error {
	if r.apiKey == "" {
		return fmt.Errorf("deepgram api key missing")
	}

	transcriptOptions := &interfaces.LiveTranscriptionOptions{
		Language:       "en",
		Model:          "nova-2",
		Encoding:       "linear16",
		SampleRate:     16000,
		Channels:       1,
		InterimResults: true,
		Endpointing:    "300",
	}
	clientOptions := &interfaces.ClientOptions{
		EnableKeepAlive: true,
	}

	client, err := listen.NewWebSocketUsingCallback(
		context.Background(), r.apiKey, clientOptions, transcriptOptions, &deepgramCallback{r: r})
	if err != nil {
		return fmt.Errorf("deepgram: create live connection: %w", err)
	}
	if !client.Connect() {
		return fmt.Errorf("deepgram: websocket connect failed")
	}
	r.client = client
	return nil
}

func (r *DeepgramRecognizer) SendAudio(pcm []byte) error {
	if r.client == nil {
		return fmt.Errorf("deepgram: not connected")
	}
	reader := bufio.NewReader(bytes.NewReader(pcm))
	if err := r.client.Stream(reader); err != nil && err != io.EOF {
		return fmt.Errorf("deepgram: stream audio: %w", err)
	}
	return nil
}

func (r *DeepgramRecognizer) Interims() <-chan string { return r.interims }
func (r *DeepgramRecognizer) Finals() <-chan string   { return r.finals }
func (r *DeepgramRecognizer) Done() <-chan struct{}   { return r.done }

func (r *DeepgramRecognizer) Close() error {
	r.closeOnce.Do(func() {
		if r.client != nil {
			r.client.Stop()
		}
	})
	return nil
}

func (r *DeepgramRecognizer) signalDone() {
	r.doneOnce.Do(func() { close(r.done) })
}

// deepgramCallback adapts the SDK's callback interface onto the recognizer's
// channels. Sends are non-blocking; a slow consumer loses fragments rather
// than stalling the socket.
type deepgramCallback struct {
	r *DeepgramRecognizer
}

func (c *deepgramCallback) Open(or *msginterfaces.OpenResponse) error {
	log.Println("deepgram socket connection opened")
	return nil
}

func (c *deepgramCallback) Message(mr *msginterfaces.MessageResponse) error {
	if len(mr.Channel.Alternatives) == 0 {
		return nil
	}
	transcript := strings.TrimSpace(mr.Channel.Alternatives[0].Transcript)
	if transcript == "" {
		return nil
	}
	if mr.IsFinal {
		select {
		case c.r.finals <- transcript:
		default:
		}
	} else {
		select {
		case c.r.interims <- transcript:
		default:
		}
	}
	return nil
}

func (c *deepgramCallback) Metadata(md *msginterfaces.MetadataResponse) error { return nil }

func (c *deepgramCallback) SpeechStarted(ssr *msginterfaces.SpeechStartedResponse) error {
	return nil
}

func (c *deepgramCallback) UtteranceEnd(ur *msginterfaces.UtteranceEndResponse) error { return nil }

func (c *deepgramCallback) Close(cr *msginterfaces.CloseResponse) error {
	log.Println("deepgram socket connection closed")
	c.r.signalDone()
	return nil
}

func (c *deepgramCallback) Error(er *msginterfaces.ErrorResponse) error {
	log.Printf("deepgram error: %v", er)
	c.r.signalDone()
	return nil
}

func (c *deepgramCallback) UnhandledEvent(byData []byte) error {
	log.Printf("deepgram unhandled event: %s", string(byData))
	return nil
}
