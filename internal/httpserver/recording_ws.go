package httpserver

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/ethanKlein/wellsaid/internal/recording"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  65536,
	WriteBufferSize: 65536,
	CheckOrigin: func(r *http.Request) bool {
		// Allow any origin for demo use; restrict in production
		return true
	},
}

// recordingMessage is the JSON control/status frame for the recording socket.
// Client -> server types: "start", "pause", "resume", "stop".
// Server -> client types: "state", "interim", "transcript", "level", "error".
type recordingMessage struct {
	Type  string  `json:"type"`
	Text  string  `json:"text,omitempty"`
	State string  `json:"state,omitempty"`
	Level float64 `json:"level,omitempty"`
	Error string  `json:"error,omitempty"`
}

// recordingSocket upgrades to WebSocket and drives one recording session.
// Binary frames carry 16kHz PCM16LE audio; text frames carry control
// messages. The session is torn down when the socket closes, whatever state
// it was in.
func (s *Server) recordingSocket(c echo.Context) error {
	conn, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return nil
	}
	defer func() { _ = conn.Close() }()

	out := &wsSender{conn: conn}
	capture := newWSCapture()
	ctrl := recording.NewController(capture, s.recognizers, recording.Events{
		OnState: func(st recording.State) {
			out.send(recordingMessage{Type: "state", State: string(st)})
		},
		OnInterim: func(text string) {
			out.send(recordingMessage{Type: "interim", Text: text})
		},
		OnTranscript: func(transcript string) {
			out.send(recordingMessage{Type: "transcript", Text: transcript})
		},
		OnError: func(err error) {
			out.send(recordingMessage{Type: "error", Error: err.Error()})
		},
	})
	defer ctrl.Close()

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return nil
		}
		switch mt {
		case websocket.BinaryMessage:
			capture.push(data)
			out.send(recordingMessage{Type: "level", Level: recording.Level(data)})
		case websocket.TextMessage:
			var msg recordingMessage
			if json.Unmarshal(data, &msg) != nil {
				continue
			}
			switch msg.Type {
			case "start":
				if err := ctrl.Start(); err != nil {
					log.Printf("recording start failed: %v", err)
				}
			case "pause":
				ctrl.Pause()
			case "resume":
				if err := ctrl.Resume(); err != nil {
					log.Printf("recording resume failed: %v", err)
				}
			case "stop":
				ctrl.Stop()
				return nil
			}
		}
	}
}

// wsSender serializes concurrent writes to one socket.
type wsSender struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSender) send(msg recordingMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		log.Printf("ws write error: %v", err)
	}
}

// wsCapture adapts inbound socket audio onto the recording.Capture contract.
// The physical device lives in the browser; Start is the point where the
// client has already been granted the microphone.
type wsCapture struct {
	mu       sync.Mutex
	chunks   chan []byte
	recorded [][]byte
	running  bool
	stopped  bool
}

func newWSCapture() *wsCapture {
	return &wsCapture{chunks: make(chan []byte, 1000)}
}

func (c *wsCapture) Start() error {
	c.mu.Lock()
	c.running = true
	c.mu.Unlock()
	return nil
}

func (c *wsCapture) Pause()  { c.mu.Lock(); c.running = false; c.mu.Unlock() }
func (c *wsCapture) Resume() { c.mu.Lock(); c.running = true; c.mu.Unlock() }

func (c *wsCapture) Stop() {
	c.mu.Lock()
	c.running = false
	c.stopped = true
	c.mu.Unlock()
}

func (c *wsCapture) Chunks() <-chan []byte { return c.chunks }

func (c *wsCapture) Recorded() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.recorded))
	copy(out, c.recorded)
	return out
}

func (c *wsCapture) push(chunk []byte) {
	c.mu.Lock()
	if !c.running || c.stopped {
		c.mu.Unlock()
		return
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	c.recorded = append(c.recorded, buf)
	c.mu.Unlock()
	select {
	case c.chunks <- buf:
	default:
		log.Println("audio buffer full, dropping packet")
	}
}
