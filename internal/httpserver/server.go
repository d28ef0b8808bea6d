package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ethanKlein/wellsaid/internal/llm"
	"github.com/ethanKlein/wellsaid/internal/recording"
	"github.com/ethanKlein/wellsaid/internal/reflection"
)

// ReflectionService is what the HTTP layer needs from the reflection core.
type ReflectionService interface {
	Reflect(ctx context.Context, transcript string, onProgress func(reflection.AIResponse)) (reflection.AIResponse, error)
	ReflectOnce(ctx context.Context, transcript string) (reflection.AIResponse, error)
	Shuffle(ctx context.Context, transcript string, section reflection.Section, onProgress func(reflection.SectionUpdate)) (reflection.SectionUpdate, error)
	Illustrate(ctx context.Context, resp reflection.AIResponse) reflection.AIImages
}

// Server bundles the router and dependencies.
type Server struct {
	Echo        *echo.Echo
	svc         ReflectionService
	recognizers recording.RecognizerFactory
}

// New constructs the HTTP server with routes.
func New(svc ReflectionService, recognizers recording.RecognizerFactory) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	// browser client runs on a different origin during development
	e.Use(middleware.CORS())

	s := &Server{Echo: e, svc: svc, recognizers: recognizers}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.POST("/api/reflection", s.reflect)
	e.POST("/api/reflection/shuffle", s.shuffle)
	e.POST("/api/reflection/images", s.images)
	e.GET("/ws/recording", s.recordingSocket)

	return s
}

type reflectRequest struct {
	Transcript string `json:"transcript"`
}

type shuffleRequest struct {
	Transcript string             `json:"transcript"`
	Section    reflection.Section `json:"section"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// reflect streams progressive response snapshots as server-sent events, or
// returns one JSON document with ?stream=false.
func (s *Server) reflect(c echo.Context) error {
	var req reflectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if c.QueryParam("stream") == "false" {
		resp, err := s.svc.ReflectOnce(c.Request().Context(), req.Transcript)
		if err != nil {
			return s.serviceError(c, err)
		}
		return c.JSON(http.StatusOK, resp)
	}

	sse := newSSEWriter(c)
	final, err := s.svc.Reflect(c.Request().Context(), req.Transcript, func(snap reflection.AIResponse) {
		sse.send(snap)
	})
	if err != nil {
		if !sse.started {
			return s.serviceError(c, err)
		}
		// headers already sent; deliver the failure in-band
		sse.send(errorResponse{Error: err.Error()})
		return nil
	}
	sse.send(final)
	sse.done()
	return nil
}

// shuffle regenerates one suggestion section with the same SSE contract.
func (s *Server) shuffle(c echo.Context) error {
	var req shuffleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if !req.Section.Valid() {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown section %q", req.Section)})
	}

	sse := newSSEWriter(c)
	final, err := s.svc.Shuffle(c.Request().Context(), req.Transcript, req.Section, func(u reflection.SectionUpdate) {
		sse.send(u)
	})
	if err != nil {
		if !sse.started {
			return s.serviceError(c, err)
		}
		sse.send(errorResponse{Error: err.Error()})
		return nil
	}
	sse.send(final)
	sse.done()
	return nil
}

// images synthesizes both card illustrations; per-image failures come back as
// empty URLs, never as an HTTP error.
func (s *Server) images(c echo.Context) error {
	var req reflection.AIResponse
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	return c.JSON(http.StatusOK, s.svc.Illustrate(c.Request().Context(), req))
}

func (s *Server) serviceError(c echo.Context, err error) error {
	var apiErr *llm.APIError
	switch {
	case errors.Is(err, reflection.ErrTranscriptTooShort):
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.As(err, &apiErr):
		return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
	case errors.Is(err, llm.ErrNoContent):
		return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// sseWriter lazily switches the response into event-stream mode on first
// send, so precondition failures can still go out as plain JSON statuses.
type sseWriter struct {
	c       echo.Context
	started bool
}

func newSSEWriter(c echo.Context) *sseWriter { return &sseWriter{c: c} }

func (w *sseWriter) send(v any) {
	if !w.started {
		h := w.c.Response().Header()
		h.Set(echo.HeaderContentType, "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		w.c.Response().WriteHeader(http.StatusOK)
		w.started = true
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w.c.Response(), "data: %s\n\n", payload)
	w.c.Response().Flush()
}

func (w *sseWriter) done() {
	if !w.started {
		return
	}
	_, _ = fmt.Fprint(w.c.Response(), "data: [DONE]\n\n")
	w.c.Response().Flush()
}
