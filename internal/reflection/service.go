package reflection

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

// ErrTranscriptTooShort rejects transcripts below the minimum meaningful
// length before any network call is made.
var ErrTranscriptTooShort = errors.New("transcript too short - record a longer message")

// minTranscriptLen is the minimum trimmed transcript length accepted for
// downstream processing.
const minTranscriptLen = 5

// ChatStreamer is the minimal interface to the text-generation endpoint.
type ChatStreamer interface {
	StreamChat(ctx context.Context, prompt string, onDelta func(string)) error
	Complete(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator produces one illustration URL for a prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service owns the reflection round-trips: the full streaming generation,
// per-section shuffles, and illustration synthesis.
type Service struct {
	chat   ChatStreamer
	images ImageGenerator
}

func NewService(chat ChatStreamer, images ImageGenerator) *Service {
	return &Service{chat: chat, images: images}
}

func validateTranscript(transcript string) error {
	if len(strings.TrimSpace(transcript)) < minTranscriptLen {
		return ErrTranscriptTooShort
	}
	return nil
}

// Reflect streams a full structured response for the transcript. onProgress
// is invoked with a refined snapshot whenever a newly-arrived fragment
// changed at least one field; the returned value is a final parse of the
// complete accumulated text, which guards against a trailing fragment whose
// snapshot delivery raced the end of the stream.
func (s *Service) Reflect(ctx context.Context, transcript string, onProgress func(AIResponse)) (AIResponse, error) {
	if err := validateTranscript(transcript); err != nil {
		return AIResponse{}, err
	}
	prompt := buildReflectionPrompt(transcript)

	var buf strings.Builder
	var last AIResponse
	err := s.chat.StreamChat(ctx, prompt, func(delta string) {
		buf.WriteString(delta)
		snap := ParseResponse(buf.String())
		// a fragment with no complete label yet parses to the zero
		// snapshot; nothing to tell the client until a field appears
		if snap.Equal(last) {
			return
		}
		last = snap
		if onProgress != nil {
			onProgress(snap)
		}
	})
	if err != nil {
		return AIResponse{}, fmt.Errorf("reflection stream failed: %w", err)
	}
	return ParseResponse(buf.String()), nil
}

// ReflectOnce is the non-streaming fallback: one round-trip, one parse.
func (s *Service) ReflectOnce(ctx context.Context, transcript string) (AIResponse, error) {
	if err := validateTranscript(transcript); err != nil {
		return AIResponse{}, err
	}
	text, err := s.chat.Complete(ctx, buildReflectionPrompt(transcript))
	if err != nil {
		return AIResponse{}, fmt.Errorf("reflection request failed: %w", err)
	}
	return ParseResponse(text), nil
}

// Shuffle regenerates a single suggestion section with the same streaming
// contract as Reflect, scoped to that section's three labels. Snapshots and
// the final value carry only the requested section's fields, so concurrent
// shuffles of both sections cannot corrupt each other.
func (s *Service) Shuffle(ctx context.Context, transcript string, section Section, onProgress func(SectionUpdate)) (SectionUpdate, error) {
	if !section.Valid() {
		return SectionUpdate{}, fmt.Errorf("unknown section %q", section)
	}
	if err := validateTranscript(transcript); err != nil {
		return SectionUpdate{}, err
	}
	prompt := buildShufflePrompt(section, transcript)

	var buf strings.Builder
	last := SectionUpdate{Section: section}
	err := s.chat.StreamChat(ctx, prompt, func(delta string) {
		buf.WriteString(delta)
		snap := ParseSection(buf.String(), section)
		if snap.Equal(last) {
			return
		}
		last = snap
		if onProgress != nil {
			onProgress(snap)
		}
	})
	if err != nil {
		return SectionUpdate{}, fmt.Errorf("shuffle stream failed: %w", err)
	}
	return ParseSection(buf.String(), section), nil
}

// Illustrate requests one image per suggestion card. The two requests run in
// parallel and fail independently: a failed image leaves its URL empty while
// the sibling still resolves. The aggregate call itself never fails.
func (s *Service) Illustrate(ctx context.Context, resp AIResponse) AIImages {
	var imgs AIImages
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		url, err := s.images.Generate(ctx, buildImagePrompt(resp.ForYouTitle, resp.ForYou))
		if err != nil {
			log.Printf("for-you image generation failed: %v", err)
			return
		}
		imgs.ForYouImage = url
	}()
	go func() {
		defer wg.Done()
		url, err := s.images.Generate(ctx, buildImagePrompt(resp.ForThemTitle, resp.ForThem))
		if err != nil {
			log.Printf("for-them image generation failed: %v", err)
			return
		}
		imgs.ForThemImage = url
	}()
	wg.Wait()
	return imgs
}
