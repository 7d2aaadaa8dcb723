package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"voicechat-backend/internal/integrations"
	"voicechat-backend/internal/models"
)

// MaxSynthesisTextLength is the longest text accepted for synthesis.
const MaxSynthesisTextLength = 5000

// synthesisContentTypes maps the requested audio format to the content type
// reported to the caller. Unrecognized formats fall back to the
// upstream-reported content type.
var synthesisContentTypes = map[string]string{
	"mp3":   "audio/mpeg",
	"wav":   "audio/wav",
	"aac":   "audio/aac",
	"mulaw": "audio/basic",
	"raw":   "audio/raw",
}

// Synthesizer converts text to audio.
type Synthesizer interface {
	CheckCredential() error
	Synthesize(ctx context.Context, text string, opts integrations.SynthesisOptions) (*integrations.SynthesisResult, error)
}

// Transcriber converts recorded audio to text.
type Transcriber interface {
	CheckCredential() error
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// SpeechService validates speech requests and delegates to the synthesis
// and transcription clients.
type SpeechService struct {
	synthesizer Synthesizer
	transcriber Transcriber
}

// NewSpeechService creates a new SpeechService.
func NewSpeechService(synthesizer Synthesizer, transcriber Transcriber) *SpeechService {
	return &SpeechService{
		synthesizer: synthesizer,
		transcriber: transcriber,
	}
}

// Synthesize validates the request and converts the text to audio. The
// result's content type reflects the requested format where recognized.
func (s *SpeechService) Synthesize(ctx context.Context, req models.SynthesizeRequest) (*integrations.SynthesisResult, error) {
	// A missing credential is reported ahead of input validation.
	if err := s.synthesizer.CheckCredential(); err != nil {
		return nil, err
	}
	if req.Text == "" {
		return nil, integrations.InputError("No text provided for synthesis")
	}
	if utf8.RuneCountInString(req.Text) > MaxSynthesisTextLength {
		return nil, integrations.InputError(
			fmt.Sprintf("Text exceeds maximum length of %d characters", MaxSynthesisTextLength))
	}

	result, err := s.synthesizer.Synthesize(ctx, req.Text, integrations.SynthesisOptions{
		Voice:          req.Voice,
		Format:         req.Format,
		Model:          req.Model,
		Language:       req.Language,
		SampleRate:     req.SampleRate,
		Speed:          req.Speed,
		Conversational: req.Conversational,
	})
	if err != nil {
		return nil, err
	}

	format := req.Format
	if format == "" {
		format = integrations.DefaultFormat
	}
	if ct, ok := synthesisContentTypes[format]; ok {
		result.ContentType = ct
	}
	return result, nil
}

// Transcribe validates the audio buffer and converts it to text.
func (s *SpeechService) Transcribe(ctx context.Context, audio []byte) (string, error) {
	// A missing credential is reported ahead of input validation.
	if err := s.transcriber.CheckCredential(); err != nil {
		return "", err
	}
	if len(audio) == 0 {
		return "", integrations.InputError("Empty audio file received")
	}
	return s.transcriber.Transcribe(ctx, audio)
}
