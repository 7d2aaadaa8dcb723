package integrations

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	prerecorded "github.com/deepgram/deepgram-go-sdk/pkg/api/prerecorded/v1"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	deepgram "github.com/deepgram/deepgram-go-sdk/pkg/client/prerecorded"
)

// MaxAudioBytes is the largest upload the transcription client accepts.
const MaxAudioBytes = 10 << 20 // 10 MiB

// DeepgramClient wraps the Deepgram prerecorded transcription SDK behind
// the single operation this service needs.
type DeepgramClient struct {
	apiKey string
	api    *prerecorded.PrerecordedClient
}

// NewDeepgramClient creates a transcription client. An empty apiKey is
// allowed at construction; Transcribe fails with a configuration error
// before any network call if the key is missing.
func NewDeepgramClient(apiKey string) *DeepgramClient {
	c := &DeepgramClient{apiKey: apiKey}
	if apiKey != "" {
		c.api = prerecorded.New(deepgram.New(apiKey, interfaces.ClientOptions{}))
	}
	return c
}

// CheckCredential reports whether the client holds an API key. Callers use
// this to surface the misconfiguration ahead of input validation.
func (c *DeepgramClient) CheckCredential() error {
	if c.apiKey == "" {
		return configError("Deepgram API key not configured")
	}
	return nil
}

// Transcribe sends the audio buffer through the prerecorded transcription
// API with fixed options (smart formatting, general model, en-US) and
// returns the first channel's first alternative transcript.
func (c *DeepgramClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if err := c.CheckCredential(); err != nil {
		return "", err
	}
	if len(audio) == 0 {
		return "", InputError("Empty audio file received")
	}
	if len(audio) > MaxAudioBytes {
		return "", InputError("Audio exceeds maximum size of 10MB")
	}

	res, err := c.api.FromStream(ctx, bytes.NewReader(audio), interfaces.PreRecordedTranscriptionOptions{
		Model:       "general",
		Language:    "en-US",
		SmartFormat: true,
	})
	if err != nil {
		return "", c.mapError(err)
	}

	channels := res.Results.Channels
	if len(channels) == 0 || len(channels[0].Alternatives) == 0 || channels[0].Alternatives[0].Transcript == "" {
		return "", &Error{Kind: KindUpstream, Message: "No transcript received from service"}
	}
	return channels[0].Alternatives[0].Transcript, nil
}

func (c *DeepgramClient) mapError(err error) *Error {
	var statusErr *interfaces.StatusError
	if errors.As(err, &statusErr) && statusErr.Resp != nil {
		status := statusErr.Resp.StatusCode
		switch status {
		case http.StatusUnauthorized:
			return &Error{Kind: KindAuth, Status: status, Message: "Invalid Deepgram API key", Err: err}
		case http.StatusForbidden:
			return &Error{Kind: KindPermission, Status: status, Message: "Deepgram API key lacks permission", Err: err}
		case http.StatusTooManyRequests:
			return &Error{Kind: KindRateLimit, Status: status, Message: "Deepgram rate limit exceeded", Err: err}
		default:
			return &Error{Kind: KindUpstream, Status: status, Message: fmt.Sprintf("Transcription service error: %d", status), Err: err}
		}
	}
	return classifyTransportError(err,
		"Unable to connect to Deepgram API. Please check your internet connection.",
		"Connection to Deepgram API timed out. Please try again.",
		"Transcription request failed")
}
