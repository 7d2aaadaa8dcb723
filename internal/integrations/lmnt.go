package integrations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const lmntBaseURL = "https://api.lmnt.com/v1"

// Synthesis option defaults, matching the LMNT "aurora" voice stack.
const (
	DefaultVoice      = "lily"
	DefaultFormat     = "wav"
	DefaultModel      = "aurora"
	DefaultLanguage   = "en"
	DefaultSampleRate = 24000
	DefaultSpeed      = 1.0
)

// SynthesisOptions configures a synthesis request. Zero values are replaced
// with the defaults above.
type SynthesisOptions struct {
	Voice          string
	Format         string // one of mp3, wav, aac, mulaw, raw
	Model          string
	Language       string
	SampleRate     int
	Speed          float64
	Conversational bool
}

func (o SynthesisOptions) withDefaults() SynthesisOptions {
	if o.Voice == "" {
		o.Voice = DefaultVoice
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.SampleRate == 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.Speed == 0 {
		o.Speed = DefaultSpeed
	}
	return o
}

// SynthesisResult holds the raw audio plus the format metadata reported by
// the synthesis API.
type SynthesisResult struct {
	Audio           []byte
	SampleRate      int
	DurationSamples int
	ContentType     string
}

// LMNTClient wraps the LMNT speech synthesis REST API.
type LMNTClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewLMNTClient creates a synthesis client. An empty apiKey is allowed at
// construction; Synthesize fails with a configuration error before any
// network call if the key is missing.
func NewLMNTClient(apiKey string, httpClient *http.Client) *LMNTClient {
	return &LMNTClient{
		apiKey:     apiKey,
		baseURL:    lmntBaseURL,
		httpClient: httpClient,
	}
}

// CheckCredential reports whether the client holds an API key. Callers use
// this to surface the misconfiguration ahead of input validation.
func (c *LMNTClient) CheckCredential() error {
	if c.apiKey == "" {
		return configError("LMNT API key not configured")
	}
	return nil
}

// Synthesize converts text to audio with the merged default+caller options
// and returns the audio bytes plus the metadata from the response headers.
func (c *LMNTClient) Synthesize(ctx context.Context, text string, opts SynthesisOptions) (*SynthesisResult, error) {
	if err := c.CheckCredential(); err != nil {
		return nil, err
	}

	opts = opts.withDefaults()
	params := url.Values{}
	params.Set("text", text)
	params.Set("voice", opts.Voice)
	params.Set("format", opts.Format)
	params.Set("model", opts.Model)
	params.Set("language", opts.Language)
	params.Set("sample_rate", strconv.Itoa(opts.SampleRate))
	params.Set("speed", strconv.FormatFloat(opts.Speed, 'f', -1, 64))
	params.Set("conversational", strconv.FormatBool(opts.Conversational))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ai/speech?"+params.Encode(), nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "Failed to build synthesis request", Err: err}
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "audio/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err,
			"Unable to connect to LMNT API. Please check your internet connection.",
			"Connection to LMNT API timed out. Please try again.",
			"Synthesis failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, c.mapStatus(resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "Failed to read synthesized audio", Err: err}
	}

	// Atoi failures leave the metadata fields at zero; the upstream header
	// is trusted but not required.
	sampleRate, _ := strconv.Atoi(resp.Header.Get("X-Sample-Rate"))
	durationSamples, _ := strconv.Atoi(resp.Header.Get("X-Duration-Samples"))

	return &SynthesisResult{
		Audio:           audio,
		SampleRate:      sampleRate,
		DurationSamples: durationSamples,
		ContentType:     resp.Header.Get("Content-Type"),
	}, nil
}

func (c *LMNTClient) mapStatus(status int) *Error {
	switch status {
	case http.StatusBadRequest:
		return &Error{Kind: KindInput, Status: status, Message: "Invalid request parameters"}
	case http.StatusUnauthorized:
		return &Error{Kind: KindAuth, Status: status, Message: "Invalid API key"}
	case http.StatusForbidden:
		return &Error{Kind: KindPermission, Status: status, Message: "API key lacks permission"}
	case http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimit, Status: status, Message: "Rate limit exceeded"}
	default:
		return &Error{Kind: KindUpstream, Status: status, Message: fmt.Sprintf("LMNT API error: %d", status)}
	}
}
