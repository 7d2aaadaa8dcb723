package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"voicechat-backend/internal/integrations"
	"voicechat-backend/internal/models"
	"voicechat-backend/internal/services"
	"voicechat-backend/pkg/httputil"
)

// SpeechHandlers handles HTTP requests for synthesis and transcription.
type SpeechHandlers struct {
	speechService *services.SpeechService
}

// NewSpeechHandlers creates a new SpeechHandlers instance.
func NewSpeechHandlers(speechService *services.SpeechService) *SpeechHandlers {
	return &SpeechHandlers{
		speechService: speechService,
	}
}

// HandleSynthesize converts text to speech and streams the audio back with
// descriptive headers.
func (h *SpeechHandlers) HandleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req models.SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	log.Printf("[SpeechHandlers] synthesis request: textLength=%d voice=%q format=%q model=%q",
		len(req.Text), req.Voice, req.Format, req.Model)

	result, err := h.speechService.Synthesize(r.Context(), req)
	if err != nil {
		respondServiceError(w, "Synthesize", err)
		return
	}

	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Audio)))
	w.Header().Set("X-Sample-Rate", strconv.Itoa(result.SampleRate))
	w.Header().Set("X-Duration-Samples", strconv.Itoa(result.DurationSamples))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Audio); err != nil {
		log.Printf("ERROR [Synthesize]: failed to write audio response: %v", err)
	}
}

// HandleTranscribe accepts an uploaded audio file (multipart field "audio",
// at most 10 MiB) and returns the extracted transcript.
func (h *SpeechHandlers) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("audio")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "No audio file provided")
		return
	}
	defer file.Close()

	// Read one byte past the limit so an oversized upload is detectable
	// without buffering the whole thing.
	audio, err := io.ReadAll(io.LimitReader(file, integrations.MaxAudioBytes+1))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Failed to read audio file")
		return
	}
	if len(audio) > integrations.MaxAudioBytes {
		httputil.RespondError(w, http.StatusBadRequest, "Audio exceeds maximum size of 10MB")
		return
	}

	log.Printf("[SpeechHandlers] transcribe request: filename=%q size=%d", header.Filename, len(audio))

	transcript, err := h.speechService.Transcribe(r.Context(), audio)
	if err != nil {
		respondServiceError(w, "Transcribe", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.TranscribeResponse{Transcript: transcript})
}
