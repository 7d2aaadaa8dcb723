package models

// --- Request Structs ---

// SendMessageRequest defines the expected body for the send-message endpoint.
type SendMessageRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// SynthesizeRequest defines the body for the speech synthesis endpoint.
// All fields except Text are optional; defaults are applied by the
// synthesis client (voice "lily", wav, model "aurora", en, 24000 Hz, 1x).
type SynthesizeRequest struct {
	Text           string  `json:"text"`
	Voice          string  `json:"voice,omitempty"`
	Language       string  `json:"language,omitempty"`
	Model          string  `json:"model,omitempty"`
	Format         string  `json:"format,omitempty"`
	Conversational bool    `json:"conversational,omitempty"`
	SampleRate     int     `json:"sample_rate,omitempty"`
	Speed          float64 `json:"speed,omitempty"`
}

// --- Response Structs ---

// SendMessageResponse returns the assistant reply plus the full updated
// message log for the user's conversation.
type SendMessageResponse struct {
	Message     string    `json:"message"`
	ChatHistory []Message `json:"chatHistory"`
}

// TranscribeResponse returns the transcript extracted from uploaded audio.
type TranscribeResponse struct {
	Transcript string `json:"transcript"`
}

// DeleteHistoryResponse confirms deletion of a user's conversation records.
type DeleteHistoryResponse struct {
	Message string `json:"message"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
