package integrations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	completionSystemPrompt = "You are a helpful assistant."
	completionModel        = openai.GPT3Dot5Turbo
	completionMaxTokens    = 500
)

// OpenAIClient wraps the OpenAI chat completion API behind the single
// operation this service needs.
type OpenAIClient struct {
	apiKey string
	client *openai.Client
}

// NewOpenAIClient creates a completion client. An empty apiKey is allowed
// at construction; Complete fails with a configuration error before any
// network call if the key is missing.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	c := &OpenAIClient{apiKey: apiKey}
	if apiKey != "" {
		c.client = openai.NewClient(apiKey)
	}
	return c
}

// Complete sends the fixed system prompt plus the user message to the chat
// completion API and returns the first choice's text.
func (c *OpenAIClient) Complete(ctx context.Context, userMessage string) (string, error) {
	if c.apiKey == "" {
		return "", configError("OpenAI API key not configured")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     completionModel,
		MaxTokens: completionMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: completionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", c.mapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindUpstream, Message: "No completion received from service"}
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) mapError(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		log.Printf("[OpenAIClient] API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return &Error{Kind: KindAuth, Status: http.StatusUnauthorized, Message: "Invalid OpenAI API key", Err: err}
		case http.StatusForbidden:
			return &Error{Kind: KindPermission, Status: http.StatusForbidden, Message: "OpenAI API key lacks permission", Err: err}
		case http.StatusTooManyRequests:
			return &Error{Kind: KindRateLimit, Status: http.StatusTooManyRequests, Message: "OpenAI rate limit exceeded", Err: err}
		default:
			return &Error{
				Kind:    KindUpstream,
				Status:  apiErr.HTTPStatusCode,
				Message: fmt.Sprintf("OpenAI API error: %d", apiErr.HTTPStatusCode),
				Err:     err,
			}
		}
	}
	return classifyTransportError(err,
		"Unable to connect to OpenAI API. Please check your internet connection.",
		"Connection to OpenAI API timed out. Please try again.",
		"Completion request failed")
}
