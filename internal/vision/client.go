// Package vision wraps the external vision-capable model behind a small
// client. It is the only package that talks to the model provider.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/precisionhealth/skinsight-be/internal/apperrors"
)

const systemPrompt = "You are a dermatologist specialized in analyzing skin conditions. " +
	"Analyze the skin image and provide a detailed assessment in a structured format. " +
	"Your response must be a JSON object with the following structure: " +
	"{" +
	`  "condition": "main condition identified",` +
	`  "severity": "Mild/Moderate/Severe",` +
	`  "description": "detailed description of the condition",` +
	`  "recommendations": ["recommendation 1", "recommendation 2", "recommendation 3"]` +
	"}" +
	"Be thorough but clear. Include specific treatment recommendations."

// PatientContext carries the optional free-text patient details attached to
// an analysis request.
type PatientContext struct {
	Name     string
	Duration string
	Symptoms string
}

// ChatTurn is a single prior message in a chat conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls the vision model. The call is single-shot: no retry, no
// streaming; cancellation comes from the request context and the configured
// HTTP timeout.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
}

// New creates a vision client.
func New(apiKey, model string, maxTokens int, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{
		api:       openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Analyze submits the image plus optional patient context and returns the
// model's raw reply text. The image travels as a base64 JPEG data URI.
func (c *Client) Analyze(ctx context.Context, image []byte, patient *PatientContext) (string, error) {
	prompt := "Please analyze this skin image and provide a detailed assessment." + patientBlock(patient)
	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURI},
					},
				},
			},
		},
	}

	return c.complete(ctx, req)
}

// Chat forwards a conversational turn with the same dermatologist persona.
func (c *Client) Chat(ctx context.Context, message string, history []ChatTurn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	return c.complete(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: 0,
		Messages:    messages,
	})
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("model", c.model).Msg("Model invocation failed")
		return "", fmt.Errorf("%w: %v", apperrors.ErrUpstreamFailure, err)
	}
	if len(resp.Choices) == 0 {
		log.Error().Str("model", c.model).Msg("Model returned no choices")
		return "", fmt.Errorf("%w: empty response", apperrors.ErrUpstreamFailure)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func patientBlock(patient *PatientContext) string {
	if patient == nil {
		return ""
	}
	return fmt.Sprintf("\nPatient Information:\n- Name: %s\n- Symptoms Duration: %s\n- Symptoms Description: %s\n",
		orNotProvided(patient.Name), orNotProvided(patient.Duration), orNotProvided(patient.Symptoms))
}

func orNotProvided(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Not provided"
	}
	return v
}
