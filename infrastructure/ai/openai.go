// Package ai implements the AI collaborator port on top of the OpenAI
// API: whisper for transcription, chat completions for structured
// generation.
package ai

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	pkgerrors "ideavine-backend/pkg/errors"
)

const systemPrompt = "You are an assistant that helps create structured mind maps and synthesize ideas."

// OpenAIClient implements ports.AIClient.
type OpenAIClient struct {
	client    *openai.Client
	chatModel string
	logger    *zap.Logger
}

// NewOpenAIClient creates a collaborator talking to the OpenAI API.
// chatModel falls back to gpt-4o-mini when empty.
func NewOpenAIClient(apiKey, chatModel string, logger *zap.Logger) *OpenAIClient {
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	return &OpenAIClient{
		client:    openai.NewClient(apiKey),
		chatModel: chatModel,
		logger:    logger,
	}
}

// Transcribe converts audio to text with whisper. The filename only
// matters for its extension, which selects the decoder.
func (c *OpenAIClient) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", pkgerrors.NewUpstreamError("openai", err).
			WithDetail("operation", "transcription")
	}
	c.logger.Debug("transcription complete", zap.Int("chars", len(resp.Text)))
	return resp.Text, nil
}

// GenerateStructured sends the prompt to the chat model and extracts
// the JSON document from the reply.
func (c *OpenAIClient) GenerateStructured(ctx context.Context, prompt string) (json.RawMessage, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewUpstreamError("openai", err).
			WithDetail("operation", "chat_completion")
	}
	if len(resp.Choices) == 0 {
		return nil, pkgerrors.NewUpstreamError("openai", nil).
			WithDetail("reason", "empty choice list")
	}
	return ExtractJSON(resp.Choices[0].Message.Content)
}
