// Package openai implements text detection through an OpenAI-compatible
// multimodal chat API, as an alternative to the Yandex Vision provider.
package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const transcribePrompt = "Transcribe every piece of visible text in this image. " +
	"Output one detected line per line, with no commentary. " +
	"If there is no text, output nothing."

// OCR detects text on images via a vision-capable chat model.
type OCR struct {
	client *openai.Client
	model  string
}

// Config holds the OCR provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewOCR creates an OpenAI-compatible OCR provider.
func NewOCR(cfg Config) *OCR {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OCR{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// DetectText asks the model to transcribe all visible text.
// Returns "" when the model found nothing.
func (o *OCR) DetectText(ctx context.Context, image []byte) (string, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: transcribePrompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL,
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty chat completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
