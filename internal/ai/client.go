package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const maxTokens = 512

// Prediction is the AI triage result attached to a freshly uploaded scan.
type Prediction struct {
	Label      string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// Predictor produces a triage prediction for an uploaded scan. Implementations
// must treat failures as non-fatal; the upload proceeds without a prediction.
type Predictor interface {
	Predict(ctx context.Context, scanType, fileName string) (Prediction, error)
}

// Client is the OpenAI-backed Predictor.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a Predictor from an API key and model name.
func NewClient(apiKey, model string) *Client {
	return &Client{api: openai.NewClient(apiKey), model: model}
}

const systemPrompt = `You are a radiology triage assistant. Given the scan type and file name of a
medical imaging study, respond with a JSON object of the form
{"prediction": "<short preliminary finding label>", "confidence": <0-100>}.
The prediction is a preliminary triage hint only and is always reviewed by a
radiologist before any report is issued.`

// Predict asks the model for a preliminary finding label and confidence.
func (c *Client) Predict(ctx context.Context, scanType, fileName string) (Prediction, error) {
	req := openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Scan type: %s\nFile: %s", scanType, fileName)},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Prediction{}, fmt.Errorf("chat completion returned no choices")
	}

	var pred Prediction
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &pred); err != nil {
		return Prediction{}, fmt.Errorf("failed to parse prediction: %w", err)
	}
	return pred, nil
}
