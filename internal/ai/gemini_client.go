package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient отправляет текст и картинки в Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient создаёт клиента Gemini API по ключу. Пустой baseURL: адрес SDK по умолчанию.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Name() string { return "gemini" }

func (c *GeminiClient) SendRequest(ctx context.Context, prompt Prompt) (string, error) {
	if c.client == nil {
		return "", errors.New("nil gemini client")
	}

	parts := make([]*genai.Part, 0, len(prompt.Images)+1)
	if prompt.Text != "" {
		parts = append(parts, genai.NewPartFromText(prompt.Text))
	}
	for _, img := range prompt.Images {
		if len(img.Data) == 0 {
			return "", errors.New("image is empty")
		}
		mimeType := img.MimeType
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		parts = append(parts, genai.NewPartFromBytes(img.Data, mimeType))
	}
	if len(parts) == 0 {
		return "", errors.New("gemini: empty user message")
	}

	var genCfg *genai.GenerateContentConfig
	if st := strings.TrimSpace(prompt.System); st != "" {
		genCfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(st, genai.RoleUser),
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		genCfg,
	)
	if err != nil {
		return "", err
	}

	// Используем только первого кандидата.
	if len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		if cand.FinishReason != genai.FinishReasonUnspecified && cand.FinishReason != genai.FinishReasonStop &&
			(cand.Content == nil || len(cand.Content.Parts) == 0) {
			return "", fmt.Errorf("gemini: generation stopped (FinishReason: %s)", cand.FinishReason)
		}
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
