package ai

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoggingClient логирует каждый запрос к модели: провайдер, состав промпта, длительность и ошибку.
type LoggingClient struct {
	next   Client
	logger *zap.SugaredLogger
}

func NewLoggingClient(next Client, logger *zap.SugaredLogger) *LoggingClient {
	return &LoggingClient{next: next, logger: logger}
}

func (c *LoggingClient) Name() string { return c.next.Name() }

func (c *LoggingClient) SendRequest(ctx context.Context, prompt Prompt) (string, error) {
	imageBytes := 0
	for _, img := range prompt.Images {
		imageBytes += len(img.Data)
	}

	start := time.Now()
	c.logger.Debugw("AI request",
		"provider", c.next.Name(),
		"text_len", len(prompt.Text),
		"images", len(prompt.Images),
		"image_bytes", imageBytes,
	)
	resp, err := c.next.SendRequest(ctx, prompt)
	dur := time.Since(start)
	if err != nil {
		c.logger.Errorw("AI request failed", "provider", c.next.Name(), "duration", dur.String(), "error", err)
		return "", err
	}
	c.logger.Infow("AI response received", "provider", c.next.Name(), "duration", dur.String(), "response_len", len(resp))
	return resp, nil
}
