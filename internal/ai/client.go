package ai

import (
	"context"
	"errors"
)

// ErrEmptyCompletion модель ответила без текста.
var ErrEmptyCompletion = errors.New("model returned an empty completion")

// Image картинка, передаваемая модели как есть.
type Image struct {
	Data     []byte
	MimeType string
}

// Prompt содержит системную инструкцию и один пользовательский ход (текст и/или картинки).
type Prompt struct {
	System string
	Text   string
	Images []Image
}

// Client интерфейс для взаимодействия с AI. Все реализации должны быть взаимозаменяемыми
// и безопасными для конкурентного использования.
type Client interface {
	// Name возвращает имя провайдера, напр. "openai".
	Name() string
	// SendRequest отправляет промпт и возвращает текст первого ответа модели.
	SendRequest(ctx context.Context, prompt Prompt) (string, error)
}
