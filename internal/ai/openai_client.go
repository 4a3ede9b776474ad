package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

// OpenAIClient отправляет текст и картинки в OpenAI через Responses API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient создаёт клиента. Повторы SDK отключены: ошибка апстрима сразу уходит вызывающему.
// Пустой baseURL: адрес SDK по умолчанию.
func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIClient{client: &client, model: model}
}

func (c *OpenAIClient) Name() string { return "openai" }

func (c *OpenAIClient) SendRequest(ctx context.Context, prompt Prompt) (string, error) {
	if c.client == nil {
		return "", errors.New("nil openai client")
	}

	// Контент пользовательского сообщения: сначала текст, затем изображения
	content := make(responses.ResponseInputMessageContentListParam, 0, len(prompt.Images)+1)
	if prompt.Text != "" {
		content = append(content, responses.ResponseInputContentUnionParam{
			OfInputText: &responses.ResponseInputTextParam{Text: prompt.Text},
		})
	}
	for _, img := range prompt.Images {
		dataURL, err := makeImageDataURL(img)
		if err != nil {
			return "", err
		}
		content = append(content, responses.ResponseInputContentUnionParam{
			OfInputImage: &responses.ResponseInputImageParam{
				Detail:   responses.ResponseInputImageDetailAuto,
				ImageURL: openai.String(dataURL),
			},
		})
	}
	if len(content) == 0 {
		return "", errors.New("openai: empty user message")
	}

	inputItems := make(responses.ResponseInputParam, 0, 2)
	if st := strings.TrimSpace(prompt.System); st != "" {
		inputItems = append(inputItems,
			responses.ResponseInputItemParamOfMessage(
				responses.ResponseInputMessageContentListParam{
					{OfInputText: &responses.ResponseInputTextParam{Text: st}},
				},
				responses.EasyInputMessageRoleSystem,
			),
		)
	}
	inputItems = append(inputItems,
		responses.ResponseInputItemParamOfMessage(content, responses.EasyInputMessageRoleUser),
	)

	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{OfInputItemList: inputItems},
	})
	if err != nil {
		return "", err
	}

	text := resp.OutputText()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func makeImageDataURL(img Image) (string, error) {
	if len(img.Data) == 0 {
		return "", errors.New("image is empty")
	}
	contentType := img.MimeType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(img.Data)), nil
}
