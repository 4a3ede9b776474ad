package diagnosis

import (
	"PetAIBackend/internal/ai"
	"PetAIBackend/internal/config"
	"PetAIBackend/internal/service/image"
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Image загруженная клиентом картинка с объявленным Content-Type.
type Image struct {
	Data        []byte
	ContentType string
}

// Request содержит описание симптомов и/или фото. Хотя бы одно поле должно быть непустым.
type Request struct {
	Description string
	Image       *Image
}

// Response ответ модели как есть.
type Response struct {
	Diagnosis string `json:"diagnosis"`
}

// ImageProcessor подготавливает картинку перед отправкой модели.
type ImageProcessor interface {
	Process(data []byte, mimeType string) (image.ProcessedImage, error)
}

// Service проверяет запрос, собирает промпт и вызывает модель. Состояния между запросами не хранит.
type Service struct {
	client    ai.Client
	processor ImageProcessor
	profile   config.PromptProfile
	system    string
	logger    *zap.SugaredLogger
}

// NewService создаёт сервис. processor может быть nil, тогда картинки уходят без обработки.
func NewService(client ai.Client, processor ImageProcessor, profile config.PromptProfile, logger *zap.SugaredLogger) *Service {
	return &Service{
		client:    client,
		processor: processor,
		profile:   profile,
		system:    SystemPrompt(profile),
		logger:    logger,
	}
}

// Diagnose выполняет цепочку validate → compose → call → respond.
// Ошибки всегда *Error: класс ErrInvalidRequest или ErrUpstreamFailure.
func (s *Service) Diagnose(ctx context.Context, req Request) (Response, error) {
	description := strings.TrimSpace(req.Description)
	hasImage := req.Image != nil && len(req.Image.Data) > 0
	if description == "" && !hasImage {
		return Response{}, InvalidRequest(MsgMissingInput)
	}

	prompt := ai.Prompt{System: s.system}
	if description != "" {
		prompt.Text = DescriptionText(s.profile, description)
	}

	if hasImage {
		contentType := strings.ToLower(strings.TrimSpace(req.Image.ContentType))
		if !strings.HasPrefix(contentType, "image/") {
			return Response{}, InvalidRequest(MsgInvalidImageType)
		}

		img := ai.Image{Data: req.Image.Data, MimeType: contentType}
		if s.processor != nil {
			processed, err := s.processor.Process(req.Image.Data, contentType)
			if errors.Is(err, image.ErrTooManyPixels) {
				return Response{}, InvalidRequest(MsgImageTooLarge)
			}
			if err != nil {
				s.logger.Errorw("Image processing failed", "content_type", contentType, "bytes", len(req.Image.Data), "error", err)
				return Response{}, UpstreamFailure(err)
			}
			img = ai.Image{Data: processed.Data, MimeType: processed.MimeType}
		}
		prompt.Images = append(prompt.Images, img)
	}

	text, err := s.client.SendRequest(ctx, prompt)
	if err != nil {
		// Ошибку уже залогировали клиент-декоратор и HTTP-слой
		s.logger.Debugw("AI provider returned error", "provider", s.client.Name(), "error", err)
		return Response{}, UpstreamFailure(err)
	}
	return Response{Diagnosis: text}, nil
}
