package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	defaultMaxWidth     = 1280
	defaultMaxSizeBytes = 1 * 1024 * 1024
	defaultMaxPixels    = 40_000_000
	defaultQuality      = 80
	minWidth            = 320
)

// ErrTooManyPixels: заголовок картинки объявляет больше пикселей, чем разрешено декодировать.
var ErrTooManyPixels = errors.New("image has too many pixels")

// ProcessedImage картинка, готовая к отправке модели.
type ProcessedImage struct {
	Data      []byte
	Width     int
	Height    int
	SizeBytes int
	MimeType  string
}

// Processor уменьшает загруженные картинки и перекодирует их в JPEG, чтобы не гонять мегабайты в модель.
type Processor struct {
	maxWidth    int
	maxSizeByte int
	maxPixels   int
	quality     int
}

// NewProcessor создаёт процессор. Неположительные лимиты заменяются значениями по умолчанию.
func NewProcessor(maxWidth, maxSizeBytes, maxPixels int) *Processor {
	if maxWidth <= 0 {
		maxWidth = defaultMaxWidth
	}
	if maxSizeBytes <= 0 {
		maxSizeBytes = defaultMaxSizeBytes
	}
	if maxPixels <= 0 {
		maxPixels = defaultMaxPixels
	}
	return &Processor{
		maxWidth:    maxWidth,
		maxSizeByte: maxSizeBytes,
		maxPixels:   maxPixels,
		quality:     defaultQuality,
	}
}

// Process нормализует картинку. Форматы, которые процесс не умеет декодировать,
// возвращаются без изменений с исходным mimeType.
func (p *Processor) Process(data []byte, mimeType string) (ProcessedImage, error) {
	if len(data) == 0 {
		return ProcessedImage{}, errors.New("image is empty")
	}

	// Размеры из заголовка проверяем до декодирования: маленький файл может объявить гигапиксели
	imgCfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return ProcessedImage{Data: data, SizeBytes: len(data), MimeType: mimeType}, nil
		}
		return ProcessedImage{}, fmt.Errorf("decode image config: %w", err)
	}
	if imgCfg.Width <= 0 || imgCfg.Height <= 0 {
		return ProcessedImage{}, fmt.Errorf("invalid image size: %dx%d", imgCfg.Width, imgCfg.Height)
	}
	if imgCfg.Width > p.maxPixels/imgCfg.Height {
		return ProcessedImage{}, fmt.Errorf("%w: %dx%d exceeds %d", ErrTooManyPixels, imgCfg.Width, imgCfg.Height, p.maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ProcessedImage{}, fmt.Errorf("decode image: %w", err)
	}

	origBounds := img.Bounds()
	origWidth := origBounds.Dx()
	origHeight := origBounds.Dy()
	if origWidth == 0 || origHeight == 0 {
		return ProcessedImage{}, fmt.Errorf("invalid image size: %dx%d", origWidth, origHeight)
	}

	// Уже подходящий JPEG отдаём как есть
	if format == "jpeg" && origWidth <= p.maxWidth && len(data) <= p.maxSizeByte {
		return ProcessedImage{
			Data:      data,
			Width:     origWidth,
			Height:    origHeight,
			SizeBytes: len(data),
			MimeType:  "image/jpeg",
		}, nil
	}

	quality := min(max(p.quality, defaultQuality), 100)

	resizedWidth := min(origWidth, p.maxWidth)
	resizedHeight := max(1, origHeight*resizedWidth/origWidth)

	var encoded []byte
	for {
		resized := resizeNearest(img, resizedWidth, resizedHeight)
		encoded, err = encodeJPEG(resized, quality)
		if err != nil {
			return ProcessedImage{}, err
		}

		if len(encoded) <= p.maxSizeByte {
			break
		}

		if resizedWidth <= minWidth {
			return ProcessedImage{}, fmt.Errorf("image exceeds max size %d bytes even after downscale", p.maxSizeByte)
		}

		resizedWidth = max(1, int(float64(resizedWidth)*0.9))
		resizedHeight = max(1, origHeight*resizedWidth/origWidth)
	}

	return ProcessedImage{
		Data:      encoded,
		Width:     resizedWidth,
		Height:    resizedHeight,
		SizeBytes: len(encoded),
		MimeType:  "image/jpeg",
	}, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resizeNearest(src image.Image, width int, height int) *image.RGBA {
	if width <= 0 || height <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	srcBounds := src.Bounds()
	srcWidth := srcBounds.Dx()
	srcHeight := srcBounds.Dy()
	if srcWidth == 0 || srcHeight == 0 {
		return image.NewRGBA(image.Rect(0, 0, width, height))
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		srcY := srcBounds.Min.Y + y*srcHeight/height
		for x := range width {
			srcX := srcBounds.Min.X + x*srcWidth/width
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}

	return dst
}
