package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Поддерживаемые провайдеры модели.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderStub   = "stub"
)

type Config struct {
	DebugMode bool   `env:"DEBUG_MODE"`  // Режим дебага: development-логгер, подробные логи запросов
	Provider  string `env:"AI_PROVIDER"` // openai|gemini|stub
	BindAddr  string `env:"BIND_ADDR"`   // Адрес HTTP-сервера, напр. 0.0.0.0:5000

	OpenAI OpenAIConfig
	Gemini GeminiConfig
	Server ServerConfig
	Image  ImageConfig

	PromptsFile   string `env:"PROMPTS_FILE"`   // YAML с профилями промптов; пусто: встроенные профили
	PromptProfile string `env:"PROMPT_PROFILE"` // Имя профиля: en|el|...

	// Prompt хранит выбранный профиль, заполняется в NewConfig.
	Prompt PromptProfile
}

// OpenAIConfig параметры клиента OpenAI.
type OpenAIConfig struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	Model   string `env:"OPENAI_MODEL"`
	BaseURL string `env:"OPENAI_BASE_URL"` // Пусто: адрес SDK по умолчанию
}

// GeminiConfig параметры клиента Gemini API.
type GeminiConfig struct {
	APIKey  string `env:"GEMINI_API_KEY"`
	Model   string `env:"GEMINI_MODEL"`
	BaseURL string `env:"GEMINI_BASE_URL"`
}

// ServerConfig параметры HTTP-слоя.
type ServerConfig struct {
	LivenessMessage    string   `env:"LIVENESS_MESSAGE"`
	MaxUploadBytes     int64    `env:"MAX_UPLOAD_BYTES"`                      // Лимит тела запроса с картинкой
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:";"` // "*": любой origin
}

// ImageConfig параметры нормализации загруженных картинок.
type ImageConfig struct {
	MaxWidth  int `env:"IMAGE_MAX_WIDTH"`
	MaxBytes  int `env:"IMAGE_MAX_BYTES"`
	MaxPixels int `env:"IMAGE_MAX_PIXELS"` // Лимит ширина*высота по заголовку, до декодирования
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode: false,
		Provider:  ProviderOpenAI,
		BindAddr:  "0.0.0.0:5000",
		OpenAI: OpenAIConfig{
			Model: "gpt-5",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Server: ServerConfig{
			LivenessMessage:    "Pet AI Backend is running!",
			MaxUploadBytes:     10 << 20,
			CORSAllowedOrigins: []string{"*"},
		},
		Image: ImageConfig{
			MaxWidth:  1280,
			MaxBytes:  1 << 20,
			MaxPixels: 40_000_000,
		},
		PromptProfile: "en",
	}
}

// NewConfig загружает конфигурацию приложения: дефолты, затем .env, окружение и флаги из args.
// Ошибка означает, что сервис не может стартовать.
func NewConfig(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага")
	fs.StringVar(&cfg.Provider, "provider", cfg.Provider, "провайдер модели: openai|gemini|stub")
	fs.StringVar(&cfg.BindAddr, "bind-addr", cfg.BindAddr, "адрес HTTP-сервера (напр. 0.0.0.0:5000)")
	fs.StringVar(&cfg.OpenAI.Model, "openai-model", cfg.OpenAI.Model, "модель OpenAI")
	fs.StringVar(&cfg.Gemini.Model, "gemini-model", cfg.Gemini.Model, "модель Gemini")
	fs.StringVar(&cfg.PromptsFile, "prompts-file", cfg.PromptsFile, "YAML-файл с профилями промптов")
	fs.StringVar(&cfg.PromptProfile, "prompt-profile", cfg.PromptProfile, "имя профиля промпта (en|el|...)")
	fs.Int64Var(&cfg.Server.MaxUploadBytes, "max-upload-bytes", cfg.Server.MaxUploadBytes, "максимальный размер тела запроса, байт")
	// Список origin одной строкой, разделённой ';'
	corsFlag := strings.Join(cfg.Server.CORSAllowedOrigins, ";")
	fs.StringVar(&corsFlag, "cors-allowed-origins", corsFlag, "разрешённые CORS origin, разделённые ';'")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	cfg.Server.CORSAllowedOrigins = parseListFlag(corsFlag, []string{"*"})
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	profiles, err := LoadPromptProfiles(cfg.PromptsFile)
	if err != nil {
		return nil, err
	}
	profile, ok := profiles[cfg.PromptProfile]
	if !ok {
		return nil, fmt.Errorf("unknown prompt profile %q", cfg.PromptProfile)
	}
	cfg.Prompt = profile

	return cfg, nil
}

// Validate проверяет, что выбранному провайдеру хватает настроек.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if strings.TrimSpace(c.OpenAI.APIKey) == "" {
			return errors.New("OPENAI_API_KEY is not set")
		}
	case ProviderGemini:
		if strings.TrimSpace(c.Gemini.APIKey) == "" {
			return errors.New("GEMINI_API_KEY is not set")
		}
	case ProviderStub:
	default:
		return fmt.Errorf("unknown AI provider %q (want openai|gemini|stub)", c.Provider)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	if c.Image.MaxWidth <= 0 || c.Image.MaxBytes <= 0 || c.Image.MaxPixels <= 0 {
		return errors.New("image limits must be positive")
	}
	return nil
}

// parseListFlag разбирает значение флага со списком, разделённым ';'
func parseListFlag(v string, def []string) []string {
	// Пустая строка → дефолт
	if v == "" {
		return def
	}
	parts := strings.Split(v, ";")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return def
	}
	return cleaned
}
