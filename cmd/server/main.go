package main

import (
	"PetAIBackend/internal/ai"
	"PetAIBackend/internal/config"
	"PetAIBackend/internal/server"
	"PetAIBackend/internal/service/diagnosis"
	"PetAIBackend/internal/service/image"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// Шлюз диагностики питомцев: принимает описание и/или фото и пересылает их модели.
func main() {
	cfg, err := config.NewConfig(os.Args[1:])
	if err != nil {
		// без ключа API и валидной конфигурации сервер не стартует
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.DebugMode)
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	// Graceful shutdown on Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, sugar); err != nil {
		sugar.Errorw("Gateway stopped with error", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, sugar *zap.SugaredLogger) error {
	client, err := ai.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create AI client: %w", err)
	}
	client = ai.NewLoggingClient(client, sugar)

	sugar.Infow(
		"Starting app",
		"DebugMode", cfg.DebugMode,
		"provider", client.Name(),
		"bind_addr", cfg.BindAddr,
		"prompt_profile", cfg.PromptProfile,
	)

	processor := image.NewProcessor(cfg.Image.MaxWidth, cfg.Image.MaxBytes, cfg.Image.MaxPixels)
	svc := diagnosis.NewService(client, processor, cfg.Prompt, sugar)

	return server.New(cfg, svc, sugar).Run(ctx)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
