package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"teeth-classifier/config"
	telegram "teeth-classifier/internal/api"
	"teeth-classifier/internal/container"
	"teeth-classifier/internal/domain/entity"
	"teeth-classifier/internal/infrastructure/modelstore"
	"teeth-classifier/internal/infrastructure/onnx"
	"teeth-classifier/internal/infrastructure/storage"
	"teeth-classifier/internal/infrastructure/vision"
	"teeth-classifier/internal/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "kind", entity.Kind(err), "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := entity.ValidateCatalog(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Модель загружается один раз до приёма загрузок
	loader := onnx.NewLoader(onnx.Options{
		LibraryPath: cfg.Model.LibraryPath,
		InputName:   cfg.Model.InputName,
		OutputName:  cfg.Model.OutputName,
		ImageSize:   cfg.Model.Size(),
	})
	defer loader.Close()

	provider := modelstore.NewProvider(cfg.Model.URL, cfg.Model.Path, modelstore.NewHTTPFetcher(), loader)
	defer provider.Close()

	c := container.New(storage.NewMemorySessionRepository(), provider, vision.NewPreprocessor(), cfg.Model.Size())

	if err := c.ClassificationService.CheckModel(ctx); err != nil {
		return err
	}
	slog.Info("model ready", "path", cfg.Model.Path, "image_size", cfg.Model.Size().String(), "labels", entity.Labels)

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, c.SessionService, c.ClassificationService)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			slog.Info("bot is running")
			errCh <- bot.Run(ctx)
		}()
	}

	var server *web.Server
	if cfg.HTTPAddr != "" {
		server = web.NewServer(c.ClassificationService, c.Models)
		go func() {
			errCh <- server.Listen(cfg.HTTPAddr)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("shutting down gracefully...")
	case runErr = <-errCh:
	}
	stop()

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("web shutdown", "error", err)
		}
	}

	// Бот обрабатывает сообщения последовательно: после выхода из Run незавершённых классификаций нет.
	// Модель закрывается отложенными вызовами только после этого.
	wg.Wait()

	slog.Info("stopped")
	return runErr
}
