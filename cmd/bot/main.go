package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/newsmakerhq/newsmaker-bot/config"
	"github.com/newsmakerhq/newsmaker-bot/internal/ai"
	"github.com/newsmakerhq/newsmaker-bot/internal/bot"
	"github.com/newsmakerhq/newsmaker-bot/internal/database"
	"github.com/newsmakerhq/newsmaker-bot/internal/fetch"
	"github.com/newsmakerhq/newsmaker-bot/internal/images"
	"github.com/newsmakerhq/newsmaker-bot/internal/pipeline"
	"github.com/newsmakerhq/newsmaker-bot/internal/publisher"
	"github.com/newsmakerhq/newsmaker-bot/internal/scheduler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	logrus.Info("🚀 Запуск бота Ньюсмейкер...")

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.CreateTables(ctx); err != nil {
		logrus.Fatalf("Failed to create tables: %v", err)
	}

	logrus.Info("✅ База данных подключена")

	articleRepo := database.NewArticleRepository(db)
	postRepo := database.NewPostRepository(db)
	settingsRepo := database.NewSettingsRepository(db)

	provider, err := ai.NewProvider(cfg)
	if err != nil {
		logrus.Fatalf("AI provider error: %v", err)
	}
	logrus.Infof("🤖 AI провайдер: %s", provider.Name())

	analyzer := ai.NewAnalyzer(provider)
	editor := ai.NewEditor(provider)
	fetcher := fetch.NewFetcher(nil)
	imageGen := images.NewGenerator(cfg.ImageProvider, cfg.ImageAPIKey)

	pipe := pipeline.New(pipeline.Deps{
		Articles:  articleRepo,
		Posts:     postRepo,
		Settings:  settingsRepo,
		Fetcher:   fetcher,
		Generator: analyzer,
	})

	slackClient, err := bot.NewClient(cfg.SlackToken)
	if err != nil {
		logrus.Fatalf("Failed to authenticate with Slack: %v", err)
	}

	transport := publisher.New(cfg.TelegramBotToken, cfg.VKAccessToken, slackClient.GetAPI())
	pubService := publisher.NewService(postRepo, transport, publisher.Channels{
		TelegramChannelID: cfg.TelegramChannelID,
		VKGroupID:         cfg.VKGroupID,
		SlackChannelID:    cfg.SlackChannelID,
	})

	sched := scheduler.New(postRepo, pubService, cfg.ScanInterval, cfg.PublishDelay)
	sched.Start(ctx)
	defer sched.Stop()

	handler := bot.NewMessageHandler(slackClient, pipe, postRepo, settingsRepo, editor, pubService, imageGen)
	server := bot.NewServer(slackClient, handler, db, cfg.SlackSigningSecret)

	go func() {
		if err := server.Start(cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("Server stopped: %v", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		logrus.Info("🛑 Получен сигнал остановки...")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server shutdown error: %v", err)
	}

	logrus.Info("👋 Бот остановлен")
}
