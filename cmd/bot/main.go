package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/app"
	"github.com/landcover-microservice/internal/config"
	"github.com/landcover-microservice/internal/delivery/telegram"
	"github.com/landcover-microservice/internal/pkg/logger"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if cfg.Telegram.BotToken == "" {
		fmt.Println("TELEGRAM_BOT_TOKEN is not set")
		os.Exit(1)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	// 3. Storage, cache, use cases
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	stack, err := app.Build(ctx, cfg, log, app.Options{})
	cancel()
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer stack.Close()

	// 4. Telegram API
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatal("Failed to connect to Telegram", zap.Error(err))
	}
	api.Debug = cfg.Telegram.Debug
	log.Info("Telegram bot authorized", zap.String("username", api.Self.UserName))

	// 5. Long polling
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		telegram.NewBot(api, stack.Analysis, log).Run(ctx, updates)
		close(done)
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Stopping Telegram bot")
	api.StopReceivingUpdates()
	cancel()
	<-done

	log.Info("Bot stopped")
}
