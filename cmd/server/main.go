package main

import (
	"context"

	"telechan-backend/lib/configutil"
	configlibsql "telechan-backend/lib/configutil/libsql"
	"telechan-backend/lib/scrapers/telegram"
	"telechan-backend/lib/serviceutil"
	"telechan-backend/lib/telemetry"
	"telechan-backend/services/auth"
	authdb "telechan-backend/services/auth/db"
	"telechan-backend/services/channels"
	"telechan-backend/services/classify"
	"telechan-backend/services/translate"

	"github.com/go-chi/chi/v5"
)

type TelegramConfig struct {
	BotToken string `json:"bot_token"`
}

type ScrapeConfig struct {
	PostLimit int `json:"post_limit"`
}

type Config struct {
	Port      int                 `json:"port"`
	Database  configlibsql.Struct `json:"database"`
	Telegram  TelegramConfig      `json:"telegram"`
	Scrape    ScrapeConfig        `json:"scrape"`
	OpenAI    classify.Config     `json:"openai"`
	Translate translate.Config    `json:"translate"`
}

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.InitSlog(false)

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	port := config.Port
	if port == 0 {
		port = 8080
	}

	database, err := config.Database.OpenDB(authdb.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}

	t, err := telemetry.SetupFromEnv(ctx, "telechan")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	scraper := telegram.NewScraper(
		telegram.NewClient(telegram.ClientOptions{}),
		telegram.ScraperOptions{PostLimit: config.Scrape.PostLimit},
	)

	options := channels.Options{}
	if config.OpenAI.ApiKey != "" {
		options.Classifier = classify.NewService(config.OpenAI)
	}
	if config.Translate.ApiKey != "" {
		options.Detector = translate.NewService(config.Translate)
	}

	router := chi.NewRouter()
	channels.NewService(scraper, options).RegisterRoutes(router)
	auth.NewService(ctx, database, auth.Options{
		BotToken: config.Telegram.BotToken,
	}).RegisterRoutes(router)

	go serviceutil.StartHttpServer(port, router)

	<-ctx.Done()
}
