package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"

	"smsinbox/internal/boot"
	"smsinbox/internal/handlers"
	"smsinbox/internal/store"
)

func logLevel(name string) log.Lvl {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return log.DEBUG
	case "WARN", "WARNING":
		return log.WARN
	case "ERROR":
		return log.ERROR
	default:
		return log.INFO
	}
}

func main() {
	config, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	if config.WebhookSecret == "" {
		// Not fatal: readiness reports 503 and the verifier rejects
		// every delivery until the secret is configured.
		log.Warn("WEBHOOK_SECRET is not set, webhook ingestion is disabled")
	}

	messages, err := store.New(config)
	if err != nil {
		log.Fatalf("opening message store: %+v", err)
	}
	defer messages.Close()

	server := echo.New()
	server.Use(middleware.BodyLimit("1M"))
	server.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	server.Use(echoprometheus.NewMiddleware("smsinbox"))
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())

	server.Logger.SetLevel(logLevel(config.LogLevel))

	server.POST("/webhook", handlers.Webhook(config, messages))
	server.GET("/messages", handlers.Messages(messages))
	server.GET("/stats", handlers.Stats(messages))
	server.GET("/health/live", handlers.Live())
	server.GET("/health/ready", handlers.Ready(config, messages))
	server.GET("/metrics", echoprometheus.NewHandler())

	go func() {
		if err := server.Start(":" + config.Server.Port); err != nil && err != http.ErrServerClosed {
			server.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Logger.Fatal(err)
	}
}
