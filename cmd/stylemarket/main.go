package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/papermintx/stylemarket/internal/app"
	"github.com/papermintx/stylemarket/internal/config"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("load config")
	}
	if !cfg.IsProd() {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to database")
	}

	application, err := app.New(db, cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create app")
	}
	if err := application.MigrateAndSeed(context.Background()); err != nil {
		zlog.Fatal().Err(err).Msg("failed to migrate and seed database")
	}

	port := cfg.Port
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		for p := 8081; p <= 8090; p++ {
			l2, err2 := net.Listen("tcp", fmt.Sprintf(":%d", p))
			if err2 == nil {
				ln = l2
				port = fmt.Sprint(p)
				break
			}
		}
		if ln == nil {
			zlog.Fatal().Err(err).Msg("no free port")
		}
	}

	server := &http.Server{Handler: application.HTTPHandler()}

	go func() {
		zlog.Info().Str("port", port).Str("env", cfg.AppEnv).Msg("listening")
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			zlog.Error().Err(err).Msg("serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}
