package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/omarshaarawi/fcbot/internal/app"
	"github.com/omarshaarawi/fcbot/internal/cli"
	"github.com/omarshaarawi/fcbot/internal/config"
)

func main() {
	_ = godotenv.Load()

	// stdout carries command output, keep logs quiet unless asked.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(func(ctx context.Context) (*cli.Backend, error) {
		cfg, err := config.New()
		if err != nil {
			return nil, err
		}
		fcbot, err := app.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &cli.Backend{Assistant: fcbot.Assistant, Videos: fcbot.Videos}, nil
	})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
