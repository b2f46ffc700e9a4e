package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"todoList/internal/app"
	"todoList/internal/config"
	"todoList/internal/logger"

	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("todo", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "path to the YAML config file (default ./config.yml)")
	flags.StringP("mode", "m", config.ModeAsk, "run mode: ask, console or server")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("App: stopped with error", err)
		a.Shutdown()
		os.Exit(1)
	}
	a.Shutdown()
}
