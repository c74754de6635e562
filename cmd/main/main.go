package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"vimeometa/internal/pkg/app"
)

func main() {
	configPath := flag.String("config", app.ConfigPath, "path to config.json")
	envPath := flag.String("env", app.EnvPath, "path to .env file with VIMEO_TOKEN")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := app.Run(ctx, app.Options{
		ConfigPath: *configPath,
		EnvPath:    *envPath,
		Stdout:     os.Stdout,
	}); err != nil {
		log.Fatal(err)
	}
}
