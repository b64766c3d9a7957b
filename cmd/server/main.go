package main

import (
	"context"
	"log"

	"github.com/dkireev/realty/internal/server"
	"github.com/dkireev/realty/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	app.Run(ctx)
}
