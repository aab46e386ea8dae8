package main

import (
	"log"

	"casefile-backend/internal/bootstrap"
	"casefile-backend/internal/shared/config"
	"casefile-backend/internal/shared/server"
	"casefile-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init("casefile-backend", cfg.Env)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	addr := server.Addr(cfg.Port)
	telemetry.Info("starting API server", map[string]any{"addr": addr, "env": cfg.Env})

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
