package main

import (
	"context"
	"log"

	"file-concierge-be/internal/bootstrap"
	"file-concierge-be/internal/config"
	"file-concierge-be/internal/server"
	"file-concierge-be/internal/tracer"
	"file-concierge-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	if container.AuditService != nil {
		container.AuditService.Start()
	}

	// 5. Initialize Server and Run
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
