package main

import (
	"log"

	appfx "github.com/amityadav/deepresearch/internal/fx"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Run blocks until the app receives a shutdown signal
	app := fx.New(
		appfx.ConfigModule,   // Provides: config.Config
		appfx.ProviderModule, // Provides: *dispatch.Dispatcher with every configured adapter
		appfx.ExportModule,   // Provides: *export.Exporter
		appfx.ServerModule,   // Starts the REST API server

		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		}),
	)

	app.Run()
}
