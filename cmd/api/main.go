package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/mbaylon/interntrack/internal/pkg/logger"
	"github.com/mbaylon/interntrack/internal/server"
)

// @title InternTrack API
// @version 1.0
// @description Administrative dashboard API for internship student records

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// Local development convenience; missing .env is fine
	_ = godotenv.Load()

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}
}
