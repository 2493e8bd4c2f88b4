package main

import (
	"fmt"
	"os"

	"plate-service/internal/auth"
	"plate-service/internal/config"
	"plate-service/internal/db"
	httphandler "plate-service/internal/http"
	"plate-service/internal/http/middleware"
	"plate-service/internal/logger"
	"plate-service/internal/repository"
	"plate-service/internal/rules"
	"plate-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	registry, err := rules.NewRegistry(cfg.PlateRules)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to load plate rules")
	}
	appLogger.Info().
		Strs("jurisdictions", registry.ListStates()).
		Str("mode", cfg.PlateRules.Mode).
		Msg("plate rules loaded")

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	vehicleRepo := repository.NewVehicleRepository(database)

	plateService := service.NewPlateService(registry)
	vehicleService := service.NewVehicleService(vehicleRepo, plateService)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(plateService, vehicleService, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting plate service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
