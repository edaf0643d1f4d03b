// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"cinema-kiosk/cmd"
	"cinema-kiosk/internal/data/repository"
	"cinema-kiosk/internal/usecase"
	"cinema-kiosk/internal/wire"
	"cinema-kiosk/pkg/assets"
	"cinema-kiosk/pkg/cache"
	"cinema-kiosk/pkg/clock"
	"cinema-kiosk/pkg/database"
	"cinema-kiosk/pkg/events"
	"cinema-kiosk/pkg/ticketqr"
	"cinema-kiosk/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	loc, err := config.App.Location()
	if err != nil {
		logger.Fatal("Invalid time zone", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	redisClient, err := cache.NewRedisClient(config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, analytics cache disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher := events.NewPublisher(config.Kafka.Brokers, config.Kafka.SeatTopic, logger)
	defer publisher.Close()

	qr, err := ticketqr.NewGenerator(config.Reservation.QRSecret)
	if err != nil {
		logger.Fatal("Failed to init QR generator", zap.Error(err))
	}
	if config.Reservation.QRSecret == "" {
		logger.Warn("QR_SECRET not set, ticket QR codes will not survive a restart")
	}

	store, err := assets.NewStore(config.Assets.UploadDir)
	if err != nil {
		logger.Fatal("Failed to init asset store", zap.Error(err))
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, usecase.Infra{
		Clock:  clock.NewSystem(loc),
		Cache:  cache.New(redisClient, config.Redis.CacheTTL, logger),
		Events: publisher,
		QR:     qr,
	}, store, db, logger)

	go app.Service.Payment.RunExpirySweeper(ctx, config.Reservation.SweepInterval)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
