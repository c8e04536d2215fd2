package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"crop-recommendation-service/internal/config"
	"crop-recommendation-service/internal/database/minio"
	"crop-recommendation-service/internal/database/postgres"
	"crop-recommendation-service/internal/database/redis"
	"crop-recommendation-service/internal/event"
	"crop-recommendation-service/internal/handlers"
	"crop-recommendation-service/internal/ml/classifier"
	"crop-recommendation-service/internal/repository"
	"crop-recommendation-service/internal/services"

	"github.com/gin-gonic/gin"
)

func setupLogging() (*os.File, error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
		}
	}()

	logDir := filepath.Join("/cropz", "log", "crop_recommendation_service")
	fmt.Println("Log directory:", logDir)
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	if _, err := os.Stat(logFile); err == nil {
		absPath, err := filepath.Abs(logFile)
		if err != nil {
			fmt.Printf("Failed to get absolute path of log file: %v\n", err)
		} else {
			fmt.Printf("Log file exists at absolute path: %s\n", absPath)
		}
	} else if os.IsNotExist(err) {
		fmt.Println("Log file does not exist (it will be created)")
	} else {
		fmt.Printf("Error checking log file existence: %v\n", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	// Setup logging
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Error setting up logging: %v", err)
	}
	defer logFile.Close()

	// Load configuration
	cfg := config.New()
	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.PostgresCfg.Host, cfg.PostgresCfg.Port, cfg.PostgresCfg.Username, cfg.PostgresCfg.DBname)

	// db connection; reference data cannot load without it, so block until up
	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connecting to database: %s", err)
		postgres.RetryConnectOnFailed(15*time.Second, &db, cfg.PostgresCfg)
	}
	defer db.Close()

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	var minioClient *minio.MinioClient
	if cfg.MinioCfg.Enabled {
		minioClient, err = minio.NewMinioClient(cfg.MinioCfg)
		if err != nil {
			log.Printf("MinIO unavailable, seed files must exist locally: %v", err)
			minioClient = nil
		}
	}

	// reference data: seed empty tables, then aggregate once
	ctx := context.Background()
	referenceRepository := repository.NewReferenceRepository(db, minioClient)
	if err := referenceRepository.EnsureSeeded(ctx, cfg.DataDir); err != nil {
		log.Fatalf("Error seeding reference data: %v", err)
	}
	rules, err := referenceRepository.LoadRotationRules()
	if err != nil {
		log.Fatalf("Error loading rotation rules: %v", err)
	}
	observations, err := referenceRepository.LoadObservations()
	if err != nil {
		log.Fatalf("Error loading crop observations: %v", err)
	}
	referenceData, err := services.BuildReferenceData(rules, observations)
	if err != nil {
		log.Fatalf("Error building reference data: %v", err)
	}

	// event publishing is optional; requests never fail because of it
	var publisher *event.RecommendationPublisher
	if cfg.RabbitMQCfg.Enabled {
		rabbitConn, rabbitErr := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
		if rabbitErr != nil {
			log.Printf("RabbitMQ unavailable, event publishing disabled: %v", rabbitErr)
		} else {
			defer rabbitConn.Close()
			publisher = event.NewRecommendationPublisher(rabbitConn)
		}
	}
	var eventPublisher services.IEventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}

	// services
	bandService := services.NewBandService(referenceData)
	scoringService := services.NewScoringService()
	climateService := services.NewClimateScoreService(referenceData)
	weatherService := services.NewWeatherService(cfg.WeatherAPICfg, redisClient.GetClient())
	classifierService := classifier.NewService(cfg.ClassifierCfg)
	rotationService := services.NewRotationService(referenceData, bandService, scoringService, weatherService, eventPublisher)
	recommendationService := services.NewRecommendationService(
		referenceData, bandService, scoringService, climateService,
		weatherService, classifierService, eventPublisher, cfg.ClassifierCfg.DefaultTopK)

	r := gin.Default()

	// handlers
	healthHandler := handlers.NewHealthHandler(db, redisClient, publisher)
	healthHandler.RegisterRoutes(r)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService, scoringService, weatherService)
	recommendationHandler.RegisterRoutes(r)
	rotationHandler := handlers.NewRotationHandler(rotationService)
	rotationHandler.RegisterRoutes(r)
	weatherHandler := handlers.NewWeatherHandler(weatherService, climateService)
	weatherHandler.RegisterRoutes(r)

	log.Printf("Starting crop-recommendation-service on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
