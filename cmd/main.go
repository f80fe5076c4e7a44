package main

import (
	"log"

	"defect-detector/config"
	"defect-detector/internal/api"
	"defect-detector/internal/container"
	"defect-detector/internal/domain/port"
	"defect-detector/internal/infrastructure/storage"
	"defect-detector/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Выбираем шлюз моделей: удалённый сервис инференса,
	// либо локальный CV-детектор при сборке с тегом gocv.
	var gateway port.ModelGateway
	if cfg.InferenceURL != "" {
		gateway = vision.NewRemoteGateway(cfg.InferenceURL, cfg.Device)
	} else {
		gateway = vision.NewGoCVGateway()
	}

	// Хранилище сводок по пачкам
	batchRepo, err := storage.NewSQLiteBatchRepository(cfg.BatchDBPath)
	if err != nil {
		log.Fatalf("Failed to open batch storage: %v", err)
	}
	defer batchRepo.Close()

	// Собираем сервисы приложения
	appContainer := container.New(cfg, gateway, batchRepo)

	server := api.NewServer(appContainer)

	log.Printf("Defect detection API is running on :%s", cfg.Port)
	if err := server.Run(cfg.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
