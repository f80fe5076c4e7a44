package container

import (
	"defect-detector/config"
	app "defect-detector/internal/application"
	"defect-detector/internal/domain/entity"
	"defect-detector/internal/domain/port"
)

// Container собирает сервисы приложения вокруг конвейера детекции.
type Container struct {
	Thresholds *app.ThresholdStore
	Pipeline   *app.DetectionPipeline
	Batch      *app.BatchService
	Formatter  *app.ResponseFormatter
	Gateway    port.ModelGateway
	BatchRepo  port.BatchRepository
}

// New связывает шлюз моделей и хранилище со слоем application.
// Доступ к инференсу сериализуется по числу устройств.
func New(cfg *config.Config, gateway port.ModelGateway, batchRepo port.BatchRepository) *Container {
	serial := app.NewSerialGateway(gateway, cfg.InferenceSlots)

	thresholds := app.NewThresholdStore(entity.ThresholdConfig{
		AnomalyThreshold:          cfg.AnomalyThreshold,
		DefectConfidenceThreshold: cfg.DefectConfidenceThreshold,
	})

	extractor := app.NewBoundingBoxExtractor(app.ExtractorConfig{
		MinDefectPixels:     cfg.MinDefectPixels,
		MinDefectPercentage: cfg.MinDefectPercentage,
		MinBBoxArea:         cfg.MinBBoxArea,
	})

	formatter := app.NewResponseFormatter()
	pipeline := app.NewDetectionPipeline(serial, thresholds, extractor)
	batch := app.NewBatchService(pipeline, formatter, batchRepo, cfg.BatchWorkers)

	return &Container{
		Thresholds: thresholds,
		Pipeline:   pipeline,
		Batch:      batch,
		Formatter:  formatter,
		Gateway:    serial,
		BatchRepo:  batchRepo,
	}
}
