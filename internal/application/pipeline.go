package app

import (
	"context"
	"fmt"
	"time"

	"defect-detector/internal/domain/entity"
	"defect-detector/internal/domain/port"
)

// DetectionPipeline двухступенчатый конвейер: ворота по аномальности,
// затем классификация дефектов только для подозрительных изображений.
type DetectionPipeline struct {
	gateway    port.ModelGateway
	thresholds *ThresholdStore
	extractor  *BoundingBoxExtractor
}

// NewDetectionPipeline создаёт конвейер детекции.
func NewDetectionPipeline(gateway port.ModelGateway, thresholds *ThresholdStore, extractor *BoundingBoxExtractor) *DetectionPipeline {
	return &DetectionPipeline{
		gateway:    gateway,
		thresholds: thresholds,
		extractor:  extractor,
	}
}

// Run прогоняет одно изображение через конвейер.
// Пороги снимаются один раз на старте: обновления не влияют на идущий прогон.
// Ошибка на любой ступени обрывает прогон без частичного результата.
func (p *DetectionPipeline) Run(ctx context.Context, imageData []byte, imagePath string) (*entity.DetectionResult, error) {
	// Просроченный дедлайн отсекаем до входа в конвейер,
	// чтобы очередь не копилась под нагрузкой.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline not started: %w", err)
	}
	if len(imageData) == 0 {
		return nil, entity.ErrInvalidInput
	}

	start := time.Now()
	snapshot := p.thresholds.Get()

	// Ступень 1: оценка аномальности.
	raw, err := p.gateway.AnomalyInfer(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("anomaly stage: %w", err)
	}

	// Равенство порогу трактуем как DEFECT: лучше лишний раз проверить.
	decision := entity.DecisionGood
	if raw.Score >= snapshot.AnomalyThreshold {
		decision = entity.DecisionDefect
	}

	result := &entity.DetectionResult{
		ImagePath: imagePath,
		Timestamp: time.Now(),
		Anomaly: entity.AnomalyOutcome{
			Score:         raw.Score,
			Decision:      decision,
			ThresholdUsed: snapshot.AnomalyThreshold,
			Mask:          raw.Mask,
		},
		DetectedDefectTypes: []string{},
		FinalDecision:       decision,
	}

	// Ступень 2 только для DEFECT: дорогая сегментация не нужна для GOOD.
	if decision == entity.DecisionDefect {
		classMap, err := p.gateway.SegmentationInfer(ctx, imageData, raw.Mask)
		if err != nil {
			return nil, fmt.Errorf("classification stage: %w", err)
		}

		classification := p.extractor.Extract(classMap, snapshot)
		result.Classification = classification
		result.DetectedDefectTypes = classification.DetectedDefects
	}

	result.ProcessingTime = time.Since(start).Seconds()
	return result, nil
}
