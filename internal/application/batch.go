package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"defect-detector/internal/domain/entity"
	"defect-detector/internal/domain/port"
	"defect-detector/internal/logger"
)

// BatchService обрабатывает пачку независимых изображений.
// Изображения идут через конвейер параллельно, ограничение по устройствам
// обеспечивает обёртка шлюза; ошибка одного изображения не прерывает пачку.
type BatchService struct {
	pipeline  *DetectionPipeline
	formatter *ResponseFormatter
	repo      port.BatchRepository
	workers   int
}

// BatchOutcome итог обработки пачки: сводка и успешные результаты.
type BatchOutcome struct {
	Record  entity.BatchRecord
	Results []DetectionResponse // только успешные, с image_index по порядку
}

// NewBatchService создаёт сервис пакетной обработки.
func NewBatchService(pipeline *DetectionPipeline, formatter *ResponseFormatter, repo port.BatchRepository, workers int) *BatchService {
	if workers < 1 {
		workers = 1
	}
	return &BatchService{
		pipeline:  pipeline,
		formatter: formatter,
		repo:      repo,
		workers:   workers,
	}
}

// ProcessBatch прогоняет все изображения, собирает сводку и сохраняет её
// в хранилище. Неудачные изображения попадают в счётчик failed_processing
// и пропускаются в списке результатов.
func (s *BatchService) ProcessBatch(ctx context.Context, images [][]byte) (*BatchOutcome, error) {
	results := make([]*entity.DetectionResult, len(images))

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				result, err := s.pipeline.Run(ctx, images[i], "")
				if err != nil {
					logger.Error(ctx, "batch image failed", err)
					continue
				}
				results[i] = result
			}
		}()
	}
	for i := range images {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	// Свёртка в порядке исходных индексов: список времён сохраняет порядок.
	aggregator := NewResultAggregator()
	responses := make([]DetectionResponse, 0, len(images))
	for i, result := range results {
		if result == nil {
			aggregator.FoldFailure()
			continue
		}
		aggregator.Fold(result)

		response := s.formatter.Format(result)
		idx := i
		response.ImageIndex = &idx
		responses = append(responses, response)
	}

	record := entity.BatchRecord{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Summary:   aggregator.Finalize(),
	}

	// Потеря записи в хранилище не должна отбрасывать уже посчитанную пачку.
	if err := s.repo.Save(ctx, &record); err != nil {
		logger.Error(ctx, "failed to save batch record", err)
	}

	return &BatchOutcome{Record: record, Results: responses}, nil
}
