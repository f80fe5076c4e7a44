package port

import (
	"context"

	"defect-detector/internal/domain/entity"
)

// ModelGateway интерфейс доступа к двум моделям инференса
type ModelGateway interface {
	// AnomalyInfer возвращает сырую оценку аномальности изображения
	AnomalyInfer(ctx context.Context, imageData []byte) (*entity.AnomalyScore, error)

	// SegmentationInfer возвращает попиксельную карту классов дефектов.
	// Маска аномалий — подсказка по области, модель может её игнорировать.
	SegmentationInfer(ctx context.Context, imageData []byte, mask *entity.AnomalyMask) (*entity.ClassMap, error)

	// Ready сообщает, готовы ли модели к инференсу
	Ready(ctx context.Context) bool

	// Device возвращает имя устройства инференса
	Device() string
}
