package port

import (
	"context"

	"defect-detector/internal/domain/entity"
)

// BatchRepository интерфейс хранилища сводок по пачкам
type BatchRepository interface {
	// Save сохраняет запись о завершённом запуске пачки
	Save(ctx context.Context, record *entity.BatchRecord) error

	// List возвращает последние записи, не больше limit
	List(ctx context.Context, limit int) ([]entity.BatchRecord, error)
}
