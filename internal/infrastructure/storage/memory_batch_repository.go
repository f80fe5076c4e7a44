package storage

import (
	"context"
	"sync"

	"defect-detector/internal/domain/entity"
	"defect-detector/internal/domain/port"
)

// MemoryBatchRepository in-memory хранилище сводок по пачкам
type MemoryBatchRepository struct {
	mu      sync.RWMutex
	records []entity.BatchRecord
}

// NewMemoryBatchRepository создаёт новое in-memory хранилище
func NewMemoryBatchRepository() *MemoryBatchRepository {
	return &MemoryBatchRepository{}
}

// Save сохраняет запись о запуске пачки
func (r *MemoryBatchRepository) Save(ctx context.Context, record *entity.BatchRecord) error {
	_ = ctx
	r.mu.Lock()
	r.records = append(r.records, *record)
	r.mu.Unlock()

	return nil
}

// List возвращает последние записи, новые в начале
func (r *MemoryBatchRepository) List(ctx context.Context, limit int) ([]entity.BatchRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entity.BatchRecord, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.records[i])
	}

	return result, nil
}

// Проверка реализации интерфейса
var _ port.BatchRepository = (*MemoryBatchRepository)(nil)
