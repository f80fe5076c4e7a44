package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"defect-detector/internal/domain/entity"
)

func sampleRecord(id string, total int) *entity.BatchRecord {
	return &entity.BatchRecord{
		ID:        id,
		CreatedAt: time.Now(),
		Summary: entity.BatchSummary{
			TotalImages:       total,
			GoodProducts:      total,
			DefectTypesFound:  []string{},
			ProcessingTimes:   []float64{0.1},
			AvgProcessingTime: 0.1,
		},
	}
}

func TestMemoryBatchRepository_SaveAndList(t *testing.T) {
	repo := NewMemoryBatchRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleRecord("first", 1)))
	require.NoError(t, repo.Save(ctx, sampleRecord("second", 2)))

	records, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Новые записи идут первыми.
	require.Equal(t, "second", records[0].ID)
	require.Equal(t, "first", records[1].ID)
	require.Equal(t, 2, records[0].Summary.TotalImages)
}

func TestMemoryBatchRepository_ListRespectsLimit(t *testing.T) {
	repo := NewMemoryBatchRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(ctx, sampleRecord(fmt.Sprintf("batch-%d", i), i)))
	}

	records, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "batch-4", records[0].ID)
	require.Equal(t, "batch-3", records[1].ID)
}

func TestMemoryBatchRepository_SaveCopiesRecord(t *testing.T) {
	repo := NewMemoryBatchRepository()
	ctx := context.Background()

	record := sampleRecord("original", 1)
	require.NoError(t, repo.Save(ctx, record))

	// Мутация исходной записи не трогает сохранённую копию.
	record.ID = "mutated"

	records, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "original", records[0].ID)
}
