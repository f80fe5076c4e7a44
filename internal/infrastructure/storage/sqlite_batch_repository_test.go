package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"defect-detector/internal/domain/entity"
)

func newTestSQLiteRepository(t *testing.T) *SQLiteBatchRepository {
	t.Helper()

	repo, err := NewSQLiteBatchRepository(filepath.Join(t.TempDir(), "batches.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func TestSQLiteBatchRepository_SaveAndList(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	record := &entity.BatchRecord{
		ID:        "batch-1",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Summary: entity.BatchSummary{
			TotalImages:       5,
			GoodProducts:      2,
			DefectiveProducts: 1,
			DefectRate:        20.0,
			DefectTypesFound:  []string{"open", "scratch"},
			ProcessingTimes:   []float64{0.2, 0.4, 0.6},
			AvgProcessingTime: 0.4,
			FailedProcessing:  2,
		},
	}
	require.NoError(t, repo.Save(ctx, record))

	records, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	saved := records[0]
	require.Equal(t, "batch-1", saved.ID)
	require.True(t, record.CreatedAt.Equal(saved.CreatedAt))
	require.Equal(t, record.Summary, saved.Summary)
}

func TestSQLiteBatchRepository_ListNewestFirst(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "middle", "new"} {
		require.NoError(t, repo.Save(ctx, &entity.BatchRecord{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Summary: entity.BatchSummary{
				DefectTypesFound: []string{},
				ProcessingTimes:  []float64{},
			},
		}))
	}

	records, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "new", records[0].ID)
	require.Equal(t, "middle", records[1].ID)
}

func TestSQLiteBatchRepository_EmptyList(t *testing.T) {
	repo := newTestSQLiteRepository(t)

	records, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, records)
}
