package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"defect-detector/internal/domain/entity"
	"defect-detector/internal/infrastructure/storage"
)

// scoreByMarker оценка по первому байту: 'd' — дефект, иначе годное.
func scoreByMarker(imageData []byte) (float64, error) {
	if imageData[0] == 'd' {
		return 0.95, nil
	}
	return 0.10, nil
}

func newTestBatchService(gateway *fakeGateway, repo *storage.MemoryBatchRepository) *BatchService {
	pipeline, _ := newTestPipeline(gateway, 0.70)
	return NewBatchService(pipeline, NewResponseFormatter(), repo, 2)
}

func TestBatchService_FailuresDoNotAbortBatch(t *testing.T) {
	gateway := &fakeGateway{scoreFn: scoreByMarker, classMap: openDefectMap()}
	repo := storage.NewMemoryBatchRepository()
	service := newTestBatchService(gateway, repo)

	// Пять изображений, два из них пустые и падают на валидации.
	images := [][]byte{
		[]byte("good-1"),
		[]byte("defect-1"),
		nil,
		[]byte("good-2"),
		nil,
	}

	outcome, err := service.ProcessBatch(context.Background(), images)
	require.NoError(t, err)

	summary := outcome.Record.Summary
	require.Equal(t, 5, summary.TotalImages)
	require.Equal(t, 2, summary.FailedProcessing)
	require.Equal(t, 2, summary.GoodProducts)
	require.Equal(t, 1, summary.DefectiveProducts)
	require.Equal(t, 20.0, summary.DefectRate)
	require.Equal(t, []string{"open"}, summary.DefectTypesFound)
	require.Len(t, summary.ProcessingTimes, 3)

	// В результатах только успешные изображения со своими индексами.
	require.Len(t, outcome.Results, 3)
	require.Equal(t, 0, *outcome.Results[0].ImageIndex)
	require.Equal(t, 1, *outcome.Results[1].ImageIndex)
	require.Equal(t, 3, *outcome.Results[2].ImageIndex)
	require.Equal(t, "DEFECT", outcome.Results[1].FinalDecision)
}

func TestBatchService_PersistsSummary(t *testing.T) {
	gateway := &fakeGateway{scoreFn: scoreByMarker, classMap: openDefectMap()}
	repo := storage.NewMemoryBatchRepository()
	service := newTestBatchService(gateway, repo)

	outcome, err := service.ProcessBatch(context.Background(), [][]byte{[]byte("good"), []byte("defect")})
	require.NoError(t, err)
	require.NotEmpty(t, outcome.Record.ID)

	records, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, outcome.Record.ID, records[0].ID)
	require.Equal(t, 2, records[0].Summary.TotalImages)
	require.Equal(t, []string{"open"}, records[0].Summary.DefectTypesFound)
}

func TestBatchService_OrderIndependentSummary(t *testing.T) {
	images := [][]byte{
		[]byte("good-1"),
		[]byte("defect-1"),
		[]byte("good-2"),
		[]byte("defect-2"),
	}
	reversed := [][]byte{images[3], images[2], images[1], images[0]}

	run := func(input [][]byte) entity.BatchSummary {
		gateway := &fakeGateway{scoreFn: scoreByMarker, classMap: openDefectMap()}
		service := newTestBatchService(gateway, storage.NewMemoryBatchRepository())
		outcome, err := service.ProcessBatch(context.Background(), input)
		require.NoError(t, err)
		return outcome.Record.Summary
	}

	a, b := run(images), run(reversed)
	require.Equal(t, a.TotalImages, b.TotalImages)
	require.Equal(t, a.GoodProducts, b.GoodProducts)
	require.Equal(t, a.DefectiveProducts, b.DefectiveProducts)
	require.Equal(t, a.DefectRate, b.DefectRate)
	require.Equal(t, a.DefectTypesFound, b.DefectTypesFound)
}
