package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"defect-detector/internal/domain/entity"
)

func goodResult(seconds float64) *entity.DetectionResult {
	return &entity.DetectionResult{
		FinalDecision:       entity.DecisionGood,
		DetectedDefectTypes: []string{},
		ProcessingTime:      seconds,
	}
}

func defectResult(seconds float64, types ...string) *entity.DetectionResult {
	return &entity.DetectionResult{
		FinalDecision:       entity.DecisionDefect,
		DetectedDefectTypes: types,
		ProcessingTime:      seconds,
	}
}

func TestResultAggregator_Counts(t *testing.T) {
	aggregator := NewResultAggregator()
	aggregator.Fold(goodResult(0.2))
	aggregator.Fold(defectResult(0.4, "scratch", "stained"))
	aggregator.Fold(defectResult(0.6, "scratch"))
	aggregator.FoldFailure()

	summary := aggregator.Finalize()

	require.Equal(t, 4, summary.TotalImages)
	require.Equal(t, 1, summary.GoodProducts)
	require.Equal(t, 2, summary.DefectiveProducts)
	require.Equal(t, 1, summary.FailedProcessing)
	require.Equal(t, 50.0, summary.DefectRate)
	require.Equal(t, []string{"scratch", "stained"}, summary.DefectTypesFound)
	require.Equal(t, []float64{0.2, 0.4, 0.6}, summary.ProcessingTimes)
	require.InDelta(t, 0.4, summary.AvgProcessingTime, 1e-9)
}

func TestResultAggregator_OrderIndependent(t *testing.T) {
	results := []*entity.DetectionResult{
		goodResult(0.1),
		defectResult(0.2, "open"),
		defectResult(0.3, "damaged"),
		goodResult(0.4),
	}

	forward := NewResultAggregator()
	for _, r := range results {
		forward.Fold(r)
	}
	forward.FoldFailure()

	backward := NewResultAggregator()
	backward.FoldFailure()
	for i := len(results) - 1; i >= 0; i-- {
		backward.Fold(results[i])
	}

	a, b := forward.Finalize(), backward.Finalize()
	require.Equal(t, a.TotalImages, b.TotalImages)
	require.Equal(t, a.GoodProducts, b.GoodProducts)
	require.Equal(t, a.DefectiveProducts, b.DefectiveProducts)
	require.Equal(t, a.DefectRate, b.DefectRate)
	require.Equal(t, a.DefectTypesFound, b.DefectTypesFound)
	require.Equal(t, a.FailedProcessing, b.FailedProcessing)
	// Список времён сохраняет порядок свёртки — он и должен отличаться.
	require.NotEqual(t, a.ProcessingTimes, b.ProcessingTimes)
}

func TestResultAggregator_EmptyBatch(t *testing.T) {
	summary := NewResultAggregator().Finalize()

	require.Equal(t, 0, summary.TotalImages)
	require.Equal(t, 0.0, summary.DefectRate)
	require.Equal(t, 0.0, summary.AvgProcessingTime)
	require.Empty(t, summary.DefectTypesFound)
}

func TestResultAggregator_FailuresDoNotAffectTiming(t *testing.T) {
	aggregator := NewResultAggregator()
	aggregator.Fold(goodResult(1.0))
	aggregator.FoldFailure()
	aggregator.FoldFailure()

	summary := aggregator.Finalize()

	require.Equal(t, 3, summary.TotalImages)
	require.Equal(t, 2, summary.FailedProcessing)
	require.Equal(t, []float64{1.0}, summary.ProcessingTimes)
	require.InDelta(t, 1.0, summary.AvgProcessingTime, 1e-9)
}
