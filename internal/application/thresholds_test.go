package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"defect-detector/internal/domain/entity"
)

func TestThresholdStore_PartialUpdate(t *testing.T) {
	store := NewThresholdStore(entity.ThresholdConfig{
		AnomalyThreshold:          0.7,
		DefectConfidenceThreshold: 0.85,
	})

	anomaly := 0.5
	store.Update(&anomaly, nil)

	cfg := store.Get()
	require.Equal(t, 0.5, cfg.AnomalyThreshold)
	require.Equal(t, 0.85, cfg.DefectConfidenceThreshold)

	defect := 0.9
	store.Update(nil, &defect)

	cfg = store.Get()
	require.Equal(t, 0.5, cfg.AnomalyThreshold)
	require.Equal(t, 0.9, cfg.DefectConfidenceThreshold)
}

func TestThresholdStore_SnapshotIsolated(t *testing.T) {
	store := NewThresholdStore(entity.ThresholdConfig{AnomalyThreshold: 0.7})

	snapshot := store.Get()

	anomaly := 0.3
	store.Update(&anomaly, nil)

	// Снимок — копия: обновление хранилища его не меняет.
	require.Equal(t, 0.7, snapshot.AnomalyThreshold)
	require.Equal(t, 0.3, store.Get().AnomalyThreshold)
}

func TestThresholdStore_OutOfRangeAccepted(t *testing.T) {
	store := NewThresholdStore(entity.ThresholdConfig{AnomalyThreshold: 0.7})

	anomaly := 1.5
	store.Update(&anomaly, nil)

	// Значение вне [0,1] меняет чувствительность, но не считается ошибкой.
	require.Equal(t, 1.5, store.Get().AnomalyThreshold)
}
