package app

import (
	"log/slog"
	"sync"

	"defect-detector/internal/domain/entity"
	"defect-detector/internal/logger"
)

// ThresholdStore хранит пороги решений с горячим обновлением.
// Читатели получают копию-снимок: уже идущие прогоны не видят обновлений.
type ThresholdStore struct {
	mu  sync.RWMutex
	cfg entity.ThresholdConfig
}

// NewThresholdStore создаёт хранилище с начальными порогами.
func NewThresholdStore(cfg entity.ThresholdConfig) *ThresholdStore {
	return &ThresholdStore{cfg: cfg}
}

// Get возвращает снимок текущих порогов.
func (s *ThresholdStore) Get() entity.ThresholdConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update обновляет пороги по отдельности, nil оставляет поле как есть.
// Значения вне [0,1] принимаются, но попадают в лог как предупреждение.
func (s *ThresholdStore) Update(anomaly, defect *float64) entity.ThresholdConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	if anomaly != nil {
		warnIfOutOfRange("anomaly_threshold", *anomaly)
		s.cfg.AnomalyThreshold = *anomaly
	}
	if defect != nil {
		warnIfOutOfRange("defect_confidence_threshold", *defect)
		s.cfg.DefectConfidenceThreshold = *defect
	}

	return s.cfg
}

func warnIfOutOfRange(name string, value float64) {
	if value < 0 || value > 1 {
		logger.Get().Warn("threshold outside [0,1]",
			slog.String("name", name), slog.Float64("value", value))
	}
}
