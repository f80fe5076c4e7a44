package app

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"defect-detector/internal/domain/entity"
)

// ResultAggregator сворачивает поток результатов по изображениям в сводку.
// Счётчики и множество типов не зависят от порядка свёртки;
// список времён сохраняет порядок для анализа распределения.
type ResultAggregator struct {
	total     int
	good      int
	defective int
	failed    int
	types     map[string]struct{}
	timings   []float64
}

// NewResultAggregator создаёт пустой агрегатор пачки.
func NewResultAggregator() *ResultAggregator {
	return &ResultAggregator{
		types:   make(map[string]struct{}),
		timings: []float64{},
	}
}

// Fold учитывает один успешный результат.
func (a *ResultAggregator) Fold(result *entity.DetectionResult) {
	a.total++
	a.timings = append(a.timings, result.ProcessingTime)

	if result.FinalDecision == entity.DecisionGood {
		a.good++
		return
	}

	a.defective++
	for _, name := range result.DetectedDefectTypes {
		a.types[name] = struct{}{}
	}
}

// FoldFailure учитывает неудачную обработку: растут только общий счётчик
// и счётчик ошибок, среднее время считается по успешным прогонам.
func (a *ResultAggregator) FoldFailure() {
	a.total++
	a.failed++
}

// Finalize собирает итоговую сводку по пачке.
func (a *ResultAggregator) Finalize() entity.BatchSummary {
	names := make([]string, 0, len(a.types))
	for name := range a.types {
		names = append(names, name)
	}
	// Сортировка даёт стабильную сериализацию множества.
	sort.Strings(names)

	rate := 0.0
	if a.total > 0 {
		rate = float64(a.defective) / float64(a.total) * 100
	}

	avg := 0.0
	if len(a.timings) > 0 {
		avg = stat.Mean(a.timings, nil)
	}

	times := make([]float64, len(a.timings))
	copy(times, a.timings)

	return entity.BatchSummary{
		TotalImages:       a.total,
		GoodProducts:      a.good,
		DefectiveProducts: a.defective,
		DefectRate:        rate,
		DefectTypesFound:  names,
		ProcessingTimes:   times,
		AvgProcessingTime: avg,
		FailedProcessing:  a.failed,
	}
}
