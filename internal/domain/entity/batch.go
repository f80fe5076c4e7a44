package entity

import "time"

// BatchSummary сводная статистика по пачке изображений
type BatchSummary struct {
	TotalImages       int       `json:"total_images"`        // все изображения, включая неудачные
	GoodProducts      int       `json:"good_products"`       // решений GOOD
	DefectiveProducts int       `json:"defective_products"`  // решений DEFECT
	DefectRate        float64   `json:"defect_rate"`         // доля дефектных, в процентах
	DefectTypesFound  []string  `json:"defect_types_found"`  // найденные типы дефектов, отсортированы
	ProcessingTimes   []float64 `json:"processing_times"`    // времена успешных прогонов в порядке обработки
	AvgProcessingTime float64   `json:"avg_processing_time"` // среднее по успешным прогонам
	FailedProcessing  int       `json:"failed_processing"`   // число неудачных прогонов
}

// BatchRecord запись о запуске пачки для долговременного хранения
type BatchRecord struct {
	ID        string       `json:"batch_id"` // идентификатор запуска
	CreatedAt time.Time    `json:"created_at"`
	Summary   BatchSummary `json:"summary"`
}
