package entity

import "time"

// Decision итоговое решение по изделию
type Decision string

const (
	DecisionGood   Decision = "GOOD"   // Изделие без дефектов
	DecisionDefect Decision = "DEFECT" // Обнаружен дефект
)

// AnomalyMask карта аномальности по пикселям (подсказка для сегментации)
type AnomalyMask struct {
	Width  int
	Height int
	Values []float32 // длина Width*Height, построчно
}

// AnomalyScore сырой ответ модели аномалий: оценка и опциональная маска.
type AnomalyScore struct {
	Score float64 // в диапазоне [0,1]
	Mask  *AnomalyMask
}

// AnomalyOutcome итог первой ступени: оценка, решение и использованный порог.
// Создаётся один раз на изображение и дальше не меняется.
type AnomalyOutcome struct {
	Score         float64
	Decision      Decision
	ThresholdUsed float64
	Mask          *AnomalyMask
}

// ClassMap попиксельная карта классов дефектов (0 — фон)
type ClassMap struct {
	Width  int
	Height int
	Pixels []uint8 // длина Width*Height, построчно

	// Confidence уверенность модели по пикселям, той же длины что Pixels.
	// nil, если модель отдаёт только argmax-карту.
	Confidence []float32
}

// At возвращает класс пикселя (x, y).
func (m *ClassMap) At(x, y int) uint8 {
	return m.Pixels[y*m.Width+x]
}

// TotalPixels возвращает общее число пикселей карты.
func (m *ClassMap) TotalPixels() int {
	return m.Width * m.Height
}

// BoundingBox прямоугольник вокруг одной связной области дефекта
type BoundingBox struct {
	X          int    // координата X левого верхнего угла
	Y          int    // координата Y левого верхнего угла
	Width      int    // ширина в пикселях
	Height     int    // высота в пикселях
	CenterX    int    // X центра области
	CenterY    int    // Y центра области
	Area       int    // площадь, Width*Height
	DefectType string // имя класса дефекта
	ClassID    int    // идентификатор класса
}

// ClassStat статистика по одному классу на всей карте
type ClassStat struct {
	PixelCount int     // число пикселей класса
	Percentage float64 // доля от всех пикселей, в процентах
	ClassID    int
}

// DefectClassification итог второй ступени: карта классов и её разбор.
// Присутствует только когда первая ступень решила DEFECT.
type DefectClassification struct {
	PredictedMask     *ClassMap
	ClassDistribution map[int]ClassStat        // статистика по всем классам, включая отфильтрованные
	DetectedDefects   []string                 // имена классов, прошедших фильтры, по возрастанию id
	BoundingBoxes     map[string][]BoundingBox // рамки по имени класса
}

// DetectionResult полный результат обработки одного изображения.
// Заполняется пайплайном и после этого только читается.
type DetectionResult struct {
	ImagePath           string
	Timestamp           time.Time
	Anomaly             AnomalyOutcome
	Classification      *DefectClassification // nil для GOOD
	DetectedDefectTypes []string              // пустой список для GOOD
	FinalDecision       Decision
	ProcessingTime      float64 // секунды от старта до финала
}
