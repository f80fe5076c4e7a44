package app

import (
	"math"

	"defect-detector/internal/domain/entity"
)

// DetectionResponse стабильная внешняя схема результата для клиентов.
// Вложенные рамки внутренней модели здесь сплющены в один список.
type DetectionResponse struct {
	Status               string                    `json:"status"`
	FinalDecision        string                    `json:"final_decision"`
	ProcessingTime       float64                   `json:"processing_time"`
	Timestamp            string                    `json:"timestamp"`
	AnomalyDetection     AnomalyDetectionView      `json:"anomaly_detection"`
	DefectClassification *DefectClassificationView `json:"defect_classification"`
	DetectedDefects      []string                  `json:"detected_defects"`
	DefectCount          int                       `json:"defect_count"`
	BoundingBoxes        []BoundingBoxView         `json:"bounding_boxes"`
	ImageIndex           *int                      `json:"image_index,omitempty"`
	Error                string                    `json:"error,omitempty"`
}

// AnomalyDetectionView проекция первой ступени
type AnomalyDetectionView struct {
	AnomalyScore  float64 `json:"anomaly_score"`
	Decision      string  `json:"decision"`
	ThresholdUsed float64 `json:"threshold_used"`
}

// DefectClassificationView проекция второй ступени, null для GOOD
type DefectClassificationView struct {
	DetectedDefects  []string `json:"detected_defects"`
	TotalDefectTypes int      `json:"total_defect_types"`
}

// BoundingBoxView рамка дефекта во внешней схеме
type BoundingBoxView struct {
	DefectType string `json:"defect_type"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	CenterX    int    `json:"center_x"`
	CenterY    int    `json:"center_y"`
	Area       int    `json:"area"`
}

// ResponseFormatter проецирует внутренний результат во внешнюю схему.
type ResponseFormatter struct{}

// NewResponseFormatter создаёт форматтер ответов.
func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

// Format собирает внешний ответ: оценка округляется до 4 знаков,
// время — до 2. Кривой внутренний результат не роняет запрос,
// а превращается в ответ со статусом error.
func (f *ResponseFormatter) Format(result *entity.DetectionResult) DetectionResponse {
	if result == nil {
		return DetectionResponse{
			Status:        "error",
			FinalDecision: "ERROR",
			Error:         "empty detection result",
		}
	}

	response := DetectionResponse{
		Status:         "success",
		FinalDecision:  string(result.FinalDecision),
		ProcessingTime: round2(result.ProcessingTime),
		Timestamp:      result.Timestamp.Format("2006-01-02T15:04:05.000000"),
		AnomalyDetection: AnomalyDetectionView{
			AnomalyScore:  round4(result.Anomaly.Score),
			Decision:      string(result.Anomaly.Decision),
			ThresholdUsed: result.Anomaly.ThresholdUsed,
		},
		DetectedDefects: append([]string{}, result.DetectedDefectTypes...),
		DefectCount:     len(result.DetectedDefectTypes),
		BoundingBoxes:   []BoundingBoxView{},
	}

	if result.Classification != nil {
		response.DefectClassification = &DefectClassificationView{
			DetectedDefects:  append([]string{}, result.Classification.DetectedDefects...),
			TotalDefectTypes: len(result.Classification.DetectedDefects),
		}

		// Порядок рамок следует порядку классов, внутри класса — порядку областей.
		for _, name := range result.Classification.DetectedDefects {
			for _, box := range result.Classification.BoundingBoxes[name] {
				response.BoundingBoxes = append(response.BoundingBoxes, BoundingBoxView{
					DefectType: box.DefectType,
					X:          box.X,
					Y:          box.Y,
					Width:      box.Width,
					Height:     box.Height,
					CenterX:    box.CenterX,
					CenterY:    box.CenterY,
					Area:       box.Area,
				})
			}
		}
	}

	return response
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
