package app

import (
	"sort"

	"defect-detector/internal/domain/entity"
)

// ExtractorConfig пороги отсева шума при разборе карты классов
type ExtractorConfig struct {
	MinDefectPixels     int     // минимум пикселей в связной области
	MinDefectPercentage float64 // минимальная доля пикселей класса (0.005 = 0.5%)
	MinBBoxArea         int     // минимальная площадь рамки
}

// BoundingBoxExtractor превращает карту классов в дискретные области дефектов.
// Связность областей — 4-соседство (верх/низ/лево/право).
type BoundingBoxExtractor struct {
	cfg ExtractorConfig
}

// NewBoundingBoxExtractor создаёт экстрактор с заданными порогами отсева.
func NewBoundingBoxExtractor(cfg ExtractorConfig) *BoundingBoxExtractor {
	return &BoundingBoxExtractor{cfg: cfg}
}

// Extract разбирает карту классов на рамки дефектов с двумя фильтрами шума:
// по связной области (пиксели и площадь рамки) и по доле класса на карте.
// Фильтры независимы: класс из мелких областей может пройти по доле.
// Если карта несёт уверенности, пиксели ниже порога уверенности считаются фоном.
func (e *BoundingBoxExtractor) Extract(classMap *entity.ClassMap, thresholds entity.ThresholdConfig) *entity.DefectClassification {
	result := &entity.DefectClassification{
		PredictedMask:     classMap,
		ClassDistribution: make(map[int]entity.ClassStat),
		DetectedDefects:   []string{},
		BoundingBoxes:     make(map[string][]entity.BoundingBox),
	}

	total := classMap.TotalPixels()
	if total == 0 {
		return result
	}

	pixels := effectivePixels(classMap, thresholds.DefectConfidenceThreshold)

	// Статистика по всем классам карты, включая фон и отфильтрованные классы.
	counts := make(map[int]int)
	for _, id := range pixels {
		counts[int(id)]++
	}
	for id, count := range counts {
		result.ClassDistribution[id] = entity.ClassStat{
			PixelCount: count,
			Percentage: float64(count) / float64(total) * 100,
			ClassID:    id,
		}
	}

	classIDs := make([]int, 0, len(counts))
	for id := range counts {
		if id != entity.BackgroundClassID {
			classIDs = append(classIDs, id)
		}
	}
	// Порядок по возрастанию id даёт детерминированный список дефектов.
	sort.Ints(classIDs)

	visited := make([]bool, total)
	for _, id := range classIDs {
		// Фильтр по классу: и доля на карте, и абсолютный минимум пикселей.
		// Класс из многих мелких областей всё равно проходит по доле.
		share := float64(counts[id]) / float64(total)
		if share < e.cfg.MinDefectPercentage || counts[id] < e.cfg.MinDefectPixels {
			continue
		}

		boxes := e.componentBoxes(pixels, classMap.Width, classMap.Height, uint8(id), visited)

		name := entity.DefectTypeName(id)
		result.DetectedDefects = append(result.DetectedDefects, name)
		if len(boxes) > 0 {
			result.BoundingBoxes[name] = boxes
		}
	}

	return result
}

// componentBoxes находит связные области класса и возвращает рамки,
// прошедшие фильтр по пикселям и площади.
func (e *BoundingBoxExtractor) componentBoxes(pixels []uint8, width, height int, classID uint8, visited []bool) []entity.BoundingBox {
	boxes := []entity.BoundingBox{}
	queue := make([]int, 0, 64)

	for start, id := range pixels {
		if id != classID || visited[start] {
			continue
		}

		// Обход области в ширину от стартового пикселя.
		visited[start] = true
		queue = append(queue[:0], start)
		pixelCount := 0
		minX, minY := width, height
		maxX, maxY := 0, 0

		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			pixelCount++

			x, y := idx%width, idx/width
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}

			if x > 0 && pixels[idx-1] == classID && !visited[idx-1] {
				visited[idx-1] = true
				queue = append(queue, idx-1)
			}
			if x < width-1 && pixels[idx+1] == classID && !visited[idx+1] {
				visited[idx+1] = true
				queue = append(queue, idx+1)
			}
			if y > 0 && pixels[idx-width] == classID && !visited[idx-width] {
				visited[idx-width] = true
				queue = append(queue, idx-width)
			}
			if y < height-1 && pixels[idx+width] == classID && !visited[idx+width] {
				visited[idx+width] = true
				queue = append(queue, idx+width)
			}
		}

		boxW := maxX - minX + 1
		boxH := maxY - minY + 1
		area := boxW * boxH
		if pixelCount < e.cfg.MinDefectPixels || area < e.cfg.MinBBoxArea {
			continue
		}

		boxes = append(boxes, entity.BoundingBox{
			X:          minX,
			Y:          minY,
			Width:      boxW,
			Height:     boxH,
			CenterX:    minX + boxW/2,
			CenterY:    minY + boxH/2,
			Area:       area,
			DefectType: entity.DefectTypeName(int(classID)),
			ClassID:    int(classID),
		})
	}

	return boxes
}

// effectivePixels применяет порог уверенности: неуверенные пиксели — фон.
// Карты без канала уверенности возвращаются как есть.
func effectivePixels(classMap *entity.ClassMap, confidenceThreshold float64) []uint8 {
	if classMap.Confidence == nil {
		return classMap.Pixels
	}

	pixels := make([]uint8, len(classMap.Pixels))
	copy(pixels, classMap.Pixels)
	for i, conf := range classMap.Confidence {
		if float64(conf) < confidenceThreshold {
			pixels[i] = entity.BackgroundClassID
		}
	}
	return pixels
}
