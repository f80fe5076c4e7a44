//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"fmt"

	"defect-detector/internal/domain/entity"
)

// GoCVGateway заглушка локального шлюза для сборки без OpenCV.
type GoCVGateway struct {
	MaxSide        int
	EdgeSaturation float64
	DarkLevel      uint8
	StainLevel     uint8
}

// NewGoCVGateway создаёт шлюз-заглушку (без OpenCV).
func NewGoCVGateway() *GoCVGateway {
	return &GoCVGateway{
		MaxSide:        1024,
		EdgeSaturation: 0.05,
		DarkLevel:      40,
		StainLevel:     90,
	}
}

// AnomalyInfer возвращает ошибку, если сборка без тега gocv.
func (g *GoCVGateway) AnomalyInfer(ctx context.Context, imageData []byte) (*entity.AnomalyScore, error) {
	_ = ctx
	_ = imageData
	return nil, fmt.Errorf("%w: gocv build tag is not enabled", entity.ErrModelUnavailable)
}

// SegmentationInfer возвращает ошибку, если сборка без тега gocv.
func (g *GoCVGateway) SegmentationInfer(ctx context.Context, imageData []byte, mask *entity.AnomalyMask) (*entity.ClassMap, error) {
	_ = ctx
	_ = imageData
	_ = mask
	return nil, fmt.Errorf("%w: gocv build tag is not enabled", entity.ErrModelUnavailable)
}

// Ready заглушка никогда не готова к инференсу.
func (g *GoCVGateway) Ready(ctx context.Context) bool {
	_ = ctx
	return false
}

// Device заглушка сообщает CPU.
func (g *GoCVGateway) Device() string {
	return "cpu"
}
