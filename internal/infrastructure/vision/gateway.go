//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"defect-detector/internal/domain/entity"
)

// GoCVGateway локальный шлюз инференса на классическом CV.
// Это не нейросеть, а резервный путь для запуска без сервиса моделей:
// оценка аномальности по плотности контуров, сегментация по яркости.
type GoCVGateway struct {
	MaxSide        int     // изображение ужимается до этой стороны
	EdgeSaturation float64 // плотность контуров, при которой score достигает 1
	DarkLevel      uint8   // порог "провала" (отсутствующий компонент)
	StainLevel     uint8   // порог тёмного пятна
}

// NewGoCVGateway создаёт локальный CV-шлюз.
func NewGoCVGateway() *GoCVGateway {
	return &GoCVGateway{
		MaxSide:        1024,
		EdgeSaturation: 0.05,
		DarkLevel:      40,
		StainLevel:     90,
	}
}

// AnomalyInfer считает оценку аномальности по доле контурных пикселей.
func (g *GoCVGateway) AnomalyInfer(ctx context.Context, imageData []byte) (*entity.AnomalyScore, error) {
	_ = ctx
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	g.shrink(&mat)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blur, &edges, 50, 150)

	total := edges.Cols() * edges.Rows()
	if total == 0 {
		return nil, entity.ErrInvalidInput
	}
	edgeRatio := float64(gocv.CountNonZero(edges)) / float64(total)
	score := math.Min(1, edgeRatio/g.EdgeSaturation)

	// Маска аномалий — бинарная карта контуров.
	raw := edges.ToBytes()
	values := make([]float32, len(raw))
	for i, b := range raw {
		values[i] = float32(b) / 255
	}

	return &entity.AnomalyScore{
		Score: score,
		Mask: &entity.AnomalyMask{
			Width:  edges.Cols(),
			Height: edges.Rows(),
			Values: values,
		},
	}, nil
}

// SegmentationInfer раскладывает изображение на классы по яркости:
// глубокие провалы — missing_component, тёмные пятна — stained.
// Маска-подсказка здесь игнорируется.
func (g *GoCVGateway) SegmentationInfer(ctx context.Context, imageData []byte, mask *entity.AnomalyMask) (*entity.ClassMap, error) {
	_ = ctx
	_ = mask
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	g.shrink(&mat)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	raw := gray.ToBytes()
	pixels := make([]uint8, len(raw))
	for i, level := range raw {
		switch {
		case level < g.DarkLevel:
			pixels[i] = 2 // missing_component
		case level < g.StainLevel:
			pixels[i] = 5 // stained
		default:
			pixels[i] = entity.BackgroundClassID
		}
	}

	return &entity.ClassMap{
		Width:  gray.Cols(),
		Height: gray.Rows(),
		Pixels: pixels,
	}, nil
}

// Ready локальный шлюз готов сразу после создания.
func (g *GoCVGateway) Ready(ctx context.Context) bool {
	_ = ctx
	return true
}

// Device локальный шлюз всегда работает на CPU.
func (g *GoCVGateway) Device() string {
	return "cpu"
}

// shrink приводит изображение к стандартному размеру для стабильных порогов.
func (g *GoCVGateway) shrink(mat *gocv.Mat) {
	if mat.Cols() <= g.MaxSide && mat.Rows() <= g.MaxSide {
		return
	}
	scale := float64(g.MaxSide) / float64(maxInt(mat.Cols(), mat.Rows()))
	newW := int(float64(mat.Cols()) * scale)
	newH := int(float64(mat.Rows()) * scale)
	resized := gocv.NewMat()
	gocv.Resize(*mat, &resized, image.Pt(newW, newH), 0, 0, gocv.InterpolationArea)
	mat.Close()
	*mat = resized
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if err == nil {
		mat.Close()
	}
	return gocv.NewMat(), fmt.Errorf("%w: failed to decode image", entity.ErrInvalidInput)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
