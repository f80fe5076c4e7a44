package app

import (
	"context"

	"defect-detector/internal/domain/entity"
	"defect-detector/internal/domain/port"
)

// SerialGateway ограничивает число одновременных вызовов инференса
// числом доступных устройств. Остальные стадии конвейера (разбор карты,
// форматирование) идут параллельно без ограничений.
type SerialGateway struct {
	inner port.ModelGateway
	slots chan struct{}
}

// NewSerialGateway оборачивает шлюз пулом слотов устройств.
func NewSerialGateway(inner port.ModelGateway, devices int) *SerialGateway {
	if devices < 1 {
		devices = 1
	}

	g := &SerialGateway{
		inner: inner,
		slots: make(chan struct{}, devices),
	}
	for i := 0; i < devices; i++ {
		g.slots <- struct{}{}
	}
	return g
}

// AnomalyInfer занимает слот устройства на время вызова модели аномалий.
func (g *SerialGateway) AnomalyInfer(ctx context.Context, imageData []byte) (*entity.AnomalyScore, error) {
	if err := g.acquire(ctx); err != nil {
		return nil, err
	}
	defer g.release()
	return g.inner.AnomalyInfer(ctx, imageData)
}

// SegmentationInfer занимает слот устройства на время вызова сегментации.
func (g *SerialGateway) SegmentationInfer(ctx context.Context, imageData []byte, mask *entity.AnomalyMask) (*entity.ClassMap, error) {
	if err := g.acquire(ctx); err != nil {
		return nil, err
	}
	defer g.release()
	return g.inner.SegmentationInfer(ctx, imageData, mask)
}

// Ready пробрасывает готовность внутреннего шлюза.
func (g *SerialGateway) Ready(ctx context.Context) bool {
	return g.inner.Ready(ctx)
}

// Device пробрасывает имя устройства внутреннего шлюза.
func (g *SerialGateway) Device() string {
	return g.inner.Device()
}

func (g *SerialGateway) acquire(ctx context.Context) error {
	select {
	case <-g.slots:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *SerialGateway) release() {
	g.slots <- struct{}{}
}

// Проверка реализации интерфейса
var _ port.ModelGateway = (*SerialGateway)(nil)
