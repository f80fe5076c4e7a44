package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"defect-detector/internal/domain/entity"
)

// blockingGateway шлюз, который держит вызов до явного освобождения.
type blockingGateway struct {
	fakeGateway
	entered chan struct{}
	release chan struct{}
}

func (g *blockingGateway) AnomalyInfer(ctx context.Context, imageData []byte) (*entity.AnomalyScore, error) {
	g.entered <- struct{}{}
	<-g.release
	return &entity.AnomalyScore{Score: 0.1}, nil
}

func TestSerialGateway_LimitsConcurrency(t *testing.T) {
	inner := &blockingGateway{
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	gateway := NewSerialGateway(inner, 1)

	done := make(chan error, 1)
	go func() {
		_, err := gateway.AnomalyInfer(context.Background(), []byte("first"))
		done <- err
	}()

	// Первый вызов занял единственный слот.
	<-inner.entered

	// Второй вызов не должен попасть к модели, пока слот занят.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := gateway.AnomalyInfer(ctx, []byte("second"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Empty(t, inner.entered)

	// После освобождения слота вызовы проходят.
	close(inner.release)
	require.NoError(t, <-done)

	_, err = gateway.AnomalyInfer(context.Background(), []byte("third"))
	require.NoError(t, err)
}

func TestSerialGateway_CancelledAcquireDoesNotLeakSlot(t *testing.T) {
	inner := &fakeGateway{score: 0.1}
	gateway := NewSerialGateway(inner, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Отменённый контекст может как успеть взять слот, так и нет;
	// важно, что слот после этого не теряется.
	_, _ = gateway.AnomalyInfer(ctx, []byte("image"))

	_, err := gateway.AnomalyInfer(context.Background(), []byte("image"))
	require.NoError(t, err)
}
