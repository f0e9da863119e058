package background

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/usecase"
	commissiondto "github.com/LavaJover/shvark-commission-service/internal/usecase/dto/commission"
)

type stubOrderEventUsecase struct {
	RegisterFn func(ctx context.Context, source domain.OrderEventSource) error
}

func (s *stubOrderEventUsecase) HandleOrderStatusChanged(context.Context, domain.OrderStatusChanged) (*commissiondto.IngestOutput, error) {
	return nil, nil
}

func (s *stubOrderEventUsecase) Register(ctx context.Context, source domain.OrderEventSource) error {
	return s.RegisterFn(ctx, source)
}

type stubTierUsecase struct {
	usecase.TierUsecase
	started atomic.Int32
}

func (s *stubTierUsecase) Start(context.Context) error {
	s.started.Add(1)
	return errors.New("db down")
}

func TestConsumerRestartsAfterFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	orderUC := &stubOrderEventUsecase{RegisterFn: func(ctx context.Context, _ domain.OrderEventSource) error {
		if calls.Add(1) == 3 {
			cancel()
			<-ctx.Done()
			return nil
		}
		return errors.New("handler failed")
	}}
	tierUC := &stubTierUsecase{}

	bt := NewBackgroundTasks(orderUC, tierUC, nil, time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	bt.StartAll(ctx)

	done := make(chan struct{})
	go func() {
		bt.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("background tasks did not stop")
	}
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int32(1), tierUC.started.Load())
}
