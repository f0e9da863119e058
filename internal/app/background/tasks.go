package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/usecase"
)

type BackgroundTasks struct {
	OrderEventUsecase usecase.OrderEventUsecase
	TierUsecase       usecase.TierUsecase
	OrderEvents       domain.OrderEventSource
	RestartDelay      time.Duration
	Logger            *slog.Logger

	wg sync.WaitGroup
}

func NewBackgroundTasks(
	orderEventUC usecase.OrderEventUsecase,
	tierUC usecase.TierUsecase,
	orderEvents domain.OrderEventSource,
	restartDelay time.Duration,
	logger *slog.Logger,
) *BackgroundTasks {
	return &BackgroundTasks{
		OrderEventUsecase: orderEventUC,
		TierUsecase:       tierUC,
		OrderEvents:       orderEvents,
		RestartDelay:      restartDelay,
		Logger:            logger,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	bt.wg.Add(2)
	go func() {
		defer bt.wg.Done()
		bt.startOrderEventConsumer(ctx)
	}()
	go func() {
		defer bt.wg.Done()
		bt.startTierJob(ctx)
	}()
}

// Wait blocks until every task has returned after ctx was cancelled.
func (bt *BackgroundTasks) Wait() {
	bt.wg.Wait()
}

// startOrderEventConsumer keeps the subscription alive: a failed handler
// stops the consumer without committing, so it is restarted after a delay
// and the message is redelivered.
func (bt *BackgroundTasks) startOrderEventConsumer(ctx context.Context) {
	for {
		err := bt.OrderEventUsecase.Register(ctx, bt.OrderEvents)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			bt.Logger.Error("order event consumer stopped", "error", err, "restart_in", bt.RestartDelay)
		} else {
			bt.Logger.Warn("order event consumer returned", "restart_in", bt.RestartDelay)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(bt.RestartDelay):
		}
	}
}

// startTierJob catches up a missed month and arms the monthly trigger.
func (bt *BackgroundTasks) startTierJob(ctx context.Context) {
	if err := bt.TierUsecase.Start(ctx); err != nil {
		bt.Logger.Error("tier catch-up failed, retry scheduled", "error", err)
	}
}
