package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/metrics"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderEventSubscriber consumes order status events. Offsets are committed
// only after the handler succeeded, so a failed message is redelivered.
type OrderEventSubscriber struct {
	newReader func() messageReader
	logger    *slog.Logger
	metrics   *metrics.CommissionMetrics
}

func NewOrderEventSubscriber(brokers []string, topic, groupID string, logger *slog.Logger, m *metrics.CommissionMetrics) *OrderEventSubscriber {
	return &OrderEventSubscriber{
		newReader: func() messageReader {
			return kafka.NewReader(kafka.ReaderConfig{
				Brokers: brokers,
				Topic:   topic,
				GroupID: groupID,
			})
		},
		logger:  logger,
		metrics: m,
	}
}

func (s *OrderEventSubscriber) Subscribe(ctx context.Context, handler domain.OrderStatusHandler) error {
	reader := s.newReader()
	defer reader.Close()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.metrics.RecordConsumerError("fetch")
			return fmt.Errorf("failed to fetch order event: %w", err)
		}

		event, err := DecodeOrderStatusEvent(msg.Value)
		if err != nil {
			// Битое сообщение не должно блокировать партицию
			s.logger.Warn("dropping malformed order event",
				"partition", msg.Partition, "offset", msg.Offset, "error", err)
			s.metrics.RecordRejectedEvent("decode")
		} else if err := handler(ctx, event); err != nil {
			switch {
			case errors.Is(err, context.Canceled) && ctx.Err() != nil:
				return nil
			case errors.Is(err, domain.ErrInvalidEvent):
				s.logger.Warn("dropping invalid order event",
					"order_id", event.OrderID, "offset", msg.Offset, "error", err)
				s.metrics.RecordRejectedEvent("invalid")
			default:
				s.metrics.RecordConsumerError("handle")
				return fmt.Errorf("failed to handle order %s: %w", event.OrderID, err)
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.metrics.RecordConsumerError("commit")
			return fmt.Errorf("failed to commit offset %d: %w", msg.Offset, err)
		}
	}
}
