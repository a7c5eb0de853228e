package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/clothing_shop/pkg/logging"

	"github.com/Skotchmaster/clothing_shop/internal/models"
)

const OrderEventsTopic = "order_events"

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// publish sends an event after commit. A failed publish is logged and never
// undoes the committed change.
func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order, extra map[string]any) {
	if s.Events == nil {
		return
	}

	event := map[string]any{
		"type":        eventType,
		"order_num":   order.OrderNum,
		"customer_id": order.CustomerID.String(),
		"status":      order.Status,
		"total_price": order.TotalPrice.StringFixed(2),
		"at":          s.now(),
	}
	for k, v := range extra {
		event[k] = v
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Events.PublishEvent(pubCtx, OrderEventsTopic, order.CustomerID.String(), event); err != nil {
		logging.FromContext(ctx).With("svc", "order").
			Error("publish_event_failed", "type", eventType, "order_num", order.OrderNum, "error", err)
	}
}
