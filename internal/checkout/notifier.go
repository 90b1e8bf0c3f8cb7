package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wylmer7856/AgroStock-Web-sub002/internal/stores/kafka"
)

// KafkaNotifier publishes one order-created event per committed order.
type KafkaNotifier struct {
	k *kafka.Conf
}

func NewKafkaNotifier(k *kafka.Conf) (*KafkaNotifier, error) {
	if k == nil {
		return nil, fmt.Errorf("kafka conf is nil")
	}
	return &KafkaNotifier{k: k}, nil
}

func (n *KafkaNotifier) OrderCreated(ctx context.Context, orderID string, group OrderGroup) error {
	event := kafka.OrderCreatedEvent{
		OrderID:    orderID,
		SellerID:   group.SellerID,
		BuyerID:    group.BuyerID,
		TotalCents: group.TotalCents,
		CreatedAt:  time.Now().UTC(),
	}
	for _, line := range group.Lines {
		event.Items = append(event.Items, kafka.OrderCreatedItem{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order created event: %w", err)
	}
	return n.k.ProduceMessage(kafka.TopicOrderCreated, []byte(orderID), data)
}
