package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/go-watch-store/internal/aws"
	"github.com/imrishuroy/go-watch-store/internal/docstore"
	"github.com/imrishuroy/go-watch-store/internal/orders"
)

// Processor confirms placed orders read from SQS. It never modifies an order.
type Processor struct {
	orderStore *orders.Store
	metrics    *aws.Metrics
}

// NewProcessor creates a worker processor over the document store.
func NewProcessor(docs *docstore.Store, metrics *aws.Metrics) *Processor {
	return &Processor{
		orderStore: orders.NewStore(docs),
		metrics:    metrics,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Lambda retries the batch; repeated failures land in the DLQ.
			log.Printf("[worker] error message=%s: %v", rec.MessageId, err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg WorkerMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] received order=%s cart=%s corr=%s", msg.OrderID, msg.CartID, msg.CorrelationID)

	order, err := p.orderStore.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order not found: %s", msg.OrderID)
	}

	if total := order.ItemsTotal(); total != order.Subtotal {
		return fmt.Errorf("order=%s subtotal %.2f does not match items %.2f", order.ID, order.Subtotal, total)
	}
	if msg.Subtotal != order.Subtotal {
		log.Printf("[worker] event subtotal %.2f differs from stored %.2f for order=%s", msg.Subtotal, order.Subtotal, order.ID)
	}

	dims := map[string]string{"Status": order.Status}
	if err := p.metrics.Count(ctx, "OrdersConfirmed", 1, dims); err != nil {
		log.Printf("[worker] metrics: %v", err)
	}
	if err := p.metrics.Value(ctx, "Revenue", order.Subtotal, dims); err != nil {
		log.Printf("[worker] metrics: %v", err)
	}

	log.Printf("[worker] confirmed order=%s items=%d subtotal=%.2f", order.ID, len(order.Items), order.Subtotal)
	return nil
}
