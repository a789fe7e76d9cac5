package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/services/storefront/internal/domain"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated     = "storefront.cart.updated"
	TopicWishlistUpdated = "storefront.wishlist.updated"
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
)

// SourceStorefront identifies events originating from this service.
const SourceStorefront = "storefront-service"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID   string         `json:"session_id"`
	Operation   string         `json:"operation"`
	Items       []CartItemData `json:"items"`
	ItemCount   int            `json:"item_count"`
	TotalAmount string         `json:"total_amount"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	SessionID  string   `json:"session_id"`
	Operation  string   `json:"operation"`
	ProductIDs []string `json:"product_ids"`
}

// Publisher is the subset of pkgkafka.Producer the service needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// NopPublisher drops every event. It is used when events are disabled.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, string, *pkgkafka.Event) error { return nil }

// Producer publishes storefront domain events.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: logger}
}

// PublishCartUpdated publishes a cart.updated event carrying the full cart.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID, op string, items domain.LineItems) error {
	data := CartUpdatedData{
		SessionID:   sessionID,
		Operation:   op,
		Items:       make([]CartItemData, len(items)),
		ItemCount:   items.TotalItems(),
		TotalAmount: items.TotalPrice().StringFixed(2),
	}
	for i, it := range items {
		data.Items[i] = CartItemData{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
	}

	if err := p.publish(ctx, TopicCartUpdated, sessionID, AggregateTypeCart, data); err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session", sessionID),
		slog.String("operation", op),
		slog.Int("item_count", data.ItemCount),
	)
	return nil
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, sessionID, op string, entries []domain.WishlistEntry) error {
	data := WishlistUpdatedData{
		SessionID:  sessionID,
		Operation:  op,
		ProductIDs: make([]string, len(entries)),
	}
	for i, e := range entries {
		data.ProductIDs[i] = e.ProductID
	}

	if err := p.publish(ctx, TopicWishlistUpdated, sessionID, AggregateTypeWishlist, data); err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "published wishlist.updated event",
		slog.String("session", sessionID),
		slog.String("operation", op),
	)
	return nil
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}
	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}
