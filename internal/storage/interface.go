// Package storage persists the orders received through the Twilio webhook.
//
// Backends register themselves with the default Registry from their init
// functions; import internal/storage/sqlite or internal/storage/postgres for
// side effects before calling Create.
package storage

import (
	"context"
	"time"
)

// OrderStatus records whether the WhatsApp notification went out.
type OrderStatus string

const (
	OrderStatusSent   OrderStatus = "sent"
	OrderStatusFailed OrderStatus = "failed"
)

// Order is a service request captured from a Twilio flow.
type Order struct {
	ID                string      `json:"id"`
	MessageID         string      `json:"message_id"`
	ClientInformation string      `json:"client_information"`
	PhoneNumber       string      `json:"phone_number"`
	OrderType         string      `json:"order_type"`
	SuggestedPrice    int         `json:"suggested_price"`
	Status            OrderStatus `json:"status"`
	Error             string      `json:"error,omitempty"`
	IdempotencyKey    string      `json:"-"`
	CreatedAt         time.Time   `json:"created_at"`
}

// OrderStore is implemented by every backend.
type OrderStore interface {
	SaveOrder(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	// ListOrders returns a page of orders, newest first, and the total count.
	ListOrders(ctx context.Context, limit, offset int) ([]*Order, int, error)
	Health(ctx context.Context) error
	Close() error
}

// StorageConfig is a backend specific configuration.
type StorageConfig interface {
	Validate() error
	GetType() string
}

// StorageFactory opens a backend from its configuration.
type StorageFactory interface {
	Create(config StorageConfig) (OrderStore, error)
	GetType() string
}
