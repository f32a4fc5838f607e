// Package orders turns webhook orders into WhatsApp notifications and keeps a
// record of each one.
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"twilio-gateway/internal/common/errors"
	"twilio-gateway/internal/common/logging"
	"twilio-gateway/internal/storage"
	"twilio-gateway/internal/whatsapp"
)

// Sender delivers WhatsApp messages.
type Sender interface {
	SendMessage(ctx context.Context, req *whatsapp.SendMessageRequest) (*whatsapp.SendMessageResponse, error)
}

// Recipient is who gets notified about new orders.
type Recipient struct {
	PhoneNumber string
	CountryCode string
}

type Service struct {
	sender    Sender
	store     storage.OrderStore
	prices    *PriceTable
	recipient Recipient
	logger    logging.Logger
	now       func() time.Time
}

// NewService builds the service. store may be nil when persistence is disabled.
func NewService(sender Sender, store storage.OrderStore, prices *PriceTable, recipient Recipient, logger logging.Logger) *Service {
	if prices == nil {
		prices = DefaultPriceTable()
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Service{
		sender:    sender,
		store:     store,
		prices:    prices,
		recipient: recipient,
		logger:    logger.WithFields(logging.Field{Key: "component", Value: "orders"}),
		now:       time.Now,
	}
}

// ComposeNotification renders the message sent for a new order.
func ComposeNotification(req *OrderRequest, price int) string {
	return fmt.Sprintf("New order received:\n\n"+
		"Client information: %s\n\n"+
		"Order type: %s\n\n"+
		"Suggested price: %d\n\n"+
		"Please proceed with the order.",
		req.ClientInformation, req.OrderType, price)
}

// PlaceOrder prices the order, notifies the recipient and records the
// outcome. The order is returned even when the notification fails.
func (s *Service) PlaceOrder(ctx context.Context, req *OrderRequest, idempotencyKey string) (*storage.Order, error) {
	price := s.prices.Price(req.OrderType)
	order := &storage.Order{
		ID:                uuid.NewString(),
		MessageID:         uuid.NewString(),
		ClientInformation: req.ClientInformation,
		PhoneNumber:       req.PhoneNumber,
		OrderType:         req.OrderType,
		SuggestedPrice:    price,
		IdempotencyKey:    idempotencyKey,
		CreatedAt:         s.now().UTC(),
	}
	log := s.logger.WithContext(ctx).WithFields(
		logging.Field{Key: "order_id", Value: order.ID},
		logging.Field{Key: "message_id", Value: order.MessageID},
		logging.Field{Key: "order_type", Value: order.OrderType},
	)

	sendErr := s.send(ctx, order.MessageID, ComposeNotification(req, price))
	if sendErr != nil {
		order.Status = storage.OrderStatusFailed
		order.Error = sendErr.Error()
		log.Error("Order notification failed", sendErr)
	} else {
		order.Status = storage.OrderStatusSent
		log.Info("Order received and notification sent", logging.Field{Key: "suggested_price", Value: price})
	}

	if s.store != nil {
		// Storage errors are logged only; the notification already went out.
		if err := s.store.SaveOrder(ctx, order); err != nil {
			log.Error("Failed to persist order", err)
		}
	}

	return order, sendErr
}

// SendTestMessage sends text to the recipient and returns the message id.
func (s *Service) SendTestMessage(ctx context.Context, text string) (string, error) {
	id := uuid.NewString()
	if err := s.send(ctx, id, text); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) send(ctx context.Context, messageID, text string) error {
	resp, err := s.sender.SendMessage(ctx, &whatsapp.SendMessageRequest{
		PhoneNumber: s.recipient.PhoneNumber,
		CountryCode: s.recipient.CountryCode,
		Text:        text,
		MessageID:   messageID,
		Type:        whatsapp.MessageTypeText,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return errors.ConnectionError(fmt.Sprintf("messaging service did not send the message: %s", resp.Message), nil).
			WithCode("send_rejected")
	}
	return nil
}

// ListOrders pages through persisted orders.
func (s *Service) ListOrders(ctx context.Context, limit, offset int) ([]*storage.Order, int, error) {
	if s.store == nil {
		return nil, 0, errors.ConfigError("order storage is disabled")
	}
	return s.store.ListOrders(ctx, limit, offset)
}

// GetOrder loads one persisted order.
func (s *Service) GetOrder(ctx context.Context, id string) (*storage.Order, error) {
	if s.store == nil {
		return nil, errors.ConfigError("order storage is disabled")
	}
	return s.store.GetOrder(ctx, id)
}
