package orders

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twilio-gateway/internal/storage"
	"twilio-gateway/internal/storage/sqlite"
	"twilio-gateway/internal/whatsapp"
)

type fakeSender struct {
	requests []*whatsapp.SendMessageRequest
	err      error
	reject   bool
}

func (f *fakeSender) SendMessage(_ context.Context, req *whatsapp.SendMessageRequest) (*whatsapp.SendMessageResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &whatsapp.SendMessageResponse{Success: !f.reject, MessageID: req.MessageID, Message: "done"}, nil
}

func newStore(t *testing.T) storage.OrderStore {
	t.Helper()
	store, err := sqlite.NewAdapter(&sqlite.Config{DatabasePath: sqlite.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var recipient = Recipient{PhoneNumber: "3506930989", CountryCode: "57"}

func TestComposeNotification(t *testing.T) {
	msg := ComposeNotification(&OrderRequest{ClientInformation: "Ana", OrderType: "winch_out"}, 5000)
	assert.True(t, strings.HasPrefix(msg, "New order received:"))
	assert.Contains(t, msg, "Client information: Ana")
	assert.Contains(t, msg, "Order type: winch_out")
	assert.Contains(t, msg, "Suggested price: 5000")
}

func TestService_PlaceOrder(t *testing.T) {
	tests := []struct {
		name       string
		sender     *fakeSender
		wantErr    bool
		wantStatus storage.OrderStatus
	}{
		{"sent", &fakeSender{}, false, storage.OrderStatusSent},
		{"rpc failure", &fakeSender{err: errors.New("unavailable")}, true, storage.OrderStatusFailed},
		{"rejected by service", &fakeSender{reject: true}, true, storage.OrderStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			svc := NewService(tt.sender, store, nil, recipient, nil)
			ctx := context.Background()

			order, err := svc.PlaceOrder(ctx, &OrderRequest{
				ClientInformation: "Ana",
				PhoneNumber:       "3001234567",
				OrderType:         "lock_out_key",
			}, "token:abc")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			require.NotNil(t, order)
			assert.Equal(t, 3000, order.SuggestedPrice)
			assert.Equal(t, tt.wantStatus, order.Status)

			require.Len(t, tt.sender.requests, 1)
			sent := tt.sender.requests[0]
			assert.Equal(t, "3506930989", sent.PhoneNumber)
			assert.Equal(t, "57", sent.CountryCode)
			assert.Equal(t, order.MessageID, sent.MessageID)
			assert.Equal(t, whatsapp.MessageTypeText, sent.Type)

			saved, err := svc.GetOrder(ctx, order.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, saved.Status)
			assert.Equal(t, "token:abc", saved.IdempotencyKey)
		})
	}
}

func TestService_WithoutStore(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, nil, nil, recipient, nil)
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, &OrderRequest{OrderType: "nope"}, "")
	require.NoError(t, err)
	assert.Equal(t, 0, order.SuggestedPrice)

	_, _, err = svc.ListOrders(ctx, 10, 0)
	assert.Error(t, err)
}

func TestService_SendTestMessage(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, nil, nil, recipient, nil)

	id, err := svc.SendTestMessage(context.Background(), "ping")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, sender.requests, 1)
	assert.Equal(t, "ping", sender.requests[0].Text)
	assert.Equal(t, id, sender.requests[0].MessageID)

	sender.err = errors.New("down")
	_, err = svc.SendTestMessage(context.Background(), "ping")
	assert.Error(t, err)
}
