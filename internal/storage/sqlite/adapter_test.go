package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twilio-gateway/internal/common/errors"
	"twilio-gateway/internal/storage"
)

func newMemoryStore(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(&Config{DatabasePath: MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAdapter_SaveAndGet(t *testing.T) {
	a := newMemoryStore(t)
	ctx := context.Background()

	order := &storage.Order{
		ID:                "order-1",
		MessageID:         "msg-1",
		ClientInformation: "Juan, Calle 1",
		PhoneNumber:       "3001234567",
		OrderType:         "jump_start",
		SuggestedPrice:    1000,
		Status:            storage.OrderStatusSent,
	}
	require.NoError(t, a.SaveOrder(ctx, order))
	assert.False(t, order.CreatedAt.IsZero())

	got, err := a.GetOrder(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", got.MessageID)
	assert.Equal(t, "Juan, Calle 1", got.ClientInformation)
	assert.Equal(t, 1000, got.SuggestedPrice)
	assert.Equal(t, storage.OrderStatusSent, got.Status)
	assert.WithinDuration(t, order.CreatedAt, got.CreatedAt, time.Second)

	_, err = a.GetOrder(ctx, "missing")
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))

	err = a.SaveOrder(ctx, order)
	assert.True(t, errors.IsType(err, errors.ErrTypeInternal), "duplicate id must fail")
}

func TestAdapter_ListOrders(t *testing.T) {
	a := newMemoryStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, a.SaveOrder(ctx, &storage.Order{
			ID:        fmt.Sprintf("order-%d", i),
			MessageID: fmt.Sprintf("msg-%d", i),
			Status:    storage.OrderStatusFailed,
			Error:     "unavailable",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	tests := []struct {
		name    string
		limit   int
		offset  int
		wantIDs []string
	}{
		{"first page", 2, 0, []string{"order-4", "order-3"}},
		{"second page", 2, 2, []string{"order-2", "order-1"}},
		{"past the end", 2, 10, []string{}},
		{"default limit", 0, 0, []string{"order-4", "order-3", "order-2", "order-1", "order-0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, total, err := a.ListOrders(ctx, tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, 5, total)

			ids := make([]string, 0, len(orders))
			for _, o := range orders {
				ids = append(ids, o.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestAdapter_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")
	ctx := context.Background()

	a, err := NewAdapter(&Config{DatabasePath: path})
	require.NoError(t, err)
	require.NoError(t, a.SaveOrder(ctx, &storage.Order{ID: "o", MessageID: "m", Status: storage.OrderStatusSent}))
	require.NoError(t, a.Close())

	reopened, err := NewAdapter(&Config{DatabasePath: path})
	require.NoError(t, err)
	defer reopened.Close()

	require.NoError(t, reopened.Health(ctx))
	_, total, err := reopened.ListOrders(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestFactory_Registered(t *testing.T) {
	assert.True(t, storage.DefaultRegistry.IsRegistered("sqlite"))

	store, err := storage.Create(&Config{DatabasePath: MemoryPath})
	require.NoError(t, err)
	assert.NoError(t, store.Close())

	_, err = storage.Create(&Config{})
	assert.Error(t, err)
}
