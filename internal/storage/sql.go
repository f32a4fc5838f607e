package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"twilio-gateway/internal/common/errors"
)

// Dialect captures the differences between SQL backends.
type Dialect struct {
	Name string
	// Schema statements run in order when the store opens.
	Schema []string
	// Numbered placeholders ($1, $2...) instead of '?'.
	NumberedParams bool
}

// SQLStore implements OrderStore over database/sql. Queries are written with
// '?' placeholders and rebound for the dialect.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore applies the dialect schema and returns the store.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	for _, stmt := range dialect.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to migrate %s database: %w", dialect.Name, err)
		}
	}
	return &SQLStore{db: db, dialect: dialect}, nil
}

func (s *SQLStore) rebind(query string) string {
	if !s.dialect.NumberedParams {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const orderColumns = `id, message_id, client_information, phone_number, order_type,
	suggested_price, status, error, idempotency_key, created_at`

func (s *SQLStore) SaveOrder(ctx context.Context, order *Order) error {
	if order.ID == "" {
		return errors.ValidationError("order id is required")
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	query := s.rebind(`INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		order.ID, order.MessageID, order.ClientInformation, order.PhoneNumber, order.OrderType,
		order.SuggestedPrice, string(order.Status), order.Error, order.IdempotencyKey, order.CreatedAt,
	)
	if err != nil {
		return errors.InternalError("failed to save order", err)
	}
	return nil
}

func (s *SQLStore) GetOrder(ctx context.Context, id string) (*Order, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+orderColumns+` FROM orders WHERE id = ?`), id)
	order, err := scanOrder(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundError("order")
	}
	if err != nil {
		return nil, errors.InternalError("failed to load order", err)
	}
	return order, nil
}

func (s *SQLStore) ListOrders(ctx context.Context, limit, offset int) ([]*Order, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, errors.InternalError("failed to count orders", err)
	}

	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id LIMIT ? OFFSET ?`),
		limit, offset)
	if err != nil {
		return nil, 0, errors.InternalError("failed to list orders", err)
	}
	defer rows.Close()

	orders := make([]*Order, 0, limit)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, errors.InternalError("failed to read order", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.InternalError("failed to list orders", err)
	}
	return orders, total, nil
}

func (s *SQLStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row scanner) (*Order, error) {
	var (
		o      Order
		status string
	)
	err := row.Scan(&o.ID, &o.MessageID, &o.ClientInformation, &o.PhoneNumber, &o.OrderType,
		&o.SuggestedPrice, &status, &o.Error, &o.IdempotencyKey, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = OrderStatus(status)
	return &o, nil
}
