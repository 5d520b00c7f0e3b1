// Package orders persists orders and their line items. Creation is a single
// all-or-nothing transaction; a partial order must never become visible.
package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Pratham-05/FarmNav-Website-Backend/internal/products"
)

// ErrNotFound covers both a missing order and an order owned by someone else;
// the two are indistinguishable on purpose.
var ErrNotFound = errors.New("order not found")

// ValidationError marks caller-correctable input problems detected before any
// database work.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

type Conf struct {
	db      *pgxpool.Pool
	catalog *products.Conf
}

func NewConf(db *pgxpool.Pool, catalog *products.Conf) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	return &Conf{db: db, catalog: catalog}, nil
}

// newTrackingID builds the human-readable tracking identifier: TRK plus nine
// random digits. Collisions are accepted as negligible; the unique constraint
// on the column would surface one as a failed insert.
func newTrackingID() string {
	return fmt.Sprintf("TRK%d", rand.Int63n(900000000)+100000000)
}

func clampMoney(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func (no NewOrder) validate() error {
	if len(no.CartItems) == 0 {
		return ValidationError("order must contain at least one item")
	}
	for _, item := range no.CartItems {
		if item.ID <= 0 {
			return ValidationError("cart item is missing a product reference")
		}
		if item.Name == "" {
			return ValidationError("cart item is missing a product name")
		}
		if item.Price.IsNegative() {
			return ValidationError("cart item price must not be negative")
		}
		if item.Quantity <= 0 {
			return ValidationError("cart item quantity must be positive")
		}
	}
	if no.ShippingAddress == "" {
		return ValidationError("shipping address is required")
	}
	if no.PaymentMethod == "" {
		return ValidationError("payment method is required")
	}
	return nil
}

// CreateOrder inserts the order header, its line items and the matching stock
// decrements in one transaction. Negative money amounts are clamped to zero
// before anything is written.
func (c *Conf) CreateOrder(ctx context.Context, userID int64, no NewOrder) (Order, error) {
	if err := no.validate(); err != nil {
		return Order{}, err
	}

	order := Order{
		UserID:          userID,
		ShippingAddress: no.ShippingAddress,
		PaymentMethod:   no.PaymentMethod,
		Subtotal:        clampMoney(no.Subtotal),
		ShippingCost:    clampMoney(no.ShippingCost),
		Total:           clampMoney(no.Total),
		TrackingID:      newTrackingID(),
		Status:          StatusProcessing,
	}

	err := c.withTx(ctx, func(tx pgx.Tx) error {
		orderQuery := `
			INSERT INTO orders (
				user_id, shipping_address, payment_method,
				subtotal, shipping_cost, total, tracking_id, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, order_date
		`
		err := tx.QueryRow(ctx, orderQuery,
			order.UserID, order.ShippingAddress, order.PaymentMethod,
			order.Subtotal, order.ShippingCost, order.Total,
			order.TrackingID, order.Status,
		).Scan(&order.ID, &order.OrderDate)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		itemQuery := `
			INSERT INTO order_items (
				order_id, product_id, product_name, product_price, quantity
			) VALUES ($1, $2, $3, $4, $5)
		`
		for _, item := range no.CartItems {
			_, err := tx.Exec(ctx, itemQuery,
				order.ID, item.ID, item.Name, clampMoney(item.Price), item.Quantity)
			if err != nil {
				return fmt.Errorf("failed to insert order item for product %d: %w", item.ID, err)
			}

			if _, err := c.catalog.DecrementStock(ctx, tx, item.ID, item.Quantity); err != nil {
				if errors.Is(err, products.ErrNotFound) {
					return ValidationError(fmt.Sprintf("unknown product %d in cart", item.ID))
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

// GetOrderDetails fetches one order for its owner. Ownership is part of the
// WHERE clause, so another user's order id simply reads as absent.
func (c *Conf) GetOrderDetails(ctx context.Context, userID, orderID int64) (OrderDetails, error) {
	orderQuery := `
		SELECT
			id,
			user_id,
			to_char(order_date, 'DD Mon YYYY') AS order_date,
			status,
			shipping_address,
			payment_method,
			subtotal,
			shipping_cost,
			total,
			tracking_id,
			to_char(order_date + interval '5 days', 'DD Mon YYYY') AS expected_delivery
		FROM orders
		WHERE id = $1 AND user_id = $2
	`
	var details OrderDetails
	err := c.db.QueryRow(ctx, orderQuery, orderID, userID).Scan(
		&details.ID, &details.UserID, &details.OrderDate, &details.Status,
		&details.ShippingAddress, &details.PaymentMethod, &details.Subtotal,
		&details.ShippingCost, &details.Total, &details.TrackingID,
		&details.ExpectedDelivery,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return OrderDetails{}, ErrNotFound
		}
		return OrderDetails{}, fmt.Errorf("failed to query order: %w", err)
	}

	details.Items, err = c.getOrderItems(ctx, details.ID)
	if err != nil {
		return OrderDetails{}, err
	}
	return details, nil
}

// GetOrdersByUser returns the user's order history, most recent first. Items
// are fetched per order; this is not a hot path.
func (c *Conf) GetOrdersByUser(ctx context.Context, userID int64) ([]UserOrder, error) {
	ordersQuery := `
		SELECT
			id,
			to_char(order_date, 'DD Mon YYYY') AS order_date,
			status,
			shipping_address,
			payment_method,
			subtotal,
			shipping_cost,
			total,
			tracking_id
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC
	`
	rows, err := c.db.Query(ctx, ordersQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	list := []UserOrder{}
	for rows.Next() {
		var o UserOrder
		if err := rows.Scan(&o.ID, &o.OrderDate, &o.Status, &o.ShippingAddress,
			&o.PaymentMethod, &o.Subtotal, &o.ShippingCost, &o.Total, &o.TrackingID); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for i := range list {
		list[i].Items, err = c.getOrderItems(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (c *Conf) getOrderItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	itemsQuery := `
		SELECT
			product_id AS id,
			product_name AS name,
			product_price AS price,
			quantity
		FROM order_items
		WHERE order_id = $1
	`
	rows, err := c.db.Query(ctx, itemsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []OrderItem{}
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}

func (c *Conf) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := c.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if er := tx.Rollback(ctx); er != nil && !errors.Is(er, pgx.ErrTxClosed) {
			return fmt.Errorf("failed to rollback withTx: %w", er)
		}
		return fmt.Errorf("failed to execute withTx: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
