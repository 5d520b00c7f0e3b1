// Package products is the read side of the catalog plus the stock decrement
// primitive used inside order-creation transactions.
package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("product not found")

type Conf struct {
	db *pgxpool.Pool
}

func NewConf(db *pgxpool.Pool) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

const productColumns = `
	id,
	name,
	description,
	price,
	rating,
	image_url,
	category,
	stock_quantity
`

// ListProducts returns the catalog ordered by rating, optionally filtered to
// one category. An empty category means everything.
func (c *Conf) ListProducts(ctx context.Context, category string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY rating DESC`

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	list := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Rating,
			&p.Image, &p.Category, &p.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return list, nil
}

func (c *Conf) GetProductByID(ctx context.Context, id int64) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p Product
	err := c.db.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Rating, &p.Image, &p.Category, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

// DecrementStock lowers stock_quantity inside the caller's transaction and
// returns the new quantity. Deliberately unguarded: concurrent depletion can
// drive the value negative, matching the rest of the concurrency model.
func (c *Conf) DecrementStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int) (int, error) {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $1
		WHERE id = $2
		RETURNING stock_quantity
	`
	var remaining int
	err := tx.QueryRow(ctx, query, quantity, productID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to decrement stock for product %d: %w", productID, err)
	}
	return remaining, nil
}
