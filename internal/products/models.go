package products

import "github.com/shopspring/decimal"

// Product is a catalog row. JSON names follow the public API, which exposes
// image_url as "image" and stock_quantity as "stock".
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Rating      decimal.Decimal `json:"rating"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
}
