package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

const TopicOrderPlaced = `orders.order-placed`

// OrderPlacedEvent is the record produced after an order commits. Consumers
// downstream (analytics, fulfilment) pick it up; delivery is best effort.
type OrderPlacedEvent struct {
	OrderID    int64           `json:"order_id"`
	UserID     int64           `json:"user_id"`
	TrackingID string          `json:"tracking_id"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"` // Timestamp of creation
}
