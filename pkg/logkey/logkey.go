// Package logkey holds the structured logging keys used across the service,
// so every log line spells them the same way.
package logkey

const (
	TraceID = "trace_id"
	Error   = "error"
	UserID  = "user_id"
	OrderID = "order_id"
)
