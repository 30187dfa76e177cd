package models

import "time"

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventCartUpdated        = "CartUpdated"
)

// OrderEvent is delivered to Order Store subscribers after a mutation
// has been applied. Order is a snapshot and safe to retain.
type OrderEvent struct {
	Type           string
	Order          Order
	PreviousStatus OrderStatus
	At             time.Time
}

// CartEvent carries the cart contents right after a change.
type CartEvent struct {
	Type       string
	Lines      []CartLine
	TotalItems int
}

// EventMessage is a serialized event bound for an output topic.
type EventMessage struct {
	Topic   string
	Message []byte
}
