package models

import "time"

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"

	DefaultRestaurantName = "FoodCloud Restaurant"
	DefaultDeliverySLA    = 45 * time.Minute

	TopicOrderPlaced = "order_placed_events"
	TopicOrderStatus = "order_status_events"
)
