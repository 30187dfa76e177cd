package models

// TrackingStage is the four step progress shown by the live tracker.
type TrackingStage int

const (
	StageNone TrackingStage = iota
	StageOrderPlaced
	StagePreparing
	StageOnTheWay
	StageDelivered
)

func (s TrackingStage) Label() string {
	switch s {
	case StageOrderPlaced:
		return "Order Placed"
	case StagePreparing:
		return "Preparing"
	case StageOnTheWay:
		return "On the Way"
	case StageDelivered:
		return "Delivered"
	}
	return "Unknown"
}

func (s TrackingStage) IsFinal() bool { return s == StageDelivered }

// Status is the order status a tracker writes when it enters the stage.
func (s TrackingStage) Status() OrderStatus {
	switch s {
	case StagePreparing:
		return OrderStatusPreparing
	case StageOnTheWay:
		return OrderStatusOutForDelivery
	case StageDelivered:
		return OrderStatusDelivered
	}
	return OrderStatusPending
}

// StageForStatus maps a store status onto the display stage. Cancelled
// orders have no stage.
func StageForStatus(s OrderStatus) TrackingStage {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed:
		return StageOrderPlaced
	case OrderStatusPreparing:
		return StagePreparing
	case OrderStatusOutForDelivery:
		return StageOnTheWay
	case OrderStatusDelivered:
		return StageDelivered
	}
	return StageNone
}

// TrackingSnapshot is what a tracking view renders.
type TrackingSnapshot struct {
	OrderID          string        `json:"orderId"`
	Stage            TrackingStage `json:"stage"`
	StageLabel       string        `json:"stageLabel"`
	MinutesRemaining int           `json:"minutesRemaining"`
	Status           OrderStatus   `json:"status"`
	Running          bool          `json:"running"`
}
