package output

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/xitongsys/parquet-go/schema"
)

// OrderPlacedEvent represents a checkout turning into a pending order.
// Fields are flat: parquet-go skips untagged embedded structs.
type OrderPlacedEvent struct {
	Timestamp           int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType           string  `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderID             string  `json:"orderId" parquet:"name=orderId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Restaurant          string  `json:"restaurant" parquet:"name=restaurant,type=BYTE_ARRAY,convertedtype=UTF8"`
	ItemIDs             string  `json:"itemIds" parquet:"name=itemIds,type=BYTE_ARRAY,convertedtype=UTF8"`
	ItemCount           int64   `json:"itemCount" parquet:"name=itemCount,type=INT64"`
	TotalAmount         float64 `json:"totalAmount" parquet:"name=totalAmount,type=DOUBLE"`
	Status              string  `json:"status" parquet:"name=status,type=BYTE_ARRAY,convertedtype=UTF8"`
	CustomerName        string  `json:"customerName" parquet:"name=customerName,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderPlacedAt       int64   `json:"orderPlacedAt" parquet:"name=orderPlacedAt,type=INT64"`
	EstimatedDeliveryAt int64   `json:"estimatedDeliveryAt" parquet:"name=estimatedDeliveryAt,type=INT64"`
}

// OrderStatusEvent represents any status change after placement
type OrderStatusEvent struct {
	Timestamp      int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType      string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderID        string `json:"orderId" parquet:"name=orderId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Restaurant     string `json:"restaurant" parquet:"name=restaurant,type=BYTE_ARRAY,convertedtype=UTF8"`
	PreviousStatus string `json:"previousStatus" parquet:"name=previousStatus,type=BYTE_ARRAY,convertedtype=UTF8"`
	Status         string `json:"status" parquet:"name=status,type=BYTE_ARRAY,convertedtype=UTF8"`
	ChangedAt      int64  `json:"changedAt" parquet:"name=changedAt,type=INT64"`
}

// Encode turns a store notification into the topic and payload written by
// destinations.
func Encode(ev models.OrderEvent) (models.EventMessage, error) {
	var (
		topic   string
		payload interface{}
	)
	switch ev.Type {
	case models.EventOrderPlaced:
		ids := make([]string, 0, len(ev.Order.Items))
		for _, l := range ev.Order.Items {
			ids = append(ids, strconv.Itoa(l.ID))
		}
		topic = models.TopicOrderPlaced
		payload = OrderPlacedEvent{
			Timestamp:           ev.At.Unix(),
			EventType:           ev.Type,
			OrderID:             ev.Order.ID,
			Restaurant:          ev.Order.Restaurant,
			ItemIDs:             strings.Join(ids, ","),
			ItemCount:           int64(ev.Order.ItemCount()),
			TotalAmount:         ev.Order.Total.InexactFloat64(),
			Status:              string(ev.Order.Status),
			CustomerName:        ev.Order.CustomerInfo.Name,
			OrderPlacedAt:       ev.Order.OrderTime.Unix(),
			EstimatedDeliveryAt: ev.Order.EstimatedDelivery.Unix(),
		}
	case models.EventOrderStatusChanged:
		topic = models.TopicOrderStatus
		payload = OrderStatusEvent{
			Timestamp:      ev.At.Unix(),
			EventType:      ev.Type,
			OrderID:        ev.Order.ID,
			Restaurant:     ev.Order.Restaurant,
			PreviousStatus: string(ev.PreviousStatus),
			Status:         string(ev.Order.Status),
			ChangedAt:      ev.At.Unix(),
		}
	default:
		return models.EventMessage{}, fmt.Errorf("unknown event type: %s", ev.Type)
	}

	msg, err := json.Marshal(payload)
	if err != nil {
		return models.EventMessage{}, fmt.Errorf("error marshalling %s: %w", ev.Type, err)
	}
	return models.EventMessage{Topic: topic, Message: msg}, nil
}

// GetSchema returns the parquet schema registered for a topic.
func GetSchema(topic string) (*schema.SchemaHandler, error) {
	obj, err := recordFor(topic)
	if err != nil {
		return nil, err
	}
	sh, err := schema.NewSchemaHandlerFromStruct(obj)
	if err != nil {
		return nil, fmt.Errorf("error creating schema for %s: %w", topic, err)
	}
	return sh, nil
}

func recordFor(topic string) (interface{}, error) {
	switch topic {
	case models.TopicOrderPlaced:
		return new(OrderPlacedEvent), nil
	case models.TopicOrderStatus:
		return new(OrderStatusEvent), nil
	}
	return nil, fmt.Errorf("unknown event type: %s", topic)
}

// decodeRecord parses msg into the typed record for topic, by value.
func decodeRecord(topic string, msg []byte) (interface{}, error) {
	switch topic {
	case models.TopicOrderPlaced:
		var e OrderPlacedEvent
		err := json.Unmarshal(msg, &e)
		return e, err
	case models.TopicOrderStatus:
		var e OrderStatusEvent
		err := json.Unmarshal(msg, &e)
		return e, err
	}
	return nil, fmt.Errorf("unknown event type: %s", topic)
}

func orderKey(msg []byte) string {
	var head struct {
		OrderID string `json:"orderId"`
	}
	if err := json.Unmarshal(msg, &head); err != nil {
		return ""
	}
	return head.OrderID
}
