// Package checkout validates a checkout request and turns the session cart
// into an order.
package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingCustomerInfo = errors.New("missing customer information")
	ErrEmptyCart           = errors.New("cart is empty")
)

type OrderPlacer interface {
	PlaceOrder(lines []models.CartLine, info models.CustomerInfo) models.Order
}

// Cart hands over its lines and empties itself atomically.
type Cart interface {
	TakeItems() []models.CartLine
}

// Result carries the toast to show whether or not the checkout succeeded.
type Result struct {
	Order models.Order `json:"order"`
	Toast models.Toast `json:"toast"`
}

type Service struct {
	orders   OrderPlacer
	validate *validator.Validate
	sla      time.Duration
}

func NewService(orders OrderPlacer, sla time.Duration) *Service {
	return &Service{
		orders:   orders,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		sla:      sla,
	}
}

// PlaceOrder checks customer details first and the cart second. The cart is
// emptied in the same step its lines are taken, so concurrent checkouts of
// one cart place a single order.
func (s *Service) PlaceOrder(cart Cart, info models.CustomerInfo) (Result, error) {
	info = models.CustomerInfo{
		Name:    strings.TrimSpace(info.Name),
		Phone:   strings.TrimSpace(info.Phone),
		Address: strings.TrimSpace(info.Address),
	}
	if err := s.validate.Struct(info); err != nil {
		var verrs validator.ValidationErrors
		fields := make([]string, 0, 3)
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
		}
		log.Debug().Strs("fields", fields).Msg("checkout rejected: missing customer information")
		return Result{Toast: models.Toast{
			Title:       "Missing Information",
			Description: "Please fill in all customer details.",
			Variant:     models.ToastDestructive,
		}}, fmt.Errorf("%w: %s", ErrMissingCustomerInfo, strings.Join(fields, ", "))
	}

	lines := cart.TakeItems()
	if len(lines) == 0 {
		log.Debug().Msg("checkout rejected: empty cart")
		return Result{Toast: models.Toast{
			Title:       "Empty Cart",
			Description: "Please add items to your cart before placing an order.",
			Variant:     models.ToastDestructive,
		}}, ErrEmptyCart
	}

	order := s.orders.PlaceOrder(lines, info)
	return Result{
		Order: order,
		Toast: models.Toast{
			Title: "Order Placed Successfully!",
			Description: fmt.Sprintf("Your order %s has been placed and will be delivered in %d minutes.",
				order.ID, int(s.sla.Minutes())),
			Variant: models.ToastDefault,
		},
	}, nil
}
