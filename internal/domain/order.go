package domain

import (
	"fmt"
	"strings"
	"time"
)

// DeliveryCities are the cities the storefront service accepts for delivery.
var DeliveryCities = []string{
	"Минск", "Брест", "Витебск", "Гомель", "Гродно", "Могилев",
}

// DeliverySlots are the two-hour delivery windows the service accepts.
var DeliverySlots = []string{
	"9:00-11:00", "11:00-13:00", "13:00-15:00",
	"15:00-17:00", "17:00-19:00", "19:00-21:00",
}

// OrderItem is the cart line snapshot submitted with an order.
type OrderItem struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Order is a checkout form plus the cart snapshot it covers.
type Order struct {
	FullName        string      `json:"full_name"`
	Phone           string      `json:"phone"`
	City            string      `json:"city"`
	DeliveryAddress string      `json:"delivery_address"`
	DeliveryDate    string      `json:"delivery_date"` // YYYY-MM-DD
	DeliveryTime    string      `json:"delivery_time"`
	Items           []OrderItem `json:"cart_items"`
	TotalPrice      float64     `json:"total_price"`
}

// Validate checks the form fields against the service's accepted choices
// before the order is submitted.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.FullName) == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalidOrder)
	}
	if strings.TrimSpace(o.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidOrder)
	}
	if strings.TrimSpace(o.DeliveryAddress) == "" {
		return fmt.Errorf("%w: delivery address is required", ErrInvalidOrder)
	}
	if !contains(DeliveryCities, o.City) {
		return fmt.Errorf("%w: unknown delivery city %q", ErrInvalidOrder, o.City)
	}
	if !contains(DeliverySlots, o.DeliveryTime) {
		return fmt.Errorf("%w: unknown delivery time slot %q", ErrInvalidOrder, o.DeliveryTime)
	}
	if _, err := time.Parse("2006-01-02", o.DeliveryDate); err != nil {
		return fmt.Errorf("%w: delivery date must be YYYY-MM-DD, got %q", ErrInvalidOrder, o.DeliveryDate)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrInvalidOrder)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
