// Package types defines the entities stored by the food order contract,
// the arguments of its commands and the domain errors it returns.
package types

import "fmt"

// Profile is the record of a marketplace participant. A given identity owns
// at most one profile of each kind at a time.
type Profile struct {
	ID      uint64 `json:"id"`
	Account string `json:"account"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone_number"`
}

// Courier is the profile of a courier.
type Courier = Profile

// Customer is the profile of a customer.
type Customer = Profile

// Restaurant is the profile of a restaurant.
type Restaurant = Profile

// Food is a listing posted by a restaurant. The price is expressed in the
// smallest currency unit and the eta is the preparation time in minutes.
type Food struct {
	ID           uint64 `json:"food_id"`
	RestaurantID uint64 `json:"restaurant_id"`
	Name         string `json:"food_name"`
	Description  string `json:"description"`
	Price        uint64 `json:"price"`
	Eta          uint64 `json:"eta"`
}

// OrderStatus is the state of an order in the workflow. Transitions are
// strictly monotonic.
type OrderStatus uint8

// The order workflow states, in order.
const (
	OrderSubmitted OrderStatus = iota
	OrderConfirmed
	OrderCooked
	OrderPickedUp
	OrderDelivered
	OrderAccepted
)

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	switch s {
	case OrderSubmitted:
		return "submitted"
	case OrderConfirmed:
		return "confirmed"
	case OrderCooked:
		return "cooked"
	case OrderPickedUp:
		return "pickedup"
	case OrderDelivered:
		return "delivered"
	case OrderAccepted:
		return "accepted"
	default:
		return fmt.Sprintf("unknown (%d)", uint8(s))
	}
}

// DeliveryStatus is the state of a delivery.
type DeliveryStatus uint8

// The delivery states, in order.
const (
	DeliveryWaiting DeliveryStatus = iota
	DeliveryPickedUp
	DeliveryDelivered
	DeliveryAccepted
)

// String implements fmt.Stringer.
func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryWaiting:
		return "waiting"
	case DeliveryPickedUp:
		return "pickedup"
	case DeliveryDelivered:
		return "delivered"
	case DeliveryAccepted:
		return "accepted"
	default:
		return fmt.Sprintf("unknown (%d)", uint8(s))
	}
}

// Order is a purchase in progress. Price and Fee are captured when the
// order is submitted and are never recomputed; Tip is the value attached
// beyond the required amount, escrowed for the courier.
type Order struct {
	ID              uint64      `json:"order_id"`
	FoodID          uint64      `json:"food_id"`
	RestaurantID    uint64      `json:"restaurant_id"`
	CustomerID      uint64      `json:"customer_id"`
	CourierID       uint64      `json:"courier_id"`
	DeliveryID      uint64      `json:"delivery_id"`
	DeliveryAddress string      `json:"delivery_address"`
	Status          OrderStatus `json:"status"`
	Price           uint64      `json:"price"`
	Fee             uint64      `json:"fee"`
	Tip             uint64      `json:"tip"`
	Eta             uint64      `json:"eta"`
}

// Delivery is the hand-off of a cooked order to a courier.
type Delivery struct {
	ID              uint64         `json:"delivery_id"`
	OrderID         uint64         `json:"order_id"`
	RestaurantID    uint64         `json:"restaurant_id"`
	CustomerID      uint64         `json:"customer_id"`
	CourierID       uint64         `json:"courier_id"`
	DeliveryAddress string         `json:"delivery_address"`
	Status          DeliveryStatus `json:"status"`
}
