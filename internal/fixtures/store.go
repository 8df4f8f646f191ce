// Package fixtures holds sample shapes shared by tests: store entities on
// one side and the warehouse DTOs they are mapped to on the other.
package fixtures

import "time"

// OrderStatus is a string enum.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusCancelled:
		return true
	default:
		return false
	}
}

// Address is a postal address.
type Address struct {
	Street  string
	City    string
	Country string
}

// Customer places orders.
type Customer struct {
	ID       int64
	Email    string
	FullName string
	Address  *Address
	IsActive bool
}

// OrderItem is one product line of an order. UnitPrice is in cents.
type OrderItem struct {
	ProductID int64
	Name      string
	Quantity  int32
	UnitPrice int64
}

// Order is a purchase.
type Order struct {
	ID         int64
	Customer   *Customer
	Status     OrderStatus
	TotalCents int64
	Items      []OrderItem
	OrderedAt  time.Time
	Note       *string
	Internal   string `mapper:"-"`
}
