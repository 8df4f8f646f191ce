package fixtures

import "time"

// AddressDTO is the warehouse view of an address.
type AddressDTO struct {
	Street  string
	City    string
	Country string
}

// CustomerDTO is the warehouse view of a customer.
type CustomerDTO struct {
	ID       int64
	Email    string
	FullName string
	Address  *AddressDTO
	IsActive bool
}

// OrderItemDTO is the warehouse view of an order line.
type OrderItemDTO struct {
	ProductID int64
	Name      string
	Quantity  int64
	UnitPrice int64
}

// OrderDTO is the flattened warehouse view of an order.
type OrderDTO struct {
	ID                  int64
	CustomerFullName    string
	CustomerEmail       string
	CustomerAddressCity string
	Status              string
	TotalCents          int64
	Items               []OrderItemDTO
	OrderedAt           time.Time
	Note                string
	Internal            string
	notes               []string
}

// Notes returns the unexported notes so the field is in use.
func (o *OrderDTO) Notes() []string { return o.notes }

// SampleOrder returns a fully populated order.
func SampleOrder() Order {
	note := "leave at the door"

	return Order{
		ID: 42,
		Customer: &Customer{
			ID:       7,
			Email:    "ada@example.com",
			FullName: "Ada Lovelace",
			Address:  &Address{Street: "12 Analytical St", City: "London", Country: "UK"},
			IsActive: true,
		},
		Status:     StatusPaid,
		TotalCents: 2599,
		Items: []OrderItem{
			{ProductID: 1, Name: "Gear", Quantity: 2, UnitPrice: 1000},
			{ProductID: 2, Name: "Crank", Quantity: 1, UnitPrice: 599},
		},
		OrderedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Note:      &note,
		Internal:  "secret",
	}
}
