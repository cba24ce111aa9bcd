package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
	StatusRefunded   Status = "REFUNDED"
)

// Customer is the owning user's contact data as joined at read time.
type Customer struct {
	FirstName string
	LastName  string
	Email     string
}

func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

type Order struct {
	ID              int64
	OrderNumber     string
	UserID          int64
	Customer        Customer
	TotalAmount     decimal.Decimal
	Status          Status
	OrderDate       time.Time
	ShippingAddress *string
	Notes           *string
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []*Item
}

// Item is one order line. UnitPrice is the product price when the order was
// placed; TotalPrice is always UnitPrice times Quantity.
type Item struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (i *Item) recompute() {
	i.TotalPrice = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type ItemInput struct {
	ProductID int64
	Quantity  int
}

type CreateInput struct {
	UserID          int64
	ShippingAddress *string
	Notes           *string
	Status          *Status
	Items           []ItemInput
}

// Filter narrows order queries. Nil fields are ignored; From and To bound
// order_date inclusively.
type Filter struct {
	UserID *int64
	Status *Status
	From   *time.Time
	To     *time.Time
}

func sumItems(items []*Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	return total
}
