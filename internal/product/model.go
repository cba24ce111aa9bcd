package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusInactive     Status = "INACTIVE"
	StatusOutOfStock   Status = "OUT_OF_STOCK"
	StatusDiscontinued Status = "DISCONTINUED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOutOfStock, StatusDiscontinued:
		return true
	}
	return false
}

type Product struct {
	ID            int64
	Name          string
	Description   *string
	Price         decimal.Decimal
	StockQuantity int
	Category      *string
	Brand         *string
	ImageURL      *string
	Status        Status
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InStock reports whether qty units can be sold. Only ACTIVE products are
// ever in stock.
func (p *Product) InStock(qty int) bool {
	return p.Status == StatusActive && p.StockQuantity >= qty
}

// Input carries the mutable fields of a product for create and full update.
type Input struct {
	Name          string
	Description   *string
	Price         decimal.Decimal
	StockQuantity int
	Category      *string
	Brand         *string
	ImageURL      *string
	Status        *Status
}

// Filter narrows product queries. Nil fields are ignored.
type Filter struct {
	Status   *Status
	Category *string
	Name     *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	MaxStock *int
}

type StockCheck struct {
	ProductID         int64
	RequestedQuantity int
	AvailableQuantity int
	InStock           bool
}
