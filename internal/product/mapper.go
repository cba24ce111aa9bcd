package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Response struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	Category      *string         `json:"category,omitempty"`
	Brand         *string         `json:"brand,omitempty"`
	ImageURL      *string         `json:"imageUrl,omitempty"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type StockCheckResponse struct {
	ProductID         int64 `json:"productId"`
	RequestedQuantity int   `json:"requestedQuantity"`
	AvailableQuantity int   `json:"availableQuantity"`
	InStock           bool  `json:"inStock"`
}

func ToResponse(p *Product) *Response {
	if p == nil {
		return nil
	}
	return &Response{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Category:      p.Category,
		Brand:         p.Brand,
		ImageURL:      p.ImageURL,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToResponses(products []*Product) []*Response {
	out := make([]*Response, 0, len(products))
	for _, p := range products {
		out = append(out, ToResponse(p))
	}
	return out
}

func ToStockCheckResponse(c *StockCheck) *StockCheckResponse {
	return &StockCheckResponse{
		ProductID:         c.ProductID,
		RequestedQuantity: c.RequestedQuantity,
		AvailableQuantity: c.AvailableQuantity,
		InStock:           c.InStock,
	}
}
