package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemResponse struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"orderId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

type Response struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          int64           `json:"userId"`
	UserFullName    string          `json:"userFullName"`
	UserEmail       string          `json:"userEmail"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          Status          `json:"status"`
	OrderDate       time.Time       `json:"orderDate"`
	ShippingAddress *string         `json:"shippingAddress,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	Items           []*ItemResponse `json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func ToItemResponse(it *Item) *ItemResponse {
	return &ItemResponse{
		ID:          it.ID,
		OrderID:     it.OrderID,
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		TotalPrice:  it.TotalPrice,
	}
}

func ToItemResponses(items []*Item) []*ItemResponse {
	out := make([]*ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ToItemResponse(it))
	}
	return out
}

func ToResponse(o *Order) *Response {
	if o == nil {
		return nil
	}

	return &Response{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		UserFullName:    o.Customer.FullName(),
		UserEmail:       o.Customer.Email,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		OrderDate:       o.OrderDate,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		Items:           ToItemResponses(o.Items),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func ToResponses(orders []*Order) []*Response {
	out := make([]*Response, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToResponse(o))
	}
	return out
}
