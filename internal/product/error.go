package product

import (
	"errors"

	"ordering-be/internal/apperr"
)

var (
	ErrNegativeStock     = errors.New("negative stock")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInvalidPriceRange = errors.New("invalid price range")
)

func errProductNotFound(id int64) error {
	return apperr.NotFound("Product", "id", id)
}

func errNegativeStock() error {
	return apperr.BusinessWrap(ErrNegativeStock, "Stock quantity cannot be negative")
}
