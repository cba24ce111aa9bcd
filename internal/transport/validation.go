package transport

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"ordering-be/internal/order"
	"ordering-be/internal/product"
	"ordering-be/internal/user"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// decimals validate as float64 so gt/gte work on prices
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("email_format", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	return v
}

func validationDetails(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fieldPath(fe)] = messageFor(fe)
	}
	return out
}

// fieldPath drops the root struct name: "OrderRequest.items[0].quantity"
// becomes "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "email_format":
		return "must be a valid email address"
	}
	return fmt.Sprintf("failed on %s", fe.Tag())
}

type UserRequest struct {
	FirstName   string       `json:"firstName" validate:"required,min=2,max=50"`
	LastName    string       `json:"lastName" validate:"required,min=2,max=50"`
	Email       string       `json:"email" validate:"required,max=100,email_format"`
	PhoneNumber *string      `json:"phoneNumber" validate:"omitempty,max=20"`
	Address     *string      `json:"address" validate:"omitempty,max=255"`
	Status      *user.Status `json:"status"`
}

func (req UserRequest) createInput() user.CreateInput {
	return user.CreateInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Status:      req.Status,
	}
}

func (req UserRequest) updateInput() user.UpdateInput {
	return user.UpdateInput{
		FirstName:   &req.FirstName,
		LastName:    &req.LastName,
		Email:       &req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Status:      req.Status,
	}
}

type ProductRequest struct {
	Name          string          `json:"name" validate:"required,min=2,max=100"`
	Description   *string         `json:"description" validate:"omitempty,max=1000"`
	Price         decimal.Decimal `json:"price" validate:"required,gt=0"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0"`
	Category      *string         `json:"category" validate:"omitempty,max=50"`
	Brand         *string         `json:"brand" validate:"omitempty,max=50"`
	ImageURL      *string         `json:"imageUrl" validate:"omitempty,max=255"`
	Status        *product.Status `json:"status"`
}

func (req ProductRequest) input() product.Input {
	return product.Input{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
		Brand:         req.Brand,
		ImageURL:      req.ImageURL,
		Status:        req.Status,
	}
}

type OrderItemRequest struct {
	ProductID int64 `json:"productId" validate:"required"`
	Quantity  int   `json:"quantity" validate:"min=1"`
}

type OrderRequest struct {
	UserID          int64              `json:"userId" validate:"required"`
	ShippingAddress *string            `json:"shippingAddress" validate:"omitempty,max=500"`
	Notes           *string            `json:"notes" validate:"omitempty,max=1000"`
	Status          *order.Status      `json:"status"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (req OrderRequest) input() order.CreateInput {
	items := make([]order.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, order.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return order.CreateInput{
		UserID:          req.UserID,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
		Status:          req.Status,
		Items:           items,
	}
}
