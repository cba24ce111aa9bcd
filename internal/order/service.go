package order

import (
	"context"
	"time"

	"ordering-be/internal/apperr"
	"ordering-be/internal/db"
	"ordering-be/internal/logger"
	"ordering-be/internal/metrics"
	"ordering-be/internal/product"
	"ordering-be/internal/user"
	"ordering-be/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultMinItems = 2

// revenueStatuses are the order states counted as recognized revenue.
var revenueStatuses = []string{string(StatusDelivered), string(StatusConfirmed)}

// ProductCatalog is the slice of the product service the order engine
// depends on. WriteStock must be given a product read in the same
// transaction.
type ProductCatalog interface {
	GetByID(ctx context.Context, id int64) (*product.Product, error)
	IsInStock(ctx context.Context, id int64, quantity int) (bool, error)
	WriteStock(ctx context.Context, p *product.Product, quantity int) error
}

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type Service interface {
	CreateOrder(ctx context.Context, input CreateInput) (*Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status Status) (*Order, error)
	CancelOrder(ctx context.Context, id int64) (*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	List(ctx context.Context, page utils.PageRequest) (*utils.Page[*Order], error)
	ListByUser(ctx context.Context, userID int64, page utils.PageRequest) (*utils.Page[*Order], error)
	ListByStatus(ctx context.Context, status Status, page utils.PageRequest) (*utils.Page[*Order], error)
	ListByDateRange(ctx context.Context, from, to time.Time, status *Status) ([]*Order, error)
	Revenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	WithMinItems(ctx context.Context, minItems int) ([]*Order, error)
}

type service struct {
	repo           Repository
	items          ItemService
	catalog        ProductCatalog
	users          UserDirectory
	tx             db.TxManager
	newOrderNumber func() string
	now            func() time.Time
}

func NewService(repo Repository, items ItemService, catalog ProductCatalog, users UserDirectory, tx db.TxManager) Service {
	return &service{
		repo:           repo,
		items:          items,
		catalog:        catalog,
		users:          users,
		tx:             tx,
		newOrderNumber: utils.GenerateOrderNumber,
		now:            time.Now,
	}
}

func validateCreate(in CreateInput) error {
	if in.UserID <= 0 {
		return apperr.BusinessWrap(ErrInvalidOrder, "Order must belong to a user")
	}
	if len(in.Items) == 0 {
		return apperr.BusinessWrap(ErrInvalidOrder, "Order must contain at least one item")
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return errInvalidItem("Quantity must be greater than 0")
		}
	}
	if in.Status != nil && !in.Status.IsValid() {
		return errUnknownStatus(*in.Status)
	}
	return nil
}

// CreateOrder places an order for in.UserID. Every line is checked against
// stock before anything is written; any failure rolls back the whole order
// including the stock already taken.
func (s *service) CreateOrder(ctx context.Context, in CreateInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Int64("user_id", in.UserID),
		zap.Int("lines", len(in.Items)),
	)

	if err := validateCreate(in); err != nil {
		log.Warn("invalid order input", zap.Error(err))
		return nil, err
	}

	var created *Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// 1. Owner
		u, err := s.users.GetByID(ctx, in.UserID)
		if err != nil {
			return err
		}

		// 2. All-or-nothing availability check
		for _, it := range in.Items {
			ok, err := s.catalog.IsInStock(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				p, err := s.catalog.GetByID(ctx, it.ProductID)
				if err != nil {
					return err
				}
				return errNotAvailable(p.Name, p.StockQuantity, it.Quantity)
			}
		}

		o := &Order{
			OrderNumber:     s.newOrderNumber(),
			UserID:          u.ID,
			Customer:        Customer{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email},
			Status:          StatusPending,
			OrderDate:       s.now(),
			ShippingAddress: in.ShippingAddress,
			Notes:           in.Notes,
		}
		if in.Status != nil {
			o.Status = *in.Status
		}

		// 3. Price snapshot and stock decrement
		items := make([]*Item, 0, len(in.Items))
		for _, it := range in.Items {
			p, err := s.catalog.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if !p.InStock(it.Quantity) {
				return errInsufficientStock(p.Name)
			}

			item := &Item{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    it.Quantity,
				UnitPrice:   p.Price,
			}
			item.recompute()
			items = append(items, item)

			if err := s.catalog.WriteStock(ctx, p, p.StockQuantity-it.Quantity); err != nil {
				return err
			}
		}
		o.TotalAmount = sumItems(items)

		// 4. Header, then lines
		if err := s.repo.Create(ctx, o); err != nil {
			return err
		}
		if err := s.items.CreateItems(ctx, o.ID, items); err != nil {
			return err
		}
		o.Items = items

		created = o
		return nil
	})
	if err != nil {
		log.Warn("create order failed", zap.Error(err))
		return nil, err
	}

	metrics.RecordOrderCreated()
	log.Info("order created",
		zap.Int64("order_id", created.ID),
		zap.String("order_number", created.OrderNumber),
		zap.String("total", created.TotalAmount.StringFixed(2)),
	)
	return created, nil
}

// UpdateOrderStatus moves the order along the status graph. It never touches
// stock, including when the target is CANCELLED.
func (s *service) UpdateOrderStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.Int64("order_id", id),
		zap.String("status", string(status)),
	)

	if !status.IsValid() {
		return nil, errUnknownStatus(status)
	}

	var (
		updated *Order
		from    Status
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkTransition(o.Status, status); err != nil {
			return err
		}

		from = o.Status
		o.Status = status
		if err := s.repo.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		log.Warn("update order status failed", zap.Error(err))
		return nil, err
	}

	metrics.RecordStatusTransition(string(from), string(status))
	log.Info("order status changed", zap.String("from", string(from)))
	return updated, nil
}

// CancelOrder cancels the order and returns every line's quantity to stock.
func (s *service) CancelOrder(ctx context.Context, id int64) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CancelOrder"),
		zap.Int64("order_id", id),
	)

	var (
		cancelled *Order
		from      Status
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		switch o.Status {
		case StatusDelivered:
			return apperr.BusinessWrap(ErrNotCancellable, "Cannot cancel a delivered order")
		case StatusCancelled:
			return apperr.BusinessWrap(ErrNotCancellable, "Order is already cancelled")
		}
		if err := checkTransition(o.Status, StatusCancelled); err != nil {
			return err
		}

		for _, it := range o.Items {
			p, err := s.catalog.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if err := s.catalog.WriteStock(ctx, p, p.StockQuantity+it.Quantity); err != nil {
				return err
			}
		}

		from = o.Status
		o.Status = StatusCancelled
		if err := s.repo.Update(ctx, o); err != nil {
			return err
		}
		cancelled = o
		return nil
	})
	if err != nil {
		log.Warn("cancel order failed", zap.Error(err))
		return nil, err
	}

	metrics.RecordOrderCancelled()
	metrics.RecordStatusTransition(string(from), string(StatusCancelled))
	log.Info("order cancelled", zap.Int("restored_lines", len(cancelled.Items)))
	return cancelled, nil
}

// GetByID and GetByOrderNumber read the header and its items in one
// read-only transaction so the total always matches the returned items.
func (s *service) GetByID(ctx context.Context, id int64) (*Order, error) {
	var o *Order
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.repo.FindByID(ctx, id)
		return err
	})
	return o, err
}

func (s *service) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	var o *Order
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.repo.FindByOrderNumber(ctx, orderNumber)
		return err
	})
	return o, err
}

func (s *service) List(ctx context.Context, page utils.PageRequest) (*utils.Page[*Order], error) {
	return s.page(ctx, Filter{}, page)
}

func (s *service) ListByUser(ctx context.Context, userID int64, page utils.PageRequest) (*utils.Page[*Order], error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.page(ctx, Filter{UserID: &userID}, page)
}

func (s *service) ListByStatus(ctx context.Context, status Status, page utils.PageRequest) (*utils.Page[*Order], error) {
	if !status.IsValid() {
		return nil, errUnknownStatus(status)
	}
	return s.page(ctx, Filter{Status: &status}, page)
}

func (s *service) page(ctx context.Context, filter Filter, page utils.PageRequest) (*utils.Page[*Order], error) {
	page = page.Normalize()

	var (
		orders []*Order
		total  int64
	)
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		if orders, err = s.repo.List(ctx, filter, page); err != nil {
			return err
		}
		total, err = s.repo.Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	return utils.NewPage(orders, total, page), nil
}

func validateRange(from, to time.Time) error {
	if from.After(to) {
		return apperr.BusinessWrap(ErrInvalidOrder, "Start date must be before end date")
	}
	return nil
}

func (s *service) ListByDateRange(ctx context.Context, from, to time.Time, status *Status) ([]*Order, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	if status != nil && !status.IsValid() {
		return nil, errUnknownStatus(*status)
	}

	var orders []*Order
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		orders, err = s.repo.FindAll(ctx, Filter{From: &from, To: &to, Status: status})
		return err
	})
	return orders, err
}

// Revenue sums the totals of DELIVERED and CONFIRMED orders placed between
// from and to inclusive.
func (s *service) Revenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	if err := validateRange(from, to); err != nil {
		return decimal.Zero, err
	}
	return s.repo.SumRevenue(ctx, from, to, revenueStatuses)
}

func (s *service) WithMinItems(ctx context.Context, minItems int) ([]*Order, error) {
	if minItems == 0 {
		minItems = DefaultMinItems
	}
	if minItems < 1 {
		return nil, apperr.BusinessWrap(ErrInvalidOrder, "Minimum item count must be at least 1")
	}

	var orders []*Order
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		orders, err = s.repo.FindWithMinItems(ctx, minItems)
		return err
	})
	return orders, err
}
