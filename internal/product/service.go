package product

import (
	"context"
	"strings"

	"ordering-be/internal/apperr"
	"ordering-be/internal/db"
	"ordering-be/internal/logger"
	"ordering-be/internal/metrics"
	"ordering-be/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultLowStockThreshold = 10

type Service interface {
	Create(ctx context.Context, input Input) (*Product, error)
	Update(ctx context.Context, id int64, input Input) (*Product, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, page utils.PageRequest) (*utils.Page[*Product], error)
	ListByStatus(ctx context.Context, status Status, page utils.PageRequest) (*utils.Page[*Product], error)
	ListByCategory(ctx context.Context, category string, page utils.PageRequest) (*utils.Page[*Product], error)
	SearchByName(ctx context.Context, name string) ([]*Product, error)
	ListByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]*Product, error)
	ListLowStock(ctx context.Context) ([]*Product, error)
	UpdateStock(ctx context.Context, id int64, quantity int) (*Product, error)
	WriteStock(ctx context.Context, p *Product, quantity int) error
	IsInStock(ctx context.Context, id int64, quantity int) (bool, error)
	CheckStock(ctx context.Context, id int64, quantity int) (*StockCheck, error)
}

type service struct {
	repo              Repository
	tx                db.TxManager
	lowStockThreshold int
}

func NewService(repo Repository, tx db.TxManager, lowStockThreshold int) Service {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &service{repo: repo, tx: tx, lowStockThreshold: lowStockThreshold}
}

func validateInput(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.BusinessWrap(ErrInvalidProduct, "Product name is required")
	}
	if !in.Price.IsPositive() {
		return apperr.BusinessWrap(ErrInvalidProduct, "Price must be greater than 0")
	}
	if in.StockQuantity < 0 {
		return errNegativeStock()
	}
	if in.Status != nil && !in.Status.IsValid() {
		return apperr.BusinessWrap(ErrInvalidProduct, "Invalid product status: %s", *in.Status)
	}
	return nil
}

func apply(p *Product, in Input) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price.Round(2)
	p.StockQuantity = in.StockQuantity
	p.Category = in.Category
	p.Brand = in.Brand
	p.ImageURL = in.ImageURL
	if in.Status != nil {
		p.Status = *in.Status
	}
}

func (s *service) Create(ctx context.Context, input Input) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
		zap.String("name", input.Name),
	)

	if err := validateInput(input); err != nil {
		log.Warn("invalid product input", zap.Error(err))
		return nil, err
	}

	p := &Product{Status: StatusActive}
	apply(p, input)

	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, p)
	}); err != nil {
		return nil, err
	}

	log.Info("product created", zap.Int64("product_id", p.ID))
	return p, nil
}

func (s *service) Update(ctx context.Context, id int64, input Input) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProduct"),
		zap.Int64("product_id", id),
	)

	if err := validateInput(input); err != nil {
		log.Warn("invalid product input", zap.Error(err))
		return nil, err
	}

	var updated *Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		apply(p, input)
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		log.Warn("update product failed", zap.Error(err))
		return nil, err
	}

	log.Info("product updated", zap.Int("version", updated.Version))
	return updated, nil
}

// Delete discontinues the product. Rows are never removed because order
// items keep referencing them.
func (s *service) Delete(ctx context.Context, id int64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteProduct"),
		zap.Int64("product_id", id),
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		p.Status = StatusDiscontinued
		return s.repo.Update(ctx, p)
	})
	if err != nil {
		log.Warn("delete product failed", zap.Error(err))
		return err
	}

	log.Info("product discontinued")
	return nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, page utils.PageRequest) (*utils.Page[*Product], error) {
	return s.page(ctx, Filter{}, page)
}

func (s *service) ListByStatus(ctx context.Context, status Status, page utils.PageRequest) (*utils.Page[*Product], error) {
	if !status.IsValid() {
		return nil, apperr.BusinessWrap(ErrInvalidProduct, "Invalid product status: %s", status)
	}
	return s.page(ctx, Filter{Status: &status}, page)
}

func (s *service) ListByCategory(ctx context.Context, category string, page utils.PageRequest) (*utils.Page[*Product], error) {
	return s.page(ctx, Filter{Category: &category}, page)
}

func (s *service) page(ctx context.Context, filter Filter, page utils.PageRequest) (*utils.Page[*Product], error) {
	page = page.Normalize()

	var (
		items []*Product
		total int64
	)
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		if items, err = s.repo.List(ctx, filter, page); err != nil {
			return err
		}
		total, err = s.repo.Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	return utils.NewPage(items, total, page), nil
}

func (s *service) SearchByName(ctx context.Context, name string) ([]*Product, error) {
	name = strings.TrimSpace(name)
	return s.repo.FindAll(ctx, Filter{Name: &name}, "p.name ASC")
}

func (s *service) ListByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]*Product, error) {
	if minPrice.IsNegative() || maxPrice.IsNegative() {
		return nil, apperr.BusinessWrap(ErrInvalidPriceRange, "Price range cannot be negative")
	}
	if minPrice.GreaterThan(maxPrice) {
		return nil, apperr.BusinessWrap(ErrInvalidPriceRange,
			"Minimum price %s cannot be greater than maximum price %s", minPrice.StringFixed(2), maxPrice.StringFixed(2))
	}
	return s.repo.FindAll(ctx, Filter{MinPrice: &minPrice, MaxPrice: &maxPrice}, "p.price ASC")
}

func (s *service) ListLowStock(ctx context.Context) ([]*Product, error) {
	threshold := s.lowStockThreshold
	return s.repo.FindAll(ctx, Filter{MaxStock: &threshold}, "p.stock_quantity ASC")
}

// UpdateStock loads the product and writes an absolute stock quantity.
func (s *service) UpdateStock(ctx context.Context, id int64, quantity int) (*Product, error) {
	var updated *Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.WriteStock(ctx, p, quantity); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// WriteStock stores quantity as the new absolute stock of p, guarded by the
// version p was read at. Callers computing a delta must have read p inside
// the same transaction; a concurrent writer surfaces as an optimistic lock
// conflict.
func (s *service) WriteStock(ctx context.Context, p *Product, quantity int) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "WriteStock"),
		zap.Int64("product_id", p.ID),
		zap.Int("quantity", quantity),
	)

	if quantity < 0 {
		log.Warn("negative stock rejected")
		return errNegativeStock()
	}

	previous := p.StockQuantity
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p.StockQuantity = quantity
		return s.repo.UpdateStock(ctx, p)
	})
	if err != nil {
		p.StockQuantity = previous
		log.Warn("update stock failed", zap.Error(err))
		return err
	}

	log.Debug("stock written", zap.Int("previous", previous))
	db.AfterCommit(ctx, metrics.RecordStockUpdate)
	return nil
}

func (s *service) IsInStock(ctx context.Context, id int64, quantity int) (bool, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return p.InStock(quantity), nil
}

func (s *service) CheckStock(ctx context.Context, id int64, quantity int) (*StockCheck, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StockCheck{
		ProductID:         p.ID,
		RequestedQuantity: quantity,
		AvailableQuantity: p.StockQuantity,
		InStock:           p.InStock(quantity),
	}, nil
}
