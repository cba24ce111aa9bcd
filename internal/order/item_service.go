package order

import (
	"context"

	"ordering-be/internal/apperr"
	"ordering-be/internal/db"
	"ordering-be/internal/logger"

	"go.uber.org/zap"
)

type ItemService interface {
	CreateItems(ctx context.Context, orderID int64, items []*Item) error
	ListByOrder(ctx context.Context, orderID int64) ([]*Item, error)
	ListByProduct(ctx context.Context, productID int64) ([]*Item, error)
	UpdateItem(ctx context.Context, itemID int64, quantity int) (*Item, error)
	DeleteItem(ctx context.Context, itemID int64) error
}

type itemService struct {
	items   ItemRepository
	orders  Repository
	catalog ProductCatalog
	tx      db.TxManager
}

func NewItemService(items ItemRepository, orders Repository, catalog ProductCatalog, tx db.TxManager) ItemService {
	return &itemService{items: items, orders: orders, catalog: catalog, tx: tx}
}

func validateItem(it *Item) error {
	switch {
	case it.Quantity <= 0:
		return errInvalidItem("Order item quantity must be greater than 0")
	case !it.UnitPrice.IsPositive():
		return errInvalidItem("Order item unit price must be greater than 0")
	case it.ProductID <= 0:
		return errInvalidItem("Order item must have a product")
	case it.OrderID <= 0:
		return errInvalidItem("Order item must be associated with an order")
	}
	return nil
}

// CreateItems validates the whole batch before writing any of it.
func (s *itemService) CreateItems(ctx context.Context, orderID int64, items []*Item) error {
	for _, it := range items {
		it.OrderID = orderID
		if err := validateItem(it); err != nil {
			return err
		}
		it.recompute()
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.items.CreateBatch(ctx, items)
	})
}

func (s *itemService) ListByOrder(ctx context.Context, orderID int64) ([]*Item, error) {
	var items []*Item
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		items = o.Items
		return nil
	})
	return items, err
}

func (s *itemService) ListByProduct(ctx context.Context, productID int64) ([]*Item, error) {
	return s.items.FindByProductID(ctx, productID)
}

// UpdateItem changes the quantity of a line, moving the difference in or
// out of product stock and refreshing the order total.
func (s *itemService) UpdateItem(ctx context.Context, itemID int64, quantity int) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderItem"),
		zap.Int64("item_id", itemID),
		zap.Int("quantity", quantity),
	)

	if quantity <= 0 {
		return nil, errInvalidItem("Quantity must be greater than 0")
	}

	var updated *Item
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		item, o, err := s.loadEditable(ctx, itemID)
		if err != nil {
			return err
		}

		p, err := s.catalog.GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}

		delta := quantity - item.Quantity
		if delta > 0 && p.StockQuantity < delta {
			return errInsufficientStock(p.Name)
		}
		if delta != 0 {
			if err := s.catalog.WriteStock(ctx, p, p.StockQuantity-delta); err != nil {
				return err
			}
		}

		item.Quantity = quantity
		item.recompute()
		if err := s.items.Update(ctx, item); err != nil {
			return err
		}

		replaceItem(o, item)
		if err := s.refreshTotal(ctx, o); err != nil {
			return err
		}

		updated = item
		return nil
	})
	if err != nil {
		log.Warn("update order item failed", zap.Error(err))
		return nil, err
	}

	log.Info("order item updated")
	return updated, nil
}

// DeleteItem returns the line's quantity to stock and removes it. The last
// line of an order cannot be removed; the order has to be cancelled instead.
func (s *itemService) DeleteItem(ctx context.Context, itemID int64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteOrderItem"),
		zap.Int64("item_id", itemID),
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		item, o, err := s.loadEditable(ctx, itemID)
		if err != nil {
			return err
		}
		if len(o.Items) <= 1 {
			return apperr.BusinessWrap(ErrInvalidItem,
				"Cannot delete the only item of order %s, cancel the order instead", o.OrderNumber)
		}

		p, err := s.catalog.GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if err := s.catalog.WriteStock(ctx, p, p.StockQuantity+item.Quantity); err != nil {
			return err
		}

		if err := s.items.Delete(ctx, item.ID); err != nil {
			return err
		}

		removeItem(o, item.ID)
		return s.refreshTotal(ctx, o)
	})
	if err != nil {
		log.Warn("delete order item failed", zap.Error(err))
		return err
	}

	log.Info("order item deleted")
	return nil
}

func (s *itemService) loadEditable(ctx context.Context, itemID int64) (*Item, *Order, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	o, err := s.orders.FindByID(ctx, item.OrderID)
	if err != nil {
		return nil, nil, err
	}
	if !o.Status.itemsEditable() {
		return nil, nil, apperr.BusinessWrap(ErrItemsLocked,
			"Items of order %s cannot be changed in status %s", o.OrderNumber, o.Status)
	}
	return item, o, nil
}

func (s *itemService) refreshTotal(ctx context.Context, o *Order) error {
	o.TotalAmount = sumItems(o.Items)
	return s.orders.Update(ctx, o)
}

func replaceItem(o *Order, item *Item) {
	for i, it := range o.Items {
		if it.ID == item.ID {
			o.Items[i] = item
			return
		}
	}
}

func removeItem(o *Order, itemID int64) {
	kept := o.Items[:0]
	for _, it := range o.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	o.Items = kept
}
