package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ordering-be/internal/apperr"
	"ordering-be/internal/db"
	"ordering-be/internal/logger"
	"ordering-be/internal/metrics"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type ItemRepository interface {
	CreateBatch(ctx context.Context, items []*Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Item, error)
	FindByOrderID(ctx context.Context, orderID int64) ([]*Item, error)
	FindByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]*Item, error)
	FindByProductID(ctx context.Context, productID int64) ([]*Item, error)
}

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) ItemRepository {
	return &itemRepository{db: db}
}

const itemSelect = `
	SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity,
		oi.unit_price, oi.total_price, oi.version, oi.created_at, oi.updated_at
	FROM order_items oi
	JOIN products p ON p.id = oi.product_id`

func scanItem(row rowScanner) (*Item, error) {
	var it Item
	if err := row.Scan(
		&it.ID,
		&it.OrderID,
		&it.ProductID,
		&it.ProductName,
		&it.Quantity,
		&it.UnitPrice,
		&it.TotalPrice,
		&it.Version,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepository) CreateBatch(ctx context.Context, items []*Item) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderItems"),
	)

	conn := db.Conn(ctx, r.db)
	for _, it := range items {
		err := conn.QueryRowContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, quantity, unit_price, total_price
			) VALUES ($1,$2,$3,$4,$5)
			RETURNING id, version, created_at, updated_at
		`,
			it.OrderID,
			it.ProductID,
			it.Quantity,
			it.UnitPrice,
			it.TotalPrice,
		).Scan(&it.ID, &it.Version, &it.CreatedAt, &it.UpdatedAt)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int64("order_id", it.OrderID),
				zap.Int64("product_id", it.ProductID),
				zap.Error(err),
			)
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return nil
}

func (r *itemRepository) Update(ctx context.Context, it *Item) error {
	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE order_items
		SET quantity = $1,
			unit_price = $2,
			total_price = $3,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $4 AND version = $5
		RETURNING version, updated_at
	`, it.Quantity, it.UnitPrice, it.TotalPrice, it.ID, it.Version).Scan(&it.Version, &it.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordOptimisticLockConflict("order_item")
		return apperr.OptimisticLock("OrderItem", it.ID)
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update order item",
			zap.Int64("item_id", it.ID),
			zap.Error(err),
		)
		return fmt.Errorf("update order item %d: %w", it.ID, err)
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM order_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order item %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order item %d: %w", id, err)
	}
	if n == 0 {
		return errItemNotFound(id)
	}
	return nil
}

func (r *itemRepository) FindByID(ctx context.Context, id int64) (*Item, error) {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx, itemSelect+` WHERE oi.id = $1`, id)

	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errItemNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find order item %d: %w", id, err)
	}
	return it, nil
}

func (r *itemRepository) FindByOrderID(ctx context.Context, orderID int64) ([]*Item, error) {
	return r.query(ctx, itemSelect+` WHERE oi.order_id = $1 ORDER BY oi.id ASC`, orderID)
}

// FindByOrderIDs loads the items of several orders in one round trip,
// grouped by order id.
func (r *itemRepository) FindByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]*Item, error) {
	grouped := make(map[int64][]*Item, len(orderIDs))
	if len(orderIDs) == 0 {
		return grouped, nil
	}

	items, err := r.query(ctx, itemSelect+` WHERE oi.order_id = ANY($1) ORDER BY oi.order_id, oi.id ASC`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		grouped[it.OrderID] = append(grouped[it.OrderID], it)
	}
	return grouped, nil
}

func (r *itemRepository) FindByProductID(ctx context.Context, productID int64) ([]*Item, error) {
	return r.query(ctx, itemSelect+` WHERE oi.product_id = $1 ORDER BY oi.id ASC`, productID)
}

func (r *itemRepository) query(ctx context.Context, query string, args ...any) ([]*Item, error) {
	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query order items", zap.Error(err))
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}
