package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ordering-be/internal/apperr"
	"ordering-be/internal/db"
	"ordering-be/internal/logger"
	"ordering-be/internal/metrics"
	"ordering-be/internal/utils"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id int64) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	List(ctx context.Context, filter Filter, page utils.PageRequest) ([]*Order, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	FindAll(ctx context.Context, filter Filter) ([]*Order, error)
	SumRevenue(ctx context.Context, from, to time.Time, statuses []string) (decimal.Decimal, error)
	FindWithMinItems(ctx context.Context, minItems int) ([]*Order, error)
}

type repository struct {
	db    *sql.DB
	items ItemRepository
}

func NewRepository(db *sql.DB, items ItemRepository) Repository {
	return &repository{db: db, items: items}
}

const orderColumns = `
	o.id, o.order_number, o.user_id, u.first_name, u.last_name, u.email,
	o.total_amount, o.status, o.order_date, o.shipping_address, o.notes,
	o.version, o.created_at, o.updated_at`

const orderFrom = ` FROM orders o JOIN users u ON u.id = o.user_id`

var sortColumns = map[string]string{
	"id":          "o.id",
	"orderNumber": "o.order_number",
	"totalAmount": "o.total_amount",
	"status":      "o.status",
	"orderDate":   "o.order_date",
	"createdAt":   "o.created_at",
	"updatedAt":   "o.updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	if err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.Customer.FirstName,
		&o.Customer.LastName,
		&o.Customer.Email,
		&o.TotalAmount,
		&o.Status,
		&o.OrderDate,
		&o.ShippingAddress,
		&o.Notes,
		&o.Version,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrder"),
		zap.String("order_number", o.OrderNumber),
	)

	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, user_id, total_amount, status,
			order_date, shipping_address, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, version, created_at, updated_at
	`,
		o.OrderNumber,
		o.UserID,
		o.TotalAmount,
		string(o.Status),
		o.OrderDate,
		o.ShippingAddress,
		o.Notes,
	).Scan(&o.ID, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// Update writes the mutable header fields of o, guarded by o.Version.
func (r *repository) Update(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateOrder"),
		zap.Int64("order_id", o.ID),
		zap.Int("version", o.Version),
	)

	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE orders
		SET status = $1,
			total_amount = $2,
			shipping_address = $3,
			notes = $4,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $5 AND version = $6
		RETURNING version, updated_at
	`,
		string(o.Status),
		o.TotalAmount,
		o.ShippingAddress,
		o.Notes,
		o.ID,
		o.Version,
	).Scan(&o.Version, &o.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordOptimisticLockConflict("order")
		log.Warn("stale order version")
		return apperr.OptimisticLock("Order", o.ID)
	}
	if err != nil {
		log.Error("failed to update order", zap.Error(err))
		return fmt.Errorf("update order %d: %w", o.ID, err)
	}

	return nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Order, error) {
	return r.findOne(ctx, " WHERE o.id = $1", "id", id)
}

func (r *repository) FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return r.findOne(ctx, " WHERE o.order_number = $1", "orderNumber", orderNumber)
}

func (r *repository) findOne(ctx context.Context, where, field string, value any) (*Order, error) {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+orderColumns+orderFrom+where, value)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errOrderNotFound(field, value)
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load order",
			zap.String("field", field),
			zap.Any("value", value),
			zap.Error(err),
		)
		return nil, fmt.Errorf("find order by %s: %w", field, err)
	}

	o.Items, err = r.items.FindByOrderID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func buildWhere(f Filter) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}
	argIndex := 1

	if f.UserID != nil {
		where += fmt.Sprintf(" AND o.user_id = $%d", argIndex)
		args = append(args, *f.UserID)
		argIndex++
	}
	if f.Status != nil {
		where += fmt.Sprintf(" AND o.status = $%d", argIndex)
		args = append(args, string(*f.Status))
		argIndex++
	}
	if f.From != nil {
		where += fmt.Sprintf(" AND o.order_date >= $%d", argIndex)
		args = append(args, *f.From)
		argIndex++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND o.order_date <= $%d", argIndex)
		args = append(args, *f.To)
	}

	return where, args
}

func (r *repository) List(ctx context.Context, filter Filter, page utils.PageRequest) ([]*Order, error) {
	where, args := buildWhere(filter)

	query := `SELECT ` + orderColumns + orderFrom + where +
		" ORDER BY " + page.OrderBy(sortColumns, "o.order_date DESC") + ", o.id DESC" +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	return r.query(ctx, "ListOrders", query, args...)
}

func (r *repository) Count(ctx context.Context, filter Filter) (int64, error) {
	where, args := buildWhere(filter)

	var total int64
	if err := db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders o`+where, args...).Scan(&total); err != nil {
		logger.FromCtx(ctx).Error("failed to count orders", zap.Error(err))
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

// FindAll returns every order matching filter, newest first.
func (r *repository) FindAll(ctx context.Context, filter Filter) ([]*Order, error) {
	where, args := buildWhere(filter)
	query := `SELECT ` + orderColumns + orderFrom + where + " ORDER BY o.order_date DESC, o.id DESC"
	return r.query(ctx, "FindAllOrders", query, args...)
}

func (r *repository) SumRevenue(ctx context.Context, from, to time.Time, statuses []string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT COALESCE(SUM(o.total_amount), 0)
		FROM orders o
		WHERE o.order_date BETWEEN $1 AND $2
			AND o.status = ANY($3)
	`, from, to, pq.Array(statuses)).Scan(&total)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to sum revenue", zap.Error(err))
		return decimal.Zero, fmt.Errorf("sum revenue: %w", err)
	}
	return total, nil
}

func (r *repository) FindWithMinItems(ctx context.Context, minItems int) ([]*Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + `
		JOIN order_items oi ON oi.order_id = o.id
		GROUP BY o.id, u.id
		HAVING COUNT(oi.id) >= $1
		ORDER BY COUNT(oi.id) DESC, o.id ASC`
	return r.query(ctx, "FindWithMinItems", query, minItems)
}

func (r *repository) query(ctx context.Context, method, query string, args ...any) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", method),
	)

	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []*Order{}
	ids := []int64{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	rows.Close()

	return r.attachItems(ctx, orders, ids)
}

func (r *repository) attachItems(ctx context.Context, orders []*Order, ids []int64) ([]*Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}

	grouped, err := r.items.FindByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = grouped[o.ID]
		if o.Items == nil {
			o.Items = []*Item{}
		}
	}
	return orders, nil
}
