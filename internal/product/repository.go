package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ordering-be/internal/apperr"
	"ordering-be/internal/db"
	"ordering-be/internal/logger"
	"ordering-be/internal/metrics"
	"ordering-be/internal/utils"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	UpdateStock(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, filter Filter, page utils.PageRequest) ([]*Product, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	FindAll(ctx context.Context, filter Filter, orderBy string) ([]*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	p.id, p.name, p.description, p.price, p.stock_quantity,
	p.category, p.brand, p.image_url, p.status, p.version,
	p.created_at, p.updated_at`

const defaultOrderBy = "p.name ASC"

var sortColumns = map[string]string{
	"id":            "p.id",
	"name":          "p.name",
	"price":         "p.price",
	"stockQuantity": "p.stock_quantity",
	"category":      "p.category",
	"status":        "p.status",
	"createdAt":     "p.created_at",
	"updatedAt":     "p.updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.StockQuantity,
		&p.Category,
		&p.Brand,
		&p.ImageURL,
		&p.Status,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateProduct"),
	)

	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO products (
			name, description, price, stock_quantity,
			category, brand, image_url, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, version, created_at, updated_at
	`,
		p.Name,
		p.Description,
		p.Price,
		p.StockQuantity,
		p.Category,
		p.Brand,
		p.ImageURL,
		string(p.Status),
	).Scan(&p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		log.Error("failed to insert product", zap.Error(err))
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE products
		SET name = $1,
			description = $2,
			price = $3,
			stock_quantity = $4,
			category = $5,
			brand = $6,
			image_url = $7,
			status = $8,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $9 AND version = $10
		RETURNING version, updated_at
	`,
		p.Name,
		p.Description,
		p.Price,
		p.StockQuantity,
		p.Category,
		p.Brand,
		p.ImageURL,
		string(p.Status),
		p.ID,
		p.Version,
	)

	return r.applyVersioned(ctx, "UpdateProduct", p, row)
}

func (r *repository) UpdateStock(ctx context.Context, p *Product) error {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE products
		SET stock_quantity = $1,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $2 AND version = $3
		RETURNING version, updated_at
	`, p.StockQuantity, p.ID, p.Version)

	return r.applyVersioned(ctx, "UpdateStock", p, row)
}

// applyVersioned scans the RETURNING clause of a version-checked update.
// No row back means another transaction bumped the version first.
func (r *repository) applyVersioned(ctx context.Context, method string, p *Product, row *sql.Row) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", method),
		zap.Int64("product_id", p.ID),
		zap.Int("version", p.Version),
	)

	err := row.Scan(&p.Version, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordOptimisticLockConflict("product")
		log.Warn("stale product version")
		return apperr.OptimisticLock("Product", p.ID)
	}
	if err != nil {
		log.Error("failed to update product", zap.Error(err))
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}

	return nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Product, error) {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errProductNotFound(id)
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load product",
			zap.Int64("product_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}

	return p, nil
}

func buildWhere(f Filter) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}
	argIndex := 1

	if f.Status != nil {
		where += fmt.Sprintf(" AND p.status = $%d", argIndex)
		args = append(args, string(*f.Status))
		argIndex++
	}
	if f.Category != nil {
		where += fmt.Sprintf(" AND LOWER(p.category) = LOWER($%d)", argIndex)
		args = append(args, *f.Category)
		argIndex++
	}
	if f.Name != nil {
		where += fmt.Sprintf(" AND p.name ILIKE $%d", argIndex)
		args = append(args, "%"+*f.Name+"%")
		argIndex++
	}
	if f.MinPrice != nil {
		where += fmt.Sprintf(" AND p.price >= $%d", argIndex)
		args = append(args, *f.MinPrice)
		argIndex++
	}
	if f.MaxPrice != nil {
		where += fmt.Sprintf(" AND p.price <= $%d", argIndex)
		args = append(args, *f.MaxPrice)
		argIndex++
	}
	if f.MaxStock != nil {
		where += fmt.Sprintf(" AND p.stock_quantity <= $%d", argIndex)
		args = append(args, *f.MaxStock)
	}

	return where, args
}

func (r *repository) List(ctx context.Context, filter Filter, page utils.PageRequest) ([]*Product, error) {
	where, args := buildWhere(filter)

	query := `SELECT ` + productColumns + ` FROM products p` + where +
		" ORDER BY " + page.OrderBy(sortColumns, defaultOrderBy) + ", p.id ASC" +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	return r.query(ctx, "ListProducts", query, args...)
}

func (r *repository) Count(ctx context.Context, filter Filter) (int64, error) {
	where, args := buildWhere(filter)

	var total int64
	err := db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products p`+where, args...).Scan(&total)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to count products", zap.Error(err))
		return 0, fmt.Errorf("count products: %w", err)
	}

	return total, nil
}

// FindAll returns every product matching filter, ordered by the given
// trusted ORDER BY expression.
func (r *repository) FindAll(ctx context.Context, filter Filter, orderBy string) ([]*Product, error) {
	where, args := buildWhere(filter)
	if orderBy == "" {
		orderBy = defaultOrderBy
	}

	query := `SELECT ` + productColumns + ` FROM products p` + where + " ORDER BY " + orderBy
	return r.query(ctx, "FindAllProducts", query, args...)
}

func (r *repository) query(ctx context.Context, method, query string, args ...any) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", method),
	)

	log.Debug("executing product query",
		zap.String("query", query),
		zap.Any("args", args),
	)

	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}
