// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gashasec/portal-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByModule(ctx context.Context, module string) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListProductsParams) ([]Product, int, error)
	ListCatalog(ctx context.Context) ([]Product, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, name, module, description, features, supports_download,
	supports_request, show_in_catalog, status, version, created_at, updated_at`

func (r *repository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (
			id, name, module, description, features, supports_download,
			supports_request, show_in_catalog, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at, version`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.Name,
		p.Module,
		p.Description,
		p.Features,
		p.SupportsDownload,
		p.SupportsRequest,
		p.ShowInCatalog,
		p.Status,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create product: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE id = $1`, productColumns)

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

func (r *repository) GetByModule(
	ctx context.Context,
	module string,
) (*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE module = $1`, productColumns)

	var p Product
	err := r.db.GetContext(ctx, &p, query, module)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product by module: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product by module: %w", err)
	}

	return &p, nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = $3, description = $4, features = $5, supports_download = $6,
		    supports_request = $7, show_in_catalog = $8, status = $9,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID,
		p.Version,
		p.Name,
		p.Description,
		p.Features,
		p.SupportsDownload,
		p.SupportsRequest,
		p.ShowInCatalog,
		p.Status,
	).Scan(&p.Version, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r.classifyMissedUpdate(ctx, p.ID, "update product")
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	return nil
}

func (r *repository) classifyMissedUpdate(
	ctx context.Context,
	id, op string,
) error {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if exists {
		return fmt.Errorf("%s: %w", op, core.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, core.ErrNotFound)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListProductsParams,
) ([]Product, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Module != "" {
		conditions = append(conditions, fmt.Sprintf("module = $%d", argIdx))
		args = append(args, params.Module)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM products WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

func (r *repository) ListCatalog(ctx context.Context) ([]Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE show_in_catalog = true AND status = $1
		ORDER BY name ASC`, productColumns)

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query, StatusActive); err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	return products, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
