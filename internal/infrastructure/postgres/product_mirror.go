package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

var _ repository.ProductMirror = (*ProductMirrorRepo)(nil)

const mirrorColumns = `id, code, name, description, category_id, category_name,
	current_stock, minimum_stock, unit, cost_price, sale_price, active, remote_updated_at`

// ProductMirrorRepo espejo de productos en PostgreSQL (columnas NUMERIC vía pgx-shopspring-decimal).
type ProductMirrorRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewProductMirrorRepository construye el adaptador.
func NewProductMirrorRepository(pool *pgxpool.Pool) *ProductMirrorRepo {
	return &ProductMirrorRepo{pool: pool, tx: NewTxRunner(pool)}
}

// Replace upsert de un producto releído del servidor.
func (r *ProductMirrorRepo) Replace(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO product_mirror (` + mirrorColumns + `, mirrored_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category_id = EXCLUDED.category_id,
			category_name = EXCLUDED.category_name,
			current_stock = EXCLUDED.current_stock,
			minimum_stock = EXCLUDED.minimum_stock,
			unit = EXCLUDED.unit,
			cost_price = EXCLUDED.cost_price,
			sale_price = EXCLUDED.sale_price,
			active = EXCLUDED.active,
			remote_updated_at = EXCLUDED.remote_updated_at,
			mirrored_at = NOW()`
	if _, err := r.pool.Exec(ctx, query, productArgs(p)...); err != nil {
		return wrap("mirror replace", err)
	}
	return nil
}

// ReplaceAll sustituye el espejo completo en una transacción (DELETE + COPY).
func (r *ProductMirrorRepo) ReplaceAll(ctx context.Context, products []*entity.Product) error {
	return r.tx.Run(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM product_mirror`); err != nil {
			return wrap("mirror clear", err)
		}
		rows := make([][]any, 0, len(products))
		for _, p := range products {
			rows = append(rows, productArgs(p))
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"product_mirror"},
			[]string{"id", "code", "name", "description", "category_id", "category_name",
				"current_stock", "minimum_stock", "unit", "cost_price", "sale_price", "active", "remote_updated_at"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return wrap("mirror copy", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO product_mirror_sync (id, synced_at) VALUES (1, NOW())
			ON CONFLICT (id) DO UPDATE SET synced_at = EXCLUDED.synced_at`)
		if err != nil {
			return wrap("mirror sync", err)
		}
		return nil
	})
}

// Get devuelve (nil, nil) si el producto no está en el espejo.
func (r *ProductMirrorRepo) Get(ctx context.Context, id string) (*entity.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+mirrorColumns+` FROM product_mirror WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("mirror get", err)
	}
	return p, nil
}

func (r *ProductMirrorRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM product_mirror WHERE id = $1`, id); err != nil {
		return wrap("mirror delete", err)
	}
	return nil
}

// Snapshot todos los productos y la hora del último ReplaceAll.
func (r *ProductMirrorRepo) Snapshot(ctx context.Context) ([]*entity.Product, time.Time, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+mirrorColumns+` FROM product_mirror ORDER BY name`)
	if err != nil {
		return nil, time.Time{}, wrap("mirror snapshot", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, time.Time{}, wrap("mirror scan", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, wrap("mirror rows", err)
	}

	var syncedAt time.Time
	err = r.pool.QueryRow(ctx, `SELECT synced_at FROM product_mirror_sync WHERE id = 1`).Scan(&syncedAt)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, time.Time{}, wrap("mirror synced_at", err)
	}
	return out, syncedAt, nil
}

func productArgs(p *entity.Product) []any {
	return []any{
		p.ID, p.Code, p.Name, p.Description, p.CategoryID, p.CategoryName,
		p.CurrentStock, p.MinimumStock, p.Unit, p.CostPrice, p.SalePrice, p.Active,
		nullTime(p.UpdatedAt),
	}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p       entity.Product
		updated *time.Time
	)
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.CategoryID, &p.CategoryName,
		&p.CurrentStock, &p.MinimumStock, &p.Unit, &p.CostPrice, &p.SalePrice, &p.Active,
		&updated,
	)
	if err != nil {
		return nil, err
	}
	if updated != nil {
		p.UpdatedAt = *updated
	}
	return &p, nil
}
