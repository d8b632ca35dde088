// Package products is the pgx-backed product directory. The pipeline
// reads identifiers and names here and, in auto-create mode, writes
// stub records; everything else about products belongs to the
// storefront.
package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trunov/catalogpix/internal/entities"
	"github.com/trunov/catalogpix/internal/matcher"
)

type dbDirectory struct {
	dbpool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *dbDirectory {
	return &dbDirectory{dbpool: pool}
}

func (d *dbDirectory) FindByID(ctx context.Context, id int64) (entities.Product, error) {
	var p entities.Product
	err := d.dbpool.QueryRow(ctx,
		`SELECT id, name, slug, price_cents FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Slug, &p.PriceCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return entities.Product{}, fmt.Errorf("%w: id %d", matcher.ErrProductNotFound, id)
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("find product %d: %w", id, err)
	}
	return p, nil
}

// Search does a case-insensitive substring match on name or slug. Row
// order is whatever Postgres returns; callers take the first hit and
// must not rely on a stable order.
func (d *dbDirectory) Search(ctx context.Context, term string) ([]entities.Product, error) {
	rows, err := d.dbpool.Query(ctx,
		`SELECT id, name, slug, price_cents FROM products
		 WHERE name ILIKE '%' || $1 || '%' OR slug ILIKE '%' || $1 || '%'`, term)
	if err != nil {
		return nil, fmt.Errorf("search products %q: %w", term, err)
	}
	defer rows.Close()

	var out []entities.Product
	for rows.Next() {
		var p entities.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.PriceCents); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (d *dbDirectory) Create(ctx context.Context, p entities.Product) (entities.Product, error) {
	err := d.dbpool.QueryRow(ctx,
		`INSERT INTO products (id, name, slug, price_cents)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING
		 RETURNING id`, p.ID, p.Name, p.Slug, p.PriceCents,
	).Scan(&p.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict: someone created it between our lookup and now.
		return p, nil
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("create product %d: %w", p.ID, err)
	}
	return p, nil
}

// List returns the full product set, used by randomized allocation.
func (d *dbDirectory) List(ctx context.Context) ([]entities.Product, error) {
	rows, err := d.dbpool.Query(ctx, `SELECT id, name, slug, price_cents FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []entities.Product
	for rows.Next() {
		var p entities.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.PriceCents); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
