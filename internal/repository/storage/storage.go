package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trunov/catalogpix/internal/entities"
)

type dbStorage struct {
	dbpool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *dbStorage {
	return &dbStorage{dbpool: pool}
}

func (s *dbStorage) Ping(ctx context.Context) error {
	return s.dbpool.Ping(ctx)
}

// DigestExists reports whether any persisted row references the given
// content digest. This is the dedup gate: a hit means the source bytes
// were ingested by an earlier run.
func (s *dbStorage) DigestExists(ctx context.Context, hash string) (bool, error) {
	var exists bool
	err := s.dbpool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM product_images WHERE file_hash = $1)`, hash,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("digest lookup: %w", err)
	}
	return exists, nil
}

const upsertImageQuery = `
INSERT INTO product_images (product_id, image_index, size, url, is_primary, file_hash, mime_type)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (product_id, image_index, size) DO UPDATE SET
    url        = EXCLUDED.url,
    is_primary = EXCLUDED.is_primary,
    file_hash  = EXCLUDED.file_hash,
    mime_type  = EXCLUDED.mime_type`

// UpsertImages writes one chunk of rows. The natural key
// (product_id, image_index, size) makes re-runs overwrite in place
// instead of duplicating.
func (s *dbStorage) UpsertImages(ctx context.Context, rows []entities.ProductImage) error {
	if len(rows) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, r := range rows {
		b.Queue(upsertImageQuery, r.ProductID, r.ImageIndex, r.Size, r.URL, r.IsPrimary, r.FileHash, r.MimeType)
	}

	br := s.dbpool.SendBatch(ctx, b)
	defer br.Close()

	for i := range rows {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert row %d (product %d): %w", i, rows[i].ProductID, err)
		}
	}
	return nil
}
