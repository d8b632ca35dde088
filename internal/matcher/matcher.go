// Package matcher resolves parsed filename metadata to a product ID.
// Direct mode treats the reference as the product ID itself; fuzzy mode
// matches the reference against product names and slugs through the
// product directory.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/trunov/catalogpix/internal/entities"
)

// ErrProductNotFound means no product could be resolved for the file.
// The group is skipped and counted, never fatal.
var ErrProductNotFound = errors.New("product not found")

// ProductDirectory is the read/write slice of the product catalog the
// matcher depends on.
type ProductDirectory interface {
	FindByID(ctx context.Context, id int64) (entities.Product, error)
	Search(ctx context.Context, term string) ([]entities.Product, error)
	Create(ctx context.Context, p entities.Product) (entities.Product, error)
}

// Matcher resolves one parsed filename to a product ID.
type Matcher interface {
	Resolve(ctx context.Context, parsed entities.ParsedName) (int64, error)
}

// Direct treats the filename reference as the numeric product ID and
// verifies it against the directory. With AutoCreate set, an unknown ID
// produces a stub product instead of a miss.
type Direct struct {
	Directory  ProductDirectory
	AutoCreate bool

	// StubPriceCents is the placeholder price for auto-created stubs.
	StubPriceCents int64
}

func (d *Direct) Resolve(ctx context.Context, parsed entities.ParsedName) (int64, error) {
	id, err := strconv.ParseInt(parsed.Reference, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: reference %q is not a product ID", ErrProductNotFound, parsed.Reference)
	}

	_, err = d.Directory.FindByID(ctx, id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrProductNotFound) {
		return 0, fmt.Errorf("find product %d: %w", id, err)
	}
	if !d.AutoCreate {
		return 0, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}

	stub := entities.Product{
		ID:         id,
		Name:       fmt.Sprintf("Product %d", id),
		Slug:       fmt.Sprintf("product-%d", id),
		PriceCents: d.StubPriceCents,
	}
	created, err := d.Directory.Create(ctx, stub)
	if err != nil {
		return 0, fmt.Errorf("create stub product %d: %w", id, err)
	}
	return created.ID, nil
}

// Fuzzy normalizes the filename reference into a search term and asks
// the directory for a case-insensitive substring match on name or slug.
// When the whole phrase finds nothing it retries with the individual
// significant words before giving up. First match wins; result order is
// whatever the directory returns.
type Fuzzy struct {
	Directory ProductDirectory
}

func (f *Fuzzy) Resolve(ctx context.Context, parsed entities.ParsedName) (int64, error) {
	term := NormalizeTerm(parsed.Reference)
	if term == "" {
		return 0, fmt.Errorf("%w: reference %q normalizes to nothing", ErrProductNotFound, parsed.Reference)
	}

	terms := []string{term}
	for _, w := range significantWords(term) {
		if w != term {
			terms = append(terms, w)
		}
	}
	for _, t := range terms {
		products, err := f.Directory.Search(ctx, t)
		if err != nil {
			return 0, fmt.Errorf("search %q: %w", t, err)
		}
		if len(products) > 0 {
			return products[0].ID, nil
		}
	}
	return 0, fmt.Errorf("%w: no match for %q", ErrProductNotFound, term)
}
