package entities

import "time"

// ProductImage is one persisted row in product_images: a single encoded
// variant of a source photo, linked to a product.
type ProductImage struct {
	ProductID  int64     `json:"product_id"`
	ImageIndex int       `json:"image_index"`
	Size       string    `json:"size"` // thumb | small | medium | large
	URL        string    `json:"url"`
	IsPrimary  bool      `json:"is_primary"`
	FileHash   string    `json:"file_hash"`
	MimeType   string    `json:"mime_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// Product is owned by the product directory; the pipeline only reads
// the identifier and name, and may create a stub in auto-create mode.
type Product struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	PriceCents int64   `json:"price_cents"`
	SKU        *string `json:"sku,omitempty"`
}

// AssetVariant is one encoded output of a source image: one resolution
// profile, already placed in the object store.
type AssetVariant struct {
	Size      string `json:"size"`
	ObjectKey string `json:"object_key"`
	URL       string `json:"url"`
}

// AssetGroup bundles every variant derived from one source image. It is
// the atomic unit of allocation: a group is assigned to a product in
// its entirety or not at all.
type AssetGroup struct {
	FileHash string         `json:"file_hash"`
	Sequence int            `json:"sequence"`
	MimeType string         `json:"mime_type"`
	Variants []AssetVariant `json:"variants"`

	// ProductID is zero until the group has been resolved, either from
	// the filename or by the allocator.
	ProductID int64 `json:"product_id"`
}

// ParsedName is the structured metadata extracted from a source
// filename by a parser strategy.
type ParsedName struct {
	Reference string `json:"reference"`
	Sequence  int    `json:"sequence"`
	Tag       string `json:"tag,omitempty"`
}
