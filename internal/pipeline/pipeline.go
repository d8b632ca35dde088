// Package pipeline orchestrates one ingestion run: scan, dedup, parse,
// match, encode, upload, allocate, persist, report. Files are processed
// in fixed-size batches; work inside a batch runs concurrently, batches
// run sequentially with a short delay to bound load on the stores.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/trunov/catalogpix/internal/allocator"
	"github.com/trunov/catalogpix/internal/cache"
	"github.com/trunov/catalogpix/internal/config"
	"github.com/trunov/catalogpix/internal/entities"
	"github.com/trunov/catalogpix/internal/hasher"
	"github.com/trunov/catalogpix/internal/matcher"
	"github.com/trunov/catalogpix/internal/parser"
	"github.com/trunov/catalogpix/internal/persister"
	"github.com/trunov/catalogpix/internal/processor"
	"github.com/trunov/catalogpix/internal/r2"
	"github.com/trunov/catalogpix/internal/report"
	"github.com/trunov/catalogpix/internal/scanner"
)

// Store is the slice of the relational store the pipeline reads.
type Store interface {
	DigestExists(ctx context.Context, hash string) (bool, error)
}

// ObjectStore uploads encoded variants and issues their public URLs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, contentType string, payload []byte) error
	PublicURL(key string) string
}

// Directory lists the product set for randomized allocation.
type Directory interface {
	List(ctx context.Context) ([]entities.Product, error)
}

var allowedMIMEs = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
}

// Deps are the collaborators one run needs. Strategy and Matcher are
// nil in random mode; Allocator and Directory are nil in the
// filename-driven modes. Cache may always be nil.
type Deps struct {
	Store     Store
	Objects   ObjectStore
	Directory Directory
	Strategy  parser.Strategy
	Matcher   matcher.Matcher
	Allocator *allocator.Allocator
	Cache     *cache.Cache
	Persister *persister.Persister
}

type Pipeline struct {
	cfg  config.SourceConfig
	deps Deps
}

func New(cfg config.SourceConfig, deps Deps) *Pipeline {
	return &Pipeline{cfg: cfg, deps: deps}
}

// Run executes one full ingestion pass and always returns a report,
// even when it also returns an error. Only an unreadable source
// directory or an unusable product directory abort the run; every
// per-file failure is recorded and contained.
func (p *Pipeline) Run(ctx context.Context) (*report.Report, error) {
	rep := report.New()

	files, err := scanner.Scan(p.cfg.Dir)
	if err != nil {
		return rep, err
	}
	rep.AddFiles(len(files))
	log.Printf("pipeline: run %s, %d files in %s (mode=%s, dry_run=%v)",
		rep.RunID, len(files), p.cfg.Dir, p.cfg.Mode, p.cfg.DryRun)

	groups := p.processBatches(ctx, files, rep)

	if p.cfg.Mode == config.ModeRandom {
		products, err := p.deps.Directory.List(ctx)
		if err != nil {
			return rep, fmt.Errorf("list products for allocation: %w", err)
		}
		groups = p.deps.Allocator.Allocate(products, groups)
	}

	rows := buildRows(groups)

	if p.cfg.DryRun {
		log.Printf("pipeline: dry run, skipping persistence of %d rows", len(rows))
		return rep, nil
	}

	persisted, failures := p.deps.Persister.Persist(ctx, rows)
	rep.AddPersistedRows(persisted)
	for _, f := range failures {
		rep.RecordError(fmt.Sprintf("chunk-%d", f.Index), report.KindPersistence, f.Err)
	}

	// Only warm the digest cache when every chunk landed; a partial run
	// must stay retryable.
	if len(failures) == 0 {
		for _, g := range groups {
			p.deps.Cache.MarkDigest(ctx, g.FileHash)
		}
	}

	return rep, nil
}

// processBatches walks the file list in batches of BatchSize, running
// the per-file stage concurrently inside each batch.
func (p *Pipeline) processBatches(ctx context.Context, files []string, rep *report.Report) []entities.AssetGroup {
	batchSize := p.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}

	var (
		mu     sync.Mutex
		seen   = make(map[string]struct{})
		groups []entities.AssetGroup
	)

	for start := 0; start < len(files); start += batchSize {
		end := start + batchSize
		if end > len(files) {
			end = len(files)
		}

		var wg sync.WaitGroup
		for _, name := range files[start:end] {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				g, ok := p.processFile(ctx, name, &mu, seen, rep)
				if !ok {
					return
				}
				mu.Lock()
				groups = append(groups, g)
				mu.Unlock()
			}(name)
		}
		wg.Wait()

		if end < len(files) && p.cfg.BatchDelay > 0 {
			select {
			case <-time.After(p.cfg.BatchDelay):
			case <-ctx.Done():
				return groups
			}
		}
	}
	return groups
}

// processFile runs the whole per-file stage. Any failure is recorded on
// the report and contained to this file; sibling files in the batch are
// never affected.
func (p *Pipeline) processFile(ctx context.Context, name string, mu *sync.Mutex, seen map[string]struct{}, rep *report.Report) (entities.AssetGroup, bool) {
	var group entities.AssetGroup

	data, err := os.ReadFile(filepath.Join(p.cfg.Dir, name))
	if err != nil {
		rep.RecordError(name, report.KindSourceRead, err)
		return group, false
	}

	digest := hasher.Digest(data)

	mu.Lock()
	_, dup := seen[digest]
	if !dup {
		seen[digest] = struct{}{}
	}
	mu.Unlock()
	if dup {
		rep.AddDuplicate()
		return group, false
	}

	if p.deps.Cache.HasDigest(ctx, digest) {
		rep.AddDuplicate()
		return group, false
	}
	exists, err := p.deps.Store.DigestExists(ctx, digest)
	if err != nil {
		rep.RecordError(name, report.KindPersistence, err)
		return group, false
	}
	if exists {
		rep.AddDuplicate()
		return group, false
	}

	mime := mimetype.Detect(data)
	if _, ok := allowedMIMEs[mime.String()]; !ok {
		rep.RecordError(name, report.KindUnparsable, fmt.Errorf("unsupported content type %s", mime.String()))
		return group, false
	}

	sequence := 1
	var productID int64
	if p.deps.Strategy != nil {
		parsed, err := p.deps.Strategy.Parse(name)
		if err != nil {
			log.Printf("pipeline: skipping %s: %v", name, err)
			rep.RecordError(name, report.KindUnparsable, err)
			return group, false
		}
		sequence = parsed.Sequence

		productID, err = p.deps.Matcher.Resolve(ctx, parsed)
		if err != nil {
			if errors.Is(err, matcher.ErrProductNotFound) {
				log.Printf("pipeline: skipping %s: %v", name, err)
			}
			rep.RecordError(name, report.KindProductNotFound, err)
			return group, false
		}
	}

	encoded, err := processor.EncodeAll(data)
	if err != nil {
		rep.RecordError(name, report.KindEncoding, err)
		return group, false
	}

	baseName := fmt.Sprintf("%s_%d", hasher.Short(digest), sequence)
	variants := make([]entities.AssetVariant, 0, len(encoded))
	for _, enc := range encoded {
		key := r2.ObjectKey(enc.Profile.Name, baseName, processor.OutputExt)
		if !p.cfg.DryRun {
			if err := p.deps.Objects.Upload(ctx, key, "image/webp", enc.Data); err != nil {
				rep.RecordError(name, report.KindUpload, err)
				return entities.AssetGroup{}, false
			}
		}
		variants = append(variants, entities.AssetVariant{
			Size:      enc.Profile.Name,
			ObjectKey: key,
			URL:       p.deps.Objects.PublicURL(key),
		})
	}

	return entities.AssetGroup{
		FileHash:  digest,
		Sequence:  sequence,
		MimeType:  mime.String(),
		Variants:  variants,
		ProductID: productID,
	}, true
}

// buildRows flattens assigned groups into product_images rows. The
// thumb variant of sequence 1 is the one and only primary; nothing else
// ever sets the flag.
func buildRows(groups []entities.AssetGroup) []entities.ProductImage {
	var rows []entities.ProductImage
	for _, g := range groups {
		if g.ProductID == 0 {
			continue
		}
		for _, v := range g.Variants {
			rows = append(rows, entities.ProductImage{
				ProductID:  g.ProductID,
				ImageIndex: g.Sequence,
				Size:       v.Size,
				URL:        v.URL,
				IsPrimary:  g.Sequence == 1 && v.Size == processor.PrimaryProfile,
				FileHash:   g.FileHash,
				MimeType:   g.MimeType,
			})
		}
	}
	return rows
}
