package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trunov/catalogpix/cmd/migrate"
	"github.com/trunov/catalogpix/internal/allocator"
	"github.com/trunov/catalogpix/internal/cache"
	"github.com/trunov/catalogpix/internal/config"
	"github.com/trunov/catalogpix/internal/matcher"
	"github.com/trunov/catalogpix/internal/parser"
	"github.com/trunov/catalogpix/internal/persister"
	"github.com/trunov/catalogpix/internal/pipeline"
	"github.com/trunov/catalogpix/internal/r2"
	"github.com/trunov/catalogpix/internal/redisholder"
	"github.com/trunov/catalogpix/internal/repository/products"
	"github.com/trunov/catalogpix/internal/repository/storage"
)

type App struct {
	pipeline *pipeline.Pipeline
	pool     *pgxpool.Pool
	holder   *redisholder.Holder
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	if err := migrate.Migrate(cfg.Database.DSN, migrate.Migrations); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	repo := storage.New(pool)
	directory := products.New(pool)

	holder, err := redisholder.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var digestCache *cache.Cache
	if holder != nil {
		digestCache = cache.NewCache("catalogpix:digests", holder.Get())
	}

	r2Storage, err := r2.NewStorage(&cfg.R2)
	if err != nil {
		return nil, err
	}

	deps := pipeline.Deps{
		Store:     repo,
		Objects:   r2Storage,
		Cache:     digestCache,
		Persister: persister.New(repo),
	}

	switch cfg.Source.Mode {
	case config.ModeOccasion:
		deps.Strategy = parser.OccasionStrategy{}
		deps.Matcher = &matcher.Fuzzy{Directory: directory}
	case config.ModeProduct:
		deps.Strategy = parser.ProductTokenStrategy{}
		deps.Matcher = &matcher.Direct{
			Directory:      directory,
			AutoCreate:     cfg.Source.AutoCreateProducts,
			StubPriceCents: cfg.Source.StubPriceCents,
		}
	case config.ModeRandom:
		deps.Directory = directory
		deps.Allocator = allocator.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	default:
		return nil, fmt.Errorf("unknown ingestion mode %q", cfg.Source.Mode)
	}

	return &App{
		pipeline: pipeline.New(cfg.Source, deps),
		pool:     pool,
		holder:   holder,
	}, nil
}

// Run executes one ingestion pass and prints the summary regardless of
// how the run went.
func (a *App) Run(ctx context.Context) error {
	rep, err := a.pipeline.Run(ctx)
	rep.Print()
	return err
}

func (a *App) Close() {
	a.pool.Close()
	if a.holder != nil {
		_ = a.holder.Close()
	}
}
