package menu

import (
	"context"
	"fmt"

	"github.com/chrisdamba/foodcloud/internal/factories"
	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/chrisdamba/foodcloud/internal/repositories"
	"github.com/chrisdamba/foodcloud/internal/repositories/postgres"
	"github.com/rs/zerolog/log"
)

type Source interface {
	Load(ctx context.Context) ([]models.MenuItem, error)
}

// StaticSource serves the house menu.
type StaticSource struct{}

func (StaticSource) Load(context.Context) ([]models.MenuItem, error) {
	return factories.SeedMenu(), nil
}

// FakerSource appends generated dishes to another source.
type FakerSource struct {
	Base    Source
	Extra   int
	Factory *factories.MenuItemFactory
}

func (s FakerSource) Load(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.Base.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := 1
	for _, item := range items {
		if item.ID >= next {
			next = item.ID + 1
		}
	}
	return append(items, s.Factory.CreateMenuItems(next, s.Extra)...), nil
}

// RepositorySource reads the catalog from a MenuItemRepository, seeding it
// with the house menu when the table is empty.
type RepositorySource struct {
	Repo repositories.MenuItemRepository
}

func (s RepositorySource) Load(ctx context.Context) ([]models.MenuItem, error) {
	if err := s.Repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("error preparing menu_items table: %w", err)
	}
	count, err := s.Repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting menu items: %w", err)
	}
	if count == 0 {
		seed := factories.SeedMenu()
		if err := s.Repo.BulkCreate(ctx, seed); err != nil {
			return nil, fmt.Errorf("error seeding menu items: %w", err)
		}
		log.Info().Int("items", len(seed)).Msg("seeded menu_items table")
	}
	items, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading menu items: %w", err)
	}
	return items, nil
}

// Load builds the catalog from the source named in cfg.Menu. The returned
// cleanup func releases any database pool and is never nil.
func Load(ctx context.Context, cfg *models.Config) (*Catalog, func(), error) {
	var (
		src     Source = StaticSource{}
		cleanup        = func() {}
	)
	if cfg.Menu.Source == "postgres" {
		pool, err := postgres.Connect(ctx, cfg.Menu.DatabaseURL)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = pool.Close
		src = RepositorySource{Repo: postgres.NewMenuItemRepository(pool)}
	}
	if cfg.Menu.Source == "faker" || cfg.Menu.ExtraItems > 0 {
		extra := cfg.Menu.ExtraItems
		if extra == 0 {
			extra = 6
		}
		src = FakerSource{
			Base:    src,
			Extra:   extra,
			Factory: factories.NewMenuItemFactory(factories.New(cfg.Seed)),
		}
	}

	items, err := src.Load(ctx)
	if err != nil {
		return nil, cleanup, err
	}
	catalog, err := NewCatalog(items)
	if err != nil {
		return nil, cleanup, err
	}
	log.Info().Str("source", cfg.Menu.Source).Int("items", catalog.Len()).Msg("menu loaded")
	return catalog, cleanup, nil
}
