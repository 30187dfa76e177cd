package repositories

import (
	"context"

	"github.com/chrisdamba/foodcloud/internal/models"
)

// MenuItemRepository persists the catalog for the postgres menu source.
type MenuItemRepository interface {
	EnsureSchema(ctx context.Context) error
	BulkCreate(ctx context.Context, menuItems []models.MenuItem) error
	GetAll(ctx context.Context) ([]models.MenuItem, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
