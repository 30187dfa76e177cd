package postgres

import (
	"context"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MenuItemRepository struct {
	pool *pgxpool.Pool
}

func NewMenuItemRepository(pool *pgxpool.Pool) *MenuItemRepository {
	return &MenuItemRepository{pool: pool}
}

func (r *MenuItemRepository) EnsureSchema(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS menu_items (
            id          INTEGER PRIMARY KEY,
            name        TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price       NUMERIC(10, 2) NOT NULL,
            rating      NUMERIC(2, 1) NOT NULL DEFAULT 0,
            prep_time   TEXT NOT NULL DEFAULT '',
            category    TEXT NOT NULL,
            image       TEXT NOT NULL DEFAULT '',
            popular     BOOLEAN NOT NULL DEFAULT FALSE,
            created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `
	_, err := r.pool.Exec(ctx, query)
	return err
}

func (r *MenuItemRepository) BulkCreate(ctx context.Context, menuItems []models.MenuItem) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"menu_items"},
		[]string{"id", "name", "description", "price", "rating", "prep_time", "category", "image", "popular"},
		pgx.CopyFromSlice(len(menuItems), func(i int) ([]interface{}, error) {
			return []interface{}{
				menuItems[i].ID,
				menuItems[i].Name,
				menuItems[i].Description,
				menuItems[i].Price.InexactFloat64(),
				menuItems[i].Rating.InexactFloat64(),
				menuItems[i].Time,
				menuItems[i].Category,
				menuItems[i].Image,
				menuItems[i].Popular,
			}, nil
		}),
	)
	return err
}

// GetAll returns the catalog in id order.
func (r *MenuItemRepository) GetAll(ctx context.Context) ([]models.MenuItem, error) {
	query := `
        SELECT
            id,
            name,
            description,
            price::text,
            rating::text,
            prep_time,
            category,
            image,
            popular
        FROM menu_items
        ORDER BY id
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menuItems []models.MenuItem
	for rows.Next() {
		var (
			item          models.MenuItem
			price, rating string
		)
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&price,
			&rating,
			&item.Time,
			&item.Category,
			&item.Image,
			&item.Popular,
		)
		if err != nil {
			return nil, err
		}
		if item.Price, err = parseDecimal(price); err != nil {
			return nil, err
		}
		if item.Rating, err = parseDecimal(rating); err != nil {
			return nil, err
		}
		menuItems = append(menuItems, item)
	}
	return menuItems, rows.Err()
}

func (r *MenuItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM menu_items").Scan(&count)
	return count, err
}

func (r *MenuItemRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE menu_items")
	return err
}
