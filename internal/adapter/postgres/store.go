package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joris-vdw/StyleCast/internal/domain/wardrobe"
)

// Store implements catalog.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// SaveItem inserts or replaces an item by ID.
func (s *Store) SaveItem(ctx context.Context, item wardrobe.Item) error {
	secondary, err := json.Marshal(emptyIfNil(item.SecondaryColors))
	if err != nil {
		return fmt.Errorf("marshal secondary_colors: %w", err)
	}
	weatherTags, err := json.Marshal(emptyIfNil(item.WeatherTags))
	if err != nil {
		return fmt.Errorf("marshal weather_tags: %w", err)
	}
	seasonTags, err := json.Marshal(emptyIfNil(item.SeasonTags))
	if err != nil {
		return fmt.Errorf("marshal season_tags: %w", err)
	}
	tags, err := json.Marshal(emptyIfNil(item.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO items (id, name, category, subcategory, material, color, secondary_colors,
		                    warmth_level, formality, weather_tags, season_tags, brand, size, description, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, category = EXCLUDED.category, subcategory = EXCLUDED.subcategory,
		   material = EXCLUDED.material, color = EXCLUDED.color, secondary_colors = EXCLUDED.secondary_colors,
		   warmth_level = EXCLUDED.warmth_level, formality = EXCLUDED.formality,
		   weather_tags = EXCLUDED.weather_tags, season_tags = EXCLUDED.season_tags,
		   brand = EXCLUDED.brand, size = EXCLUDED.size, description = EXCLUDED.description, tags = EXCLUDED.tags`,
		item.ID, item.Name, string(item.Category), item.Subcategory, item.Material, item.Color, secondary,
		item.WarmthLevel, item.Formality, weatherTags, seasonTags, item.Brand, item.Size, item.Description, tags)
	if err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

// DeleteItem removes an item by ID. Returns false if no row matched.
func (s *Store) DeleteItem(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAll removes every item.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("delete all items: %w", err)
	}
	return nil
}

// ListItems returns all items ordered by insertion time.
func (s *Store) ListItems(ctx context.Context) ([]wardrobe.Item, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, category, subcategory, material, color, secondary_colors,
		        warmth_level, formality, weather_tags, season_tags, brand, size, description, tags, created_at
		 FROM items ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []wardrobe.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanItem(row pgx.Row) (wardrobe.Item, error) {
	var (
		it       wardrobe.Item
		category string
		secondary, weatherTags, seasonTags, tags []byte
	)
	err := row.Scan(&it.ID, &it.Name, &category, &it.Subcategory, &it.Material, &it.Color, &secondary,
		&it.WarmthLevel, &it.Formality, &weatherTags, &seasonTags, &it.Brand, &it.Size, &it.Description, &tags, &it.CreatedAt)
	if err != nil {
		return it, fmt.Errorf("scan item: %w", err)
	}
	it.Category = wardrobe.Category(category)

	for _, pair := range []struct {
		raw []byte
		dst *[]string
	}{
		{secondary, &it.SecondaryColors},
		{weatherTags, &it.WeatherTags},
		{seasonTags, &it.SeasonTags},
		{tags, &it.Tags},
	} {
		if len(pair.raw) > 0 {
			if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
				return it, fmt.Errorf("unmarshal item field: %w", err)
			}
		}
	}
	return it, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
