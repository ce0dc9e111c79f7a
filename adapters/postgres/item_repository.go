package postgres

import (
	"context"
	"database/sql"
	"errors"

	"psymatch/domain/core"
	"psymatch/models"
	"psymatch/ports"

	"github.com/jmoiron/sqlx"
)

const itemColumns = `id, scale_id, text, format, options, correct_answer, discrimination, difficulty, guessing, loadings, reversed, is_distortion, active, position, created_at`

// ItemRepositoryImpl implements ItemRepository and ItemBankWriter for PostgreSQL
type ItemRepositoryImpl struct {
	db *sqlx.DB
}

// NewItemRepository creates a new PostgreSQL item repository
func NewItemRepository(db *sqlx.DB) *ItemRepositoryImpl {
	return &ItemRepositoryImpl{db: db}
}

var _ ports.ItemRepository = (*ItemRepositoryImpl)(nil)
var _ ports.ItemBankWriter = (*ItemRepositoryImpl)(nil)

// ListScales returns all scales ordered by display order
func (r *ItemRepositoryImpl) ListScales(ctx context.Context) ([]*models.Scale, error) {
	var scales []*models.Scale
	err := r.db.SelectContext(ctx, &scales, `
		SELECT id, name, domain, description, display_order, created_at
		FROM scales
		ORDER BY display_order ASC, id ASC
	`)
	return scales, err
}

// GetScale retrieves a scale by ID
func (r *ItemRepositoryImpl) GetScale(ctx context.Context, id core.ScaleID) (*models.Scale, error) {
	var scale models.Scale
	err := r.db.GetContext(ctx, &scale, `
		SELECT id, name, domain, description, display_order, created_at
		FROM scales
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("scale", id.String())
	}
	if err != nil {
		return nil, err
	}
	return &scale, nil
}

// GetItem retrieves an item by ID
func (r *ItemRepositoryImpl) GetItem(ctx context.Context, id core.ItemID) (*models.Item, error) {
	var item models.Item
	err := r.db.GetContext(ctx, &item, `
		SELECT `+itemColumns+` FROM items WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("item", id.String())
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItemsByScale returns a scale's items ordered by position
func (r *ItemRepositoryImpl) ListItemsByScale(ctx context.Context, scaleID core.ScaleID) ([]*models.Item, error) {
	var items []*models.Item
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+itemColumns+` FROM items WHERE scale_id = $1 ORDER BY position ASC
	`, scaleID)
	return items, err
}

// ListItemsByDomain returns all items of the scales in a domain, ordered by
// scale display order then item position
func (r *ItemRepositoryImpl) ListItemsByDomain(ctx context.Context, domain models.ScaleDomain) ([]*models.Item, error) {
	var items []*models.Item
	err := r.db.SelectContext(ctx, &items, `
		SELECT i.id, i.scale_id, i.text, i.format, i.options, i.correct_answer, i.discrimination, i.difficulty, i.guessing, i.loadings, i.reversed, i.is_distortion, i.active, i.position, i.created_at
		FROM items i
		JOIN scales s ON s.id = i.scale_id
		WHERE s.domain = $1
		ORDER BY s.display_order ASC, i.position ASC
	`, domain)
	return items, err
}

// ReplaceItemBank atomically replaces all scales and items
func (r *ItemRepositoryImpl) ReplaceItemBank(ctx context.Context, scales []*models.Scale, items []*models.Item) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scales`); err != nil {
		return err
	}

	for _, scale := range scales {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO scales (id, name, domain, description, display_order, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, scale.ID, scale.Name, scale.Domain, scale.Description, scale.DisplayOrder, scale.CreatedAt)
		if err != nil {
			return err
		}
	}

	for _, item := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO items (id, scale_id, text, format, options, correct_answer, discrimination, difficulty, guessing, loadings, reversed, is_distortion, active, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`, item.ID, item.ScaleID, item.Text, item.Format, item.Options, item.CorrectAnswer,
			item.Discrimination, item.Difficulty, item.Guessing, item.Loadings,
			item.Reversed, item.IsDistortion, item.Active, item.Position, item.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
