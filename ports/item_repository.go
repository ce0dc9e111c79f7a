package ports

import (
	"context"

	"psymatch/domain/core"
	"psymatch/models"
)

// ItemRepository defines read access to the item bank.
type ItemRepository interface {
	// ListScales returns all scales ordered by display order
	ListScales(ctx context.Context) ([]*models.Scale, error)

	// GetScale retrieves a scale by ID
	GetScale(ctx context.Context, id core.ScaleID) (*models.Scale, error)

	// GetItem retrieves an item by ID
	GetItem(ctx context.Context, id core.ItemID) (*models.Item, error)

	// ListItemsByScale returns a scale's items ordered by position
	ListItemsByScale(ctx context.Context, scaleID core.ScaleID) ([]*models.Item, error)

	// ListItemsByDomain returns all items of the scales in a domain, ordered
	// by scale display order then item position
	ListItemsByDomain(ctx context.Context, domain models.ScaleDomain) ([]*models.Item, error)
}

// ItemBankWriter defines bulk ingestion of scales and items, used by the
// workbook importer.
type ItemBankWriter interface {
	// ReplaceItemBank atomically replaces all scales and items
	ReplaceItemBank(ctx context.Context, scales []*models.Scale, items []*models.Item) error
}
