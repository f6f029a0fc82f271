package domain

import "context"

// CategoryRepository defines the interface for category-related operations
type CategoryRepository interface {
	// List retrieves every category ordered by ID
	List(ctx context.Context) ([]Category, error)

	// GetByID retrieves a category by its ID
	GetByID(ctx context.Context, id int) (*Category, error)

	// BulkCreate inserts categories in order, assigning their IDs
	BulkCreate(ctx context.Context, categories []*Category) error
}

// Category groups questions under a label such as "Science"
type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// CategoryTypes maps category IDs to their labels
func CategoryTypes(categories []Category) map[int]string {
	types := make(map[int]string, len(categories))
	for _, c := range categories {
		types[c.ID] = c.Type
	}
	return types
}
