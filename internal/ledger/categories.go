package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"workpulse/internal/core"
)

// Categories manages the category list through an injected repository.
type Categories struct {
	categories CategoryRepository
}

// NewCategories creates the category use case over the given repository.
func NewCategories(categories CategoryRepository) *Categories {
	return &Categories{categories: categories}
}

// Create adds a category with a fresh identifier. It fails with
// core.ErrDuplicateName when a category with the same name already exists.
func (c *Categories) Create(ctx context.Context, name string) (core.Category, error) {
	existing, err := c.categories.GetAll(ctx)
	if err != nil {
		return core.Category{}, fmt.Errorf("list categories: %w", err)
	}
	for _, cat := range existing {
		if cat.Name == name {
			return core.Category{}, fmt.Errorf("%w: %q", core.ErrDuplicateName, name)
		}
	}

	category := core.NewCategory(name)
	if err := c.categories.Add(ctx, category); err != nil {
		return core.Category{}, fmt.Errorf("create category %q: %w", name, err)
	}

	slog.InfoContext(ctx, "Category created", "id", category.ID, "name", name)
	return category, nil
}

// Categories returns every category.
func (c *Categories) Categories(ctx context.Context) ([]core.Category, error) {
	return c.categories.GetAll(ctx)
}

// GetByID fetches a single category.
func (c *Categories) GetByID(ctx context.Context, id core.CategoryID) (core.Category, error) {
	category, err := c.categories.GetByID(ctx, id)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %s: %w", id, err)
	}
	return category, nil
}

// Update replaces the stored category that carries the same identifier.
func (c *Categories) Update(ctx context.Context, category core.Category) error {
	if err := c.categories.Update(ctx, category); err != nil {
		return fmt.Errorf("update category %s: %w", category.ID, err)
	}
	return nil
}

// Delete removes a category. Referential cleanup of activities that still
// point at it is the caller's responsibility.
func (c *Categories) Delete(ctx context.Context, id core.CategoryID) error {
	if err := c.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}

// GetOrCreate resolves a name to its category, creating one if needed.
func (c *Categories) GetOrCreate(ctx context.Context, name string) (core.Category, error) {
	category, err := c.categories.GetOrCreateByName(ctx, name)
	if err != nil {
		return core.Category{}, fmt.Errorf("get or create category %q: %w", name, err)
	}
	return category, nil
}
