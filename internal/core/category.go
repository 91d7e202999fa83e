package core

// Category is a named bucket that activities are tracked against. Names are
// kept unique by the use-case layer, not by this type.
type Category struct {
	ID   CategoryID
	Name string
}

// NewCategory creates a category with a fresh random identifier.
func NewCategory(name string) Category {
	return Category{ID: NewCategoryID(), Name: name}
}

// CategoryWithID rehydrates a category from storage under its existing
// identifier.
func CategoryWithID(id CategoryID, name string) Category {
	return Category{ID: id, Name: name}
}
