package core

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	// ActivityID is the unique identifier of an activity.
	ActivityID uuid.UUID

	// CategoryID is the unique identifier of a category. It is structurally
	// identical to ActivityID but the two are deliberately not interchangeable.
	CategoryID uuid.UUID
)

// NewActivityID returns a random activity identifier.
func NewActivityID() ActivityID {
	return ActivityID(uuid.New())
}

// ParseActivityID parses the canonical UUID representation of an activity
// identifier. It fails with ErrInvalidID for anything that is not a UUID.
func ParseActivityID(s string) (ActivityID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ActivityID{}, fmt.Errorf("%w: %q is not a valid activity id", ErrInvalidID, s)
	}
	return ActivityID(u), nil
}

func (id ActivityID) String() string {
	return uuid.UUID(id).String()
}

// NewCategoryID returns a random category identifier.
func NewCategoryID() CategoryID {
	return CategoryID(uuid.New())
}

// ParseCategoryID parses the canonical UUID representation of a category
// identifier. It fails with ErrInvalidID for anything that is not a UUID.
func ParseCategoryID(s string) (CategoryID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return CategoryID{}, fmt.Errorf("%w: %q is not a valid category id", ErrInvalidID, s)
	}
	return CategoryID(u), nil
}

func (id CategoryID) String() string {
	return uuid.UUID(id).String()
}
