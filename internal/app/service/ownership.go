package service

import (
	"errors"

	"gorm.io/gorm"
)

// loadOwned fetches an entity and checks that requesterID owns it. A missing
// row maps to notFound. A foreign row maps to forbidden, or to notFound when
// forbidden is nil so the caller cannot tell the two apart.
func loadOwned[T any](
	load func() (*T, error),
	ownerOf func(*T) uint,
	requesterID uint,
	notFound, forbidden error,
) (*T, error) {
	entity, err := load()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	if ownerOf(entity) != requesterID {
		if forbidden != nil {
			return nil, forbidden
		}
		return nil, notFound
	}
	return entity, nil
}
