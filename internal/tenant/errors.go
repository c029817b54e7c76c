package tenant

import "errors"

var (
	// ErrStoreNotFound indicates no store exists for the requested slug.
	ErrStoreNotFound = errors.New("store not found")

	// ErrStoreInactive indicates the store exists but is not published.
	ErrStoreInactive = errors.New("store is not active")
)
