// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"

	"github.com/catalog-kit/product-catalog/internal/pagination"
	"github.com/google/uuid"
)

// Product is a row snapshot handed to callers. The store never retains a
// reference to a returned value, so snapshots are safe to keep.
type Product struct {
	ID        uuid.UUID
	Category  string
	Name      string
	CreatedAt time.Time
}

// PageResult is one page of products together with totals computed against
// the same filter and the same snapshot as the items.
type PageResult struct {
	Items         []Product
	TotalElements int64
	TotalPages    int32
	Page          int32
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// Insert persists a new product with a freshly assigned ID and returns its snapshot.
	// Fails only on an underlying storage fault.
	Insert(ctx context.Context, category, name string) (*Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns NotFoundError if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Replace atomically overwrites both mutable fields of an existing row
	// in a single write. Returns NotFoundError if the row does not exist at
	// the time of the write.
	Replace(ctx context.Context, id uuid.UUID, category, name string) (*Product, error)

	// DeleteByID removes a product by its ID. Existence is checked by the
	// delete itself (affected-row count), never by a prior read.
	// Returns NotFoundError if no product exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// QueryByCategory returns one page of products in the given category,
	// ordered by ID. Items and totals come from one consistent snapshot.
	QueryByCategory(ctx context.Context, category string, page pagination.PageRequest) (*PageResult, error)

	// DistinctCategories returns the category values currently in use,
	// without duplicates.
	DistinctCategories(ctx context.Context) ([]string, error)
}

// TotalPages computes the page count for a filter total under the given size.
func TotalPages(totalElements int64, size int32) int32 {
	if totalElements == 0 {
		return 0
	}
	return int32((totalElements + int64(size) - 1) / int64(size))
}
