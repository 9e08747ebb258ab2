package store

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	cerrors "github.com/catalog-kit/product-catalog/internal/errors"
	"github.com/catalog-kit/product-catalog/internal/pagination"
	"github.com/google/uuid"
)

// inMemory implements ProductStore using an in-memory map.
// Useful for tests and for running the service without a database.
type inMemory struct {
	mu       sync.RWMutex
	products map[uuid.UUID]Product
}

// NewInMemoryStore creates a new instance of ProductStore
func NewInMemoryStore() ProductStore {
	return &inMemory{
		products: make(map[uuid.UUID]Product),
	}
}

// Insert persists a new product under a fresh random ID.
// Random UUIDs also guarantee an ID is never reused after deletion.
func (s *inMemory) Insert(_ context.Context, category, name string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:        uuid.New(),
		Category:  category,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.products[product.ID] = product

	return &product, nil
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(_ context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, &cerrors.NotFoundError{ID: id}
	}
	return &product, nil
}

// Replace overwrites both mutable fields of an existing product under one
// lock acquisition, so concurrent replacers never interleave per field.
func (s *inMemory) Replace(_ context.Context, id uuid.UUID, category, name string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, &cerrors.NotFoundError{ID: id}
	}
	product.Category = category
	product.Name = name
	s.products[id] = product

	return &product, nil
}

// DeleteByID deletes a product by its ID.
func (s *inMemory) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return &cerrors.NotFoundError{ID: id}
	}
	delete(s.products, id)
	return nil
}

// QueryByCategory returns one page of products in the given category,
// ordered by ID bytes to match the PostgreSQL uuid ordering.
func (s *inMemory) QueryByCategory(_ context.Context, category string, page pagination.PageRequest) (*PageResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Product, 0)
	for _, product := range s.products {
		if product.Category == category {
			matched = append(matched, product)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return bytes.Compare(matched[i].ID[:], matched[j].ID[:]) < 0
	})

	total := int64(len(matched))
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + int64(page.Size)
	if end > total {
		end = total
	}

	return &PageResult{
		Items:         matched[start:end],
		TotalElements: total,
		TotalPages:    TotalPages(total, page.Size),
		Page:          page.Page,
	}, nil
}

// DistinctCategories returns the category values currently in use.
func (s *inMemory) DistinctCategories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, product := range s.products {
		if _, ok := seen[product.Category]; ok {
			continue
		}
		seen[product.Category] = struct{}{}
		categories = append(categories, product.Category)
	}
	sort.Strings(categories)
	return categories, nil
}
