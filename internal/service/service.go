// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	cerrors "github.com/catalog-kit/product-catalog/internal/errors"
	"github.com/catalog-kit/product-catalog/internal/pagination"
	"github.com/catalog-kit/product-catalog/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// Create validates and adds a new product to the catalog.
	// Returns ValidationError if the input is rejected before any write.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns NotFoundError if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*ProductDto, error)

	// Update overwrites both fields of an existing product in one atomic
	// write. Returns NotFoundError if no product exists with the given ID,
	// ValidationError if the input is rejected.
	Update(ctx context.Context, id uuid.UUID, product ProductUpdateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID without a prior existence read.
	// Returns NotFoundError if no product exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// ListByCategory returns one page of products in the given category.
	// Absent page/size fall back to defaults; explicit out-of-range values
	// are rejected with ValidationError.
	ListByCategory(ctx context.Context, category string, rawPage, rawSize *int32) (*ProductListDto, error)

	// ListCategories returns the distinct category values in use.
	ListCategories(ctx context.Context) ([]string, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	validate   *validator.Validate
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	validate := validator.New()
	// Report field names as their json names so errors reference the wire format.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Service{
		repository: repo,
		validate:   validate,
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	Category string `json:"category" validate:"required,notblank,max=100"`
	Name     string `json:"name"     validate:"required,notblank,max=200"`
}

// ProductUpdateDto represents the data transfer object for replacing a
// product's fields. Both fields are required: updates are full
// replacements, never per-field merges.
type ProductUpdateDto struct {
	Category string `json:"category" validate:"required,notblank,max=100"`
	Name     string `json:"name"     validate:"required,notblank,max=200"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductListDto is one page of products with totals computed against the
// same category filter as the items.
type ProductListDto struct {
	Items         []ProductDto `json:"items"`
	TotalElements int64        `json:"total_elements"`
	TotalPages    int32        `json:"total_pages"`
	Page          int32        `json:"page"`
}

// Create validates the input and persists a new product.
// Validation runs before any store access, so a rejected call has no side effects.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	if err := s.validateStruct(product); err != nil {
		return nil, err
	}
	created, err := s.repository.Insert(ctx, product.Category, product.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return toDto(created), nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns NotFoundError if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	return toDto(product), nil
}

// Update validates the input and overwrites both fields of the product in
// one atomic store write. A concurrent update either lands entirely before
// or entirely after this one; field-level interleaving cannot occur.
func (s *Service) Update(ctx context.Context, id uuid.UUID, product ProductUpdateDto) (*ProductDto, error) {
	if err := s.validateStruct(product); err != nil {
		return nil, err
	}
	updated, err := s.repository.Replace(ctx, id, product.Category, product.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}
	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
// Returns NotFoundError if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return s.repository.DeleteByID(ctx, id)
}

// ListByCategory normalizes pagination parameters and returns one page of
// products in the given category.
func (s *Service) ListByCategory(ctx context.Context, category string, rawPage, rawSize *int32) (*ProductListDto, error) {
	page, err := pagination.Normalize(rawPage, rawSize)
	if err != nil {
		return nil, err
	}
	result, err := s.repository.QueryByCategory(ctx, category, page)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products by category %q: %w", category, err)
	}

	items := make([]ProductDto, len(result.Items))
	for i, item := range result.Items {
		items[i] = *toDto(&item)
	}
	return &ProductListDto{
		Items:         items,
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages,
		Page:          result.Page,
	}, nil
}

// ListCategories returns the distinct category values in use.
func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repository.DistinctCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// validateStruct maps validator failures to the service's ValidationError.
func (s *Service) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fieldErr := validationErrors[0]
		return &cerrors.ValidationError{Field: fieldErr.Field(), Reason: reason(fieldErr)}
	}
	return &cerrors.ValidationError{Field: "body", Reason: err.Error()}
}

func reason(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldErr.Param())
	default:
		return "failed on rule: " + fieldErr.Tag()
	}
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:        product.ID.String(),
		Category:  product.Category,
		Name:      product.Name,
		CreatedAt: product.CreatedAt,
	}
}
