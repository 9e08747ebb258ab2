// Package pagination normalizes raw page/size parameters into a bounded
// query plan before they reach the store.
package pagination

import (
	"fmt"

	cerrors "github.com/catalog-kit/product-catalog/internal/errors"
)

const (
	// DefaultSize is applied when the caller does not supply a page size.
	DefaultSize int32 = 10
	// MaxSize is the hard cap on the page size.
	MaxSize int32 = 100
)

// PageRequest is a validated, bounded query plan. Results are always
// ordered by product ID ascending: the category filter column itself
// carries no ordering meaning within a filtered result set.
type PageRequest struct {
	Page int32
	Size int32
}

// Offset returns the row offset for the plan. The product of two int32
// values can exceed int32 range, so the offset is computed in int64.
func (p PageRequest) Offset() int64 {
	return int64(p.Page) * int64(p.Size)
}

// Normalize validates raw page/size inputs. Absent values (nil) fall back
// to defaults; explicitly supplied out-of-range values are rejected with
// a ValidationError, never silently clamped.
func Normalize(rawPage, rawSize *int32) (PageRequest, error) {
	page := int32(0)
	if rawPage != nil {
		if *rawPage < 0 {
			return PageRequest{}, &cerrors.ValidationError{Field: "page", Reason: fmt.Sprintf("must be >= 0, got %d", *rawPage)}
		}
		page = *rawPage
	}

	size := DefaultSize
	if rawSize != nil {
		if *rawSize <= 0 {
			return PageRequest{}, &cerrors.ValidationError{Field: "size", Reason: fmt.Sprintf("must be > 0, got %d", *rawSize)}
		}
		if *rawSize > MaxSize {
			return PageRequest{}, &cerrors.ValidationError{Field: "size", Reason: fmt.Sprintf("must be <= %d, got %d", MaxSize, *rawSize)}
		}
		size = *rawSize
	}

	return PageRequest{Page: page, Size: size}, nil
}
