package pagination

import (
	"testing"

	cerrors "github.com/catalog-kit/product-catalog/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int32) *int32 { return &v }

func Test_Normalize(t *testing.T) {
	testCases := []struct {
		name        string
		rawPage     *int32
		rawSize     *int32
		expected    PageRequest
		expectField string
	}{
		{
			name:     "Defaults - both absent",
			rawPage:  nil,
			rawSize:  nil,
			expected: PageRequest{Page: 0, Size: DefaultSize},
		},
		{
			name:     "Explicit valid values",
			rawPage:  ptr(3),
			rawSize:  ptr(25),
			expected: PageRequest{Page: 3, Size: 25},
		},
		{
			name:     "Size at the cap is accepted",
			rawPage:  ptr(0),
			rawSize:  ptr(100),
			expected: PageRequest{Page: 0, Size: 100},
		},
		{
			name:        "Size above the cap is rejected, not clamped",
			rawPage:     ptr(0),
			rawSize:     ptr(101),
			expectField: "size",
		},
		{
			name:        "Zero size is rejected",
			rawSize:     ptr(0),
			expectField: "size",
		},
		{
			name:        "Negative size is rejected",
			rawSize:     ptr(-5),
			expectField: "size",
		},
		{
			name:        "Negative page is rejected",
			rawPage:     ptr(-1),
			expectField: "page",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			got, err := Normalize(tc.rawPage, tc.rawSize)
			// then
			if tc.expectField != "" {
				var validationErr *cerrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tc.expectField, validationErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func Test_PageRequest_Offset(t *testing.T) {
	assert.Equal(t, int64(0), PageRequest{Page: 0, Size: 10}.Offset())
	assert.Equal(t, int64(50), PageRequest{Page: 5, Size: 10}.Offset())
	// page*size exceeds int32 range; the offset must stay positive
	assert.Equal(t, int64(2147483700), PageRequest{Page: 21474837, Size: 100}.Offset())
}
