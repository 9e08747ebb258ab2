package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	cerrors "github.com/catalog-kit/product-catalog/internal/errors"
	"github.com/catalog-kit/product-catalog/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// mockProductService is a mock implementation of the ProductService interface
type mockProductService struct {
	product      *service.ProductDto
	list         *service.ProductListDto
	categories   []string
	error        error
	lastCategory string
}

func (m *mockProductService) Create(_ context.Context, _ service.ProductCreateDto) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) FindByID(_ context.Context, _ uuid.UUID) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) Update(_ context.Context, _ uuid.UUID, _ service.ProductUpdateDto) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) DeleteByID(_ context.Context, _ uuid.UUID) error {
	return m.error
}

func (m *mockProductService) ListByCategory(_ context.Context, category string, _, _ *int32) (*service.ProductListDto, error) {
	m.lastCategory = category
	if m.error != nil {
		return nil, m.error
	}
	return m.list, nil
}

func (m *mockProductService) ListCategories(_ context.Context) ([]string, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.categories, nil
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	ValidationErrors map[string]string `json:"validation_errors"`
}

// toJSON is a helper function to convert a struct to JSON string
func toJSON(t *testing.T, v interface{}) string {
	t.Helper()
	bytes, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal to JSON: %v", err)
	}
	return string(bytes)
}

func newTestHandler(svc service.ProductService) *Handler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewHandler(svc, logger)
}

func Test_ProductAPI_Create(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	testCases := []struct {
		name         string
		mockService  mockProductService
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - product created",
			mockService: mockProductService{
				product: &service.ProductDto{ID: mockID.String(), Category: "전자제품", Name: "노트북"},
			},
			body:         `{"category":"전자제품","name":"노트북"}`,
			expectedCode: http.StatusCreated,
			expectedBody: toJSON(t, service.ProductDto{ID: mockID.String(), Category: "전자제품", Name: "노트북"}),
		},
		{
			name:         "Error - malformed body",
			mockService:  mockProductService{},
			body:         `{not-json`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid request body"}),
		},
		{
			name: "Error - blank category",
			mockService: mockProductService{
				error: &cerrors.ValidationError{Field: "category", Reason: "must not be blank"},
			},
			body:         `{"category":"","name":"X"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{
				ValidationErrors: map[string]string{"category": "must not be blank"},
			}),
		},
		{
			name: "Error - service error",
			mockService: mockProductService{
				error: errors.New("service unavailable"),
			},
			body:         `{"category":"전자제품","name":"노트북"}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to create product"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			// when
			api.Create(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_ProductAPI_FindByID(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	testCases := []struct {
		name         string
		mockService  mockProductService
		productID    string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - product found",
			mockService: mockProductService{
				product: &service.ProductDto{ID: mockID.String(), Category: "가구", Name: "책상"},
			},
			productID:    mockID.String(),
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, service.ProductDto{ID: mockID.String(), Category: "가구", Name: "책상"}),
		},
		{
			name:         "Error - invalid id",
			mockService:  mockProductService{},
			productID:    "123-invalid-id",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid ID: 123-invalid-id"}),
		},
		{
			name: "Error - product not found",
			mockService: mockProductService{
				error: &cerrors.NotFoundError{ID: mockID},
			},
			productID:    mockID.String(),
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with ID " + mockID.String() + " not found"}),
		},
		{
			name: "Error - service error",
			mockService: mockProductService{
				error: errors.New("service unavailable"),
			},
			productID:    mockID.String(),
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to retrieve product with ID " + mockID.String()}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+tc.productID, nil)
			req.SetPathValue("id", tc.productID)
			rr := httptest.NewRecorder()

			// when
			api.FindByID(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_ProductAPI_Update(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	testCases := []struct {
		name         string
		mockService  mockProductService
		productID    string
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - product updated",
			mockService: mockProductService{
				product: &service.ProductDto{ID: mockID.String(), Category: "가구", Name: "의자"},
			},
			productID:    mockID.String(),
			body:         `{"category":"가구","name":"의자"}`,
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, service.ProductDto{ID: mockID.String(), Category: "가구", Name: "의자"}),
		},
		{
			name: "Error - validation failure",
			mockService: mockProductService{
				error: &cerrors.ValidationError{Field: "name", Reason: "must not be blank"},
			},
			productID:    mockID.String(),
			body:         `{"category":"가구","name":" "}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{
				ValidationErrors: map[string]string{"name": "must not be blank"},
			}),
		},
		{
			name: "Error - product not found",
			mockService: mockProductService{
				error: &cerrors.NotFoundError{ID: mockID},
			},
			productID:    mockID.String(),
			body:         `{"category":"가구","name":"의자"}`,
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with ID " + mockID.String() + " not found"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+tc.productID, strings.NewReader(tc.body))
			req.SetPathValue("id", tc.productID)
			rr := httptest.NewRecorder()

			// when
			api.Update(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_ProductAPI_DeleteByID(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	testCases := []struct {
		name         string
		mockService  mockProductService
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product deleted",
			mockService:  mockProductService{},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "Error - product not found",
			mockService: mockProductService{
				error: &cerrors.NotFoundError{ID: mockID},
			},
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with ID " + mockID.String() + " not found"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+mockID.String(), nil)
			req.SetPathValue("id", mockID.String())
			rr := httptest.NewRecorder()

			// when
			api.DeleteByID(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			}
		})
	}
}

func Test_ProductAPI_ListByCategory(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	testCases := []struct {
		name         string
		mockService  mockProductService
		query        string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - page returned",
			mockService: mockProductService{
				list: &service.ProductListDto{
					Items:         []service.ProductDto{{ID: mockID.String(), Category: "전자제품", Name: "노트북"}},
					TotalElements: 1,
					TotalPages:    1,
					Page:          0,
				},
			},
			query:        "?category=전자제품&page=0&size=10",
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, service.ProductListDto{
				Items:         []service.ProductDto{{ID: mockID.String(), Category: "전자제품", Name: "노트북"}},
				TotalElements: 1,
				TotalPages:    1,
				Page:          0,
			}),
		},
		{
			name:         "Error - size not a number",
			mockService:  mockProductService{},
			query:        "?category=전자제품&size=ten",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid size number: ten"}),
		},
		{
			name: "Error - size above the cap",
			mockService: mockProductService{
				error: &cerrors.ValidationError{Field: "size", Reason: "must be <= 100, got 101"},
			},
			query:        "?category=전자제품&size=101",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "invalid size: must be <= 100, got 101"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products"+tc.query, nil)
			rr := httptest.NewRecorder()

			// when
			api.ListByCategory(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_ProductAPI_ListByCategory_AbsentCategory(t *testing.T) {
	// given: no category parameter in the query string
	mockService := mockProductService{
		list: &service.ProductListDto{Items: []service.ProductDto{}, TotalElements: 0, TotalPages: 0, Page: 0},
	}
	api := newTestHandler(&mockService)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rr := httptest.NewRecorder()

	// when
	api.ListByCategory(rr, req)

	// then: the empty string is passed through as the filter value
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "", mockService.lastCategory)
}

func Test_ProductAPI_ListCategories(t *testing.T) {
	t.Run("Success - categories returned", func(t *testing.T) {
		// given
		api := newTestHandler(&mockProductService{categories: []string{"가구", "전자제품"}})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/categories", nil)
		rr := httptest.NewRecorder()

		// when
		api.ListCategories(rr, req)

		// then
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `["가구","전자제품"]`, rr.Body.String())
	})
}
