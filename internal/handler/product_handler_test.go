package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bakery-storefront/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func productRouter(svc *MockProductService) http.Handler {
	h := NewProductHandler(svc, zerolog.Nop())
	r := chi.NewRouter()
	r.Get("/api/products", h.List)
	r.Get("/api/products/{id}", h.Get)
	r.Get("/api/admin/products", h.ListAll)
	r.Put("/api/admin/products", h.Save)
	r.Patch("/api/admin/products/{id}/active", h.SetActive)
	return r
}

func TestProductHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		expectedLimit  int
		expectedOffset int
		mockReturn     []model.Product
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "default pagination",
			expectedLimit:  50,
			mockReturn:     []model.Product{{ID: "croissant", Name: "Butter Croissant", Price: 375, IsActive: true}},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "custom pagination",
			queryParams:    "?limit=10&offset=20",
			expectedLimit:  10,
			expectedOffset: 20,
			mockReturn:     []model.Product{},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "invalid limit",
			queryParams:    "?limit=abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid offset",
			queryParams:    "?offset=xyz",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "service error",
			expectedLimit:  50,
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			if tt.expectService {
				if tt.mockError != nil {
					svc.On("ListMenu", mock.Anything, tt.expectedLimit, tt.expectedOffset).Return(nil, tt.mockError)
				} else {
					svc.On("ListMenu", mock.Anything, tt.expectedLimit, tt.expectedOffset).Return(tt.mockReturn, nil)
				}
			}

			w := httptest.NewRecorder()
			productRouter(svc).ServeHTTP(w, newRequest(http.MethodGet, "/api/products"+tt.queryParams, "", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				svc.AssertExpectations(t)
			} else {
				svc.AssertNotCalled(t, "ListMenu", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestProductHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("GetByID", mock.Anything, "loaf").Return(&model.Product{ID: "loaf", Name: "Sourdough Loaf", Price: 900, IsActive: true}, nil)

		w := httptest.NewRecorder()
		productRouter(svc).ServeHTTP(w, newRequest(http.MethodGet, "/api/products/loaf", "", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var got model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, int64(900), got.Price)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("GetByID", mock.Anything, "ghost").Return(nil, model.ErrProductNotFound)

		w := httptest.NewRecorder()
		productRouter(svc).ServeHTTP(w, newRequest(http.MethodGet, "/api/products/ghost", "", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, model.ErrCodeProductNotFound, resp.Error)
	})
}

func TestProductHandler_Admin(t *testing.T) {
	t.Run("list all passes the principal", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("ListAll", mock.Anything, staff).Return([]model.Product{{ID: "a"}}, nil)

		w := httptest.NewRecorder()
		productRouter(svc).ServeHTTP(w, newRequest(http.MethodGet, "/api/admin/products", "", staff))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("save", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("Save", mock.Anything, owner, mock.MatchedBy(func(req *model.ProductRequest) bool {
			return req.Name == "Rye" && req.Price == 700
		})).Return(&model.Product{ID: "rye", Name: "Rye", Price: 700}, nil)

		w := httptest.NewRecorder()
		productRouter(svc).ServeHTTP(w, newRequest(http.MethodPut, "/api/admin/products", `{"name":"Rye","price":700}`, owner))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("save forbidden", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("Save", mock.Anything, staff, mock.Anything).Return(nil, model.ErrForbidden)

		w := httptest.NewRecorder()
		productRouter(svc).ServeHTTP(w, newRequest(http.MethodPut, "/api/admin/products", `{"name":"Rye","price":700}`, staff))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("save invalid json", func(t *testing.T) {
		svc := new(MockProductService)

		w := httptest.NewRecorder()
		productRouter(svc).ServeHTTP(w, newRequest(http.MethodPut, "/api/admin/products", `{"name":`, owner))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, model.ErrCodeInvalidJSON, resp.Error)
		svc.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("set active", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("SetActive", mock.Anything, owner, "loaf", false).Return(&model.Product{ID: "loaf"}, nil)

		w := httptest.NewRecorder()
		productRouter(svc).ServeHTTP(w, newRequest(http.MethodPatch, "/api/admin/products/loaf/active", `{"isActive":false}`, owner))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("set active requires the flag", func(t *testing.T) {
		svc := new(MockProductService)

		w := httptest.NewRecorder()
		productRouter(svc).ServeHTTP(w, newRequest(http.MethodPatch, "/api/admin/products/loaf/active", `{}`, owner))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
