package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bakery-storefront/internal/cart"
	"bakery-storefront/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cartRouter(svc *MockCartService) http.Handler {
	h := NewCartHandler(svc, zerolog.Nop())
	r := chi.NewRouter()
	r.Get("/api/cart", h.Get)
	r.Delete("/api/cart", h.Clear)
	r.Post("/api/cart/items", h.AddItem)
	r.Patch("/api/cart/items/{productId}", h.SetQuantity)
	r.Delete("/api/cart/items/{productId}", h.RemoveItem)
	return r
}

func filledCart() *cart.Cart {
	c := cart.New(decimal.NewFromFloat(0.082))
	c.AddN(model.Product{ID: "croissant", Name: "Butter Croissant", Price: 375}, 2)
	c.Add(model.Product{ID: "loaf", Name: "Sourdough Loaf", Price: 900})
	return c
}

func TestCartHandler_IssuesToken(t *testing.T) {
	svc := new(MockCartService)
	svc.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(cart.New(decimal.Zero), nil)

	w := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(w, newRequest(http.MethodGet, "/api/cart", "", nil))

	require.Equal(t, http.StatusOK, w.Code)
	token := w.Header().Get(CartTokenHeader)
	_, err := uuid.Parse(token)
	require.NoError(t, err)
	assert.True(t, cart.ValidToken(token))
	assert.Equal(t, token, svc.Calls[0].Arguments.String(1))
}

func TestCartHandler_Edits(t *testing.T) {
	t.Run("add item", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("AddItem", mock.Anything, deviceToken, &model.CartItemRequest{ProductID: "croissant", Quantity: 2}).Return(filledCart(), nil)

		req := newRequest(http.MethodPost, "/api/cart/items", `{"id":"croissant","quantity":2}`, nil)
		req.Header.Set(CartTokenHeader, deviceToken)
		w := httptest.NewRecorder()
		cartRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, deviceToken, w.Header().Get(CartTokenHeader))
		var got cart.Cart
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, int64(1650), got.Subtotal)
		assert.Equal(t, int64(1785), got.Total)
	})

	t.Run("set quantity", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("SetQuantity", mock.Anything, deviceToken, "loaf", &model.CartQuantityRequest{Quantity: 3}).Return(filledCart(), nil)

		req := newRequest(http.MethodPatch, "/api/cart/items/loaf", `{"quantity":3}`, nil)
		req.Header.Set(CartTokenHeader, deviceToken)
		w := httptest.NewRecorder()
		cartRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("remove item", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("RemoveItem", mock.Anything, deviceToken, "loaf").Return(filledCart(), nil)

		req := newRequest(http.MethodDelete, "/api/cart/items/loaf", "", nil)
		req.Header.Set(CartTokenHeader, deviceToken)
		w := httptest.NewRecorder()
		cartRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("clear", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("Clear", mock.Anything, deviceToken).Return(nil)

		req := newRequest(http.MethodDelete, "/api/cart", "", nil)
		req.Header.Set(CartTokenHeader, deviceToken)
		w := httptest.NewRecorder()
		cartRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("malformed token", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("Get", mock.Anything, "short").Return(nil, model.ErrInvalidCartToken)

		req := newRequest(http.MethodGet, "/api/cart", "", nil)
		req.Header.Set(CartTokenHeader, "short")
		w := httptest.NewRecorder()
		cartRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("hidden product", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("AddItem", mock.Anything, deviceToken, mock.Anything).Return(nil, model.ErrProductNotFound)

		req := newRequest(http.MethodPost, "/api/cart/items", `{"id":"stollen"}`, nil)
		req.Header.Set(CartTokenHeader, deviceToken)
		w := httptest.NewRecorder()
		cartRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
