package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiendita/shop-api/internal/cart"
	"github.com/tiendita/shop-api/internal/catalog"
	"github.com/tiendita/shop-api/internal/member"
	"github.com/tiendita/shop-api/internal/order"
)

// HTTPError is the standard JSON error body.
// swagger:model
type HTTPError struct {
	Error string `json:"error"`
	// Stock is present only on insufficient-stock responses.
	Stock *int `json:"stock,omitempty"`
}

// writeErr maps the domain error kinds onto HTTP statuses.
func writeErr(c *gin.Context, err error) {
	var insufficient *catalog.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		stock := insufficient.Available
		c.JSON(http.StatusConflict, HTTPError{Error: insufficient.Error(), Stock: &stock})
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, member.ErrNotFound):
		c.JSON(http.StatusNotFound, HTTPError{Error: err.Error()})
	case errors.Is(err, cart.ErrForbidden),
		errors.Is(err, order.ErrForbidden):
		c.JSON(http.StatusForbidden, HTTPError{Error: err.Error()})
	case errors.Is(err, catalog.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrImageRequired),
		errors.Is(err, order.ErrEmptySelection),
		errors.Is(err, order.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, HTTPError{Error: err.Error()})
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, member.ErrDuplicate):
		c.JSON(http.StatusConflict, HTTPError{Error: err.Error()})
	case errors.Is(err, member.ErrBadCredentials),
		errors.Is(err, member.ErrNoSession):
		c.JSON(http.StatusUnauthorized, HTTPError{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, HTTPError{Error: "internal error"})
	}
}
