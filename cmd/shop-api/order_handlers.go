package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tiendita/shop-api/internal/httpx"
	"github.com/tiendita/shop-api/internal/order"
)

type placeOrderRequest struct {
	ItemID   string `json:"item_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity int    `json:"quantity" example:"1"`
}

// placeOrderHandler handles POST /orders — a direct single-item order.
//
// @Summary  Place a direct order
// @Accept   json
// @Produce  json
// @Param    body body placeOrderRequest true "item and quantity"
// @Success  201 {object} map[string]string
// @Failure  409 {object} HTTPError "insufficient stock, body carries current stock"
// @Router   /orders [post]
func placeOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in placeOrderRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, HTTPError{Error: "invalid json"})
			return
		}
		orderID, err := svc.PlaceDirect(c.Request.Context(), c.GetString(httpx.KeyMemberID), in.ItemID, in.Quantity)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order_id": orderID})
	}
}

type cartOrderRequest struct {
	CartLineIDs []string `json:"cart_line_ids"`
}

// placeCartOrderHandler handles POST /cart/orders — orders the selected
// cart lines as one order and removes them from the cart.
//
// @Summary  Order selected cart lines
// @Accept   json
// @Produce  json
// @Param    body body cartOrderRequest true "selected cart line ids"
// @Success  201 {object} map[string]string
// @Failure  403 {object} HTTPError "a selected line belongs to another member"
// @Router   /cart/orders [post]
func placeCartOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cartOrderRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, HTTPError{Error: "invalid json"})
			return
		}
		orderID, err := svc.PlaceFromCart(c.Request.Context(), c.GetString(httpx.KeyMemberID), in.CartLineIDs)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order_id": orderID})
	}
}

// listOrdersHandler handles GET /orders?page= — the purchase history,
// newest first.
//
// @Summary  Order history
// @Produce  json
// @Param    page query int false "zero-based page"
// @Success  200 {object} order.HistoryPage
// @Router   /orders [get]
func listOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.Query("page"))
		hist, err := svc.ListHistory(c.Request.Context(), c.GetString(httpx.KeyMemberID), page)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, hist)
	}
}

// cancelOrderHandler handles POST /orders/:id/cancel.
//
// @Summary  Cancel an order
// @Produce  json
// @Param    id path string true "order id"
// @Success  200 {object} map[string]string
// @Failure  409 {object} HTTPError "order is not in PLACED state"
// @Router   /orders/{id}/cancel [post]
func cancelOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.Cancel(c.Request.Context(), c.GetString(httpx.KeyMemberID), c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id")})
	}
}
