package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiendita/shop-api/internal/cart"
	"github.com/tiendita/shop-api/internal/httpx"
)

type addCartItemRequest struct {
	ItemID   string `json:"item_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity int    `json:"quantity" example:"2"`
}

// addCartItemHandler handles POST /cart. Adding an item already in the
// cart merges quantities and returns the existing line id.
//
// @Summary  Add an item to the cart
// @Accept   json
// @Produce  json
// @Param    body body addCartItemRequest true "item and quantity"
// @Success  200 {object} map[string]string
// @Failure  404 {object} HTTPError
// @Router   /cart [post]
func addCartItemHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addCartItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, HTTPError{Error: "invalid json"})
			return
		}
		lineID, err := svc.AddItem(c.Request.Context(), c.GetString(httpx.KeyMemberID), in.ItemID, in.Quantity)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"line_id": lineID})
	}
}

// listCartHandler handles GET /cart.
//
// @Summary  List the member's cart
// @Produce  json
// @Success  200 {array} cart.Detail
// @Router   /cart [get]
func listCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		details, err := svc.List(c.Request.Context(), c.GetString(httpx.KeyMemberID))
		if err != nil {
			writeErr(c, err)
			return
		}
		if details == nil {
			details = []cart.Detail{}
		}
		c.JSON(http.StatusOK, details)
	}
}

type updateCartLineRequest struct {
	Quantity int `json:"quantity" example:"3"`
}

// updateCartLineHandler handles PATCH /cart/lines/:id. Stock is not
// checked here; only order placement touches stock.
func updateCartLineHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in updateCartLineRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, HTTPError{Error: "invalid json"})
			return
		}
		err := svc.UpdateQuantity(c.Request.Context(), c.GetString(httpx.KeyMemberID), c.Param("id"), in.Quantity)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"line_id": c.Param("id")})
	}
}

// deleteCartLineHandler handles DELETE /cart/lines/:id.
func deleteCartLineHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.Remove(c.Request.Context(), c.GetString(httpx.KeyMemberID), c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"line_id": c.Param("id")})
	}
}
