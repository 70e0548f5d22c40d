package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/tiendita/shop-api/internal/cart"
	"github.com/tiendita/shop-api/internal/catalog"
	"github.com/tiendita/shop-api/internal/httpx"
	"github.com/tiendita/shop-api/internal/member"
	"github.com/tiendita/shop-api/internal/order"
)

type services struct {
	members *member.Service
	items   *catalog.Service
	carts   *cart.Service
	orders  *order.Service
	imgDir  string
	imgURL  string
}

func newRouter(s services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if s.imgDir != "" {
		r.Static(s.imgURL, s.imgDir)
	}

	r.POST("/members", registerMemberHandler(s.members))
	r.POST("/members/login", loginHandler(s.members))
	r.GET("/items", listItemsHandler(s.items))
	r.GET("/items/:id", getItemHandler(s.items))

	auth := r.Group("", httpx.Auth(s.members))
	auth.POST("/members/logout", logoutHandler(s.members))
	auth.POST("/cart", addCartItemHandler(s.carts))
	auth.GET("/cart", listCartHandler(s.carts))
	auth.PATCH("/cart/lines/:id", updateCartLineHandler(s.carts))
	auth.DELETE("/cart/lines/:id", deleteCartLineHandler(s.carts))
	auth.POST("/cart/orders", placeCartOrderHandler(s.orders))
	auth.POST("/orders", placeOrderHandler(s.orders))
	auth.GET("/orders", listOrdersHandler(s.orders))
	auth.POST("/orders/:id/cancel", cancelOrderHandler(s.orders))

	admin := auth.Group("/admin", httpx.RequireAdmin())
	admin.POST("/items", createItemHandler(s.items))
	admin.PUT("/items/:id", updateItemHandler(s.items))
	admin.GET("/items", adminListItemsHandler(s.items))

	return r
}
