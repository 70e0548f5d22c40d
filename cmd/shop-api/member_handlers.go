package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiendita/shop-api/internal/httpx"
	"github.com/tiendita/shop-api/internal/member"
)

// registerMemberHandler handles POST /members.
//
// @Summary  Register a member
// @Accept   json
// @Produce  json
// @Param    body body member.RegisterInput true "registration form"
// @Success  201 {object} member.Member
// @Failure  409 {object} HTTPError "email already registered"
// @Router   /members [post]
func registerMemberHandler(svc *member.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in member.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, HTTPError{Error: "invalid json"})
			return
		}
		if in.Email == "" || in.Password == "" || in.Name == "" {
			c.JSON(http.StatusBadRequest, HTTPError{Error: "name, email and password are required"})
			return
		}
		m, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, m)
	}
}

type loginRequest struct {
	Email    string `json:"email" example:"ana@example.com"`
	Password string `json:"password" example:"s3cret"`
}

type loginResponse struct {
	Token  string         `json:"token"`
	Member *member.Member `json:"member"`
}

// loginHandler handles POST /members/login.
//
// @Summary  Log in and obtain a bearer token
// @Accept   json
// @Produce  json
// @Param    body body loginRequest true "credentials"
// @Success  200 {object} loginResponse
// @Failure  401 {object} HTTPError
// @Router   /members/login [post]
func loginHandler(svc *member.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, HTTPError{Error: "invalid json"})
			return
		}
		token, m, err := svc.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, loginResponse{Token: token, Member: m})
	}
}

// logoutHandler handles POST /members/logout (authenticated).
func logoutHandler(svc *member.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Logout(c.Request.Context(), c.GetString(httpx.KeyToken)); err != nil {
			writeErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
