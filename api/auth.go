package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/service/auth"
	"github.com/Jigar634859/skyportal/internal/wire"
)

type AuthHandler struct {
	service auth.AuthUseCase
}

func NewAuthHandler(service auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST(wire.PathAdminLogin, h.adminLogin)
	router.POST(wire.PathUserLogin, h.userLogin)
	router.POST(wire.PathUserRegister, h.userRegister)
}

func (h *AuthHandler) adminLogin(c *gin.Context) {
	var req wire.AdminLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	tok, err := h.service.AdminLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wire.TokenResponse{Token: tok})
}

func (h *AuthHandler) userLogin(c *gin.Context) {
	var req wire.UserLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.UserLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) userRegister(c *gin.Context) {
	var req domain.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.UserRegister(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
