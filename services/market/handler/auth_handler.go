package handler

import (
	"net/http"
	"time"

	"auction-marketplace/services/market/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// CookieOptions controls the session cookie written on login
type CookieOptions struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	service AuthServiceInterface
	cookie  CookieOptions
}

func NewAuthHandler(service AuthServiceInterface, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{service: service, cookie: cookie}
}

// RegisterHandler handles POST /auth/register
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req helpers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		helpers.RespondError(c, "RegisterHandler", err, map[string]any{"username": req.Username})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, "user", user, "user registered successfully")
	helpers.LogSuccess("RegisterHandler", "user registered successfully", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// LoginHandler handles POST /auth/login and sets the session cookie
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	session, user, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		helpers.RespondError(c, "LoginHandler", err, map[string]any{"username": req.Username})
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, session.Token, maxAge, "/", "", h.cookie.Secure, true)

	resp := helpers.SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
		UserID:    user.ID,
		Role:      user.Role,
	}
	utils.JSONResponse(c, http.StatusOK, "session", resp, "logged in successfully")
	helpers.LogSuccess("LoginHandler", "logged in successfully", map[string]any{
		"user_id":    user.ID,
		"session_id": session.ID,
	})
}

// LogoutHandler handles POST /auth/logout
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	actor := helpers.CurrentActor(c)
	token := helpers.SessionToken(c, h.cookie.Name)
	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		helpers.RespondError(c, "LogoutHandler", err, nil)
		return
	}

	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	utils.JSONResponse(c, http.StatusOK, "", nil, "logged out successfully")
	helpers.LogSuccess("LogoutHandler", "logged out successfully", map[string]any{"user_id": actor.UserID})
}

// MeHandler handles GET /auth/me
func (h *AuthHandler) MeHandler(c *gin.Context) {
	actor := helpers.CurrentActor(c)
	user, err := h.service.Me(c.Request.Context(), actor)
	if err != nil {
		helpers.RespondError(c, "MeHandler", err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, "user", user, "user retrieved successfully")
}
