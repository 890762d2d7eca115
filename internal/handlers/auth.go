package handlers

import (
	"github.com/gin-gonic/gin"

	"radiology-app-server/internal/config"
	"radiology-app-server/internal/middleware"
	"radiology-app-server/internal/models"
	"radiology-app-server/internal/services"
	"radiology-app-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Service *services.AuthService
	Cfg     *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Service: service, Cfg: cfg}
}

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Register handles user registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Service.Register(c.Request.Context(), services.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Role:            req.Role,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, "Registration successful! Please login.", user.Sanitize())
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	Token string           `json:"token"`
	User  models.Principal `json:"user"`
}

// Login handles user login. The session token is returned in the body and
// also set as an HTTP-only cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	p, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(p, h.Cfg)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(
		middleware.SessionCookieName,
		token,
		h.Cfg.JWTExpirationHours*60*60,
		"/",
		"",
		h.Cfg.Environment != "development",
		true,
	)

	utils.Success(c, "Welcome back, "+p.Name+"!", LoginResponse{Token: token, User: p})
}

// Logout discards the session unconditionally. It is idempotent: logging out
// without a session is still a success.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(
		middleware.SessionCookieName,
		"",
		-1,
		"/",
		"",
		h.Cfg.Environment != "development",
		true,
	)
	utils.Success(c, "You have been logged out successfully!", nil)
}

// Profile returns the authenticated principal.
func (h *AuthHandler) Profile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	utils.Success(c, "Profile fetched successfully", p)
}
