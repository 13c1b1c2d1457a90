// Auth HTTP handlers.
//
// This file exposes REST endpoints for accounts and tokens:
//   - POST /auth/register  (create account)
//   - POST /auth/login     (issue access+refresh token pair)
//   - POST /auth/refresh   (rotate token pair)
//   - GET  /auth/profile   (current account, bearer-authenticated)
//
// Handlers are transport-thin: they validate input, call the auth service,
// and translate sentinel errors into HTTP responses with stable codes.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carecatalyst/go-health-backend/internal/domain"
	"github.com/carecatalyst/go-health-backend/internal/http/middleware"
	"github.com/carecatalyst/go-health-backend/internal/services"
)

//
// DTOs
//

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	Email     string `json:"email"      binding:"required,email" example:"alice@example.com"`
	Password  string `json:"password"   binding:"required,min=8" example:"correct horse battery"`
	FirstName string `json:"first_name" binding:"required,max=100" example:"Alice"`
	LastName  string `json:"last_name"  binding:"required,max=100" example:"Smith"`
	Age       *int   `json:"age,omitempty"    binding:"omitempty,gte=1,lte=120" example:"45"`
	Phone     string `json:"phone,omitempty"  binding:"omitempty,max=32" example:"+30 210 555 0000"`
	Gender    string `json:"gender,omitempty" binding:"omitempty,oneof=Male Female Other" example:"Female"`
}

// LoginRequest is the JSON payload for credential login.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"correct horse battery"`
}

// RefreshRequest is the JSON payload for token rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResponse bundles the token pair with the account it belongs to.
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	User         UserProfile `json:"user"`
}

// UserProfile is the public view of an account. The password hash never
// appears here.
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       *int   `json:"age,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Gender    string `json:"gender,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
}

//
// Handlers
//

// Register godoc
// @ID          register
// @Summary     Create an account
// @Description Registers a new user with a unique email and hashed password.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterRequest  true  "Registration payload"
//
// @Success     201  {object}  handlers.UserProfile
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Email already registered"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid registration payload")
		return
	}

	u, err := h.authSvc.Register(c.Request.Context(), services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		Phone:     req.Phone,
		Gender:    req.Gender,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			fail(c, http.StatusConflict, ErrCodeConflict, "email already registered")
		case errors.Is(err, services.ErrWeakPassword):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "password must be at least 8 characters")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not create account")
		}
		return
	}
	ok(c, http.StatusCreated, profileOf(u))
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies credentials and returns an access/refresh token pair.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object}  handlers.LoginResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password required")
		return
	}

	pair, u, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid email or password")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "login failed")
		return
	}
	ok(c, http.StatusOK, LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         profileOf(u),
	})
}

// Refresh godoc
// @ID          refreshToken
// @Summary     Rotate tokens
// @Description Exchanges a valid refresh token for a new access/refresh pair.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RefreshRequest  true  "Refresh token"
//
// @Success     200  {object}  services.TokenPair
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid or expired token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/refresh [post]
func (h *Handlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "refresh_token required")
		return
	}

	pair, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrTokenInvalid) || errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid or expired refresh token")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "token refresh failed")
		return
	}
	ok(c, http.StatusOK, pair)
}

// Profile godoc
// @ID          profile
// @Summary     Current account
// @Description Returns the profile of the bearer-authenticated account.
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  handlers.UserProfile
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /auth/profile [get]
func (h *Handlers) Profile(c *gin.Context) {
	u := middleware.UserFrom(c)
	if u == nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}
	ok(c, http.StatusOK, profileOf(u))
}

func profileOf(u *domain.User) UserProfile {
	return UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Age:       u.Age,
		Phone:     u.Phone,
		Gender:    u.Gender,
		IsAdmin:   u.IsAdmin,
	}
}
