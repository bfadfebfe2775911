package handlers

import (
	"net/http"
	"time"

	"github.com/dom/spark/internal/api/response"
	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/service"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService    *service.AuthService
	profileService *service.ProfileService
	log            logrus.FieldLogger
}

func NewAuthHandler(authService *service.AuthService, profileService *service.ProfileService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{authService: authService, profileService: profileService, log: log}
}

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Username        string `json:"username" validate:"omitempty,min=3,max=32"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Username:        req.Username,
	})
	if err != nil {
		response.FromError(w, r, h.log, "auth.Register", err)
		return
	}

	response.JSON(w, http.StatusCreated, AuthResponse{
		User:      result.User,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.FromError(w, r, h.log, "auth.Login", err)
		return
	}

	response.JSON(w, http.StatusOK, AuthResponse{
		User:      result.User,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

// Me returns the caller's own profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	user, err := h.profileService.GetUser(r.Context(), userID)
	if err != nil {
		response.FromError(w, r, h.log, "auth.Me", err)
		return
	}

	response.JSON(w, http.StatusOK, user)
}
