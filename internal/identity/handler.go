package identity

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/deskroute/deskroute/internal/domain"
	"github.com/deskroute/deskroute/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// tokenType is the fixed type reported for every issued credential.
const tokenType = "bearer"

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers public identity routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
}

// RegisterProtectedRoutes registers routes that require a valid bearer token.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/me", h.Me)
}

// SignupRequest represents the signup request body.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

// SignupResponse represents the signup response body.
type SignupResponse struct {
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
}

// Signup handles POST /signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	// Normalize before validation so padded or mixed-case addresses pass
	// the format check and reach the service in canonical form.
	req.Email = NormalizeEmail(req.Email)

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	out, err := h.service.Register(r.Context(), RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, SignupResponse{
		Email:       out.User.Email,
		Role:        out.User.Role,
		AccessToken: out.AccessToken,
		TokenType:   tokenType,
	})
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response body.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	req.Email = NormalizeEmail(req.Email)

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	out, err := h.service.Login(r.Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, LoginResponse{
		AccessToken: out.AccessToken,
		TokenType:   tokenType,
	})
}

// MeResponse represents the current-user response body.
type MeResponse struct {
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// Me handles GET /me. The subject comes from the verified bearer token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	subject := httputil.GetSubject(r.Context())
	if subject == "" {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.service.GetUserByEmail(r.Context(), subject)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, MeResponse{
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrWeakPassword, Status: http.StatusBadRequest},
		{Error: ErrEmailExists, Status: http.StatusBadRequest},
		{Error: ErrInvalidCredentials, Status: http.StatusUnauthorized},
		{Error: ErrUserNotFound, Status: http.StatusNotFound},
	})
}
