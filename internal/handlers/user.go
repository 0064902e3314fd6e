package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/handymantracker/backend/internal/auth"
	"github.com/handymantracker/backend/internal/models"
	"github.com/handymantracker/backend/internal/services"
)

type UserHandler struct {
	service *services.UserService
	tokens  *auth.TokenService
	logger  *logrus.Logger
}

func NewUserHandler(service *services.UserService, tokens *auth.TokenService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{service: service, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account. The very first account is self-promoted to
// super-admin; everyone else waits for approval.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" {
		respondMessage(w, http.StatusBadRequest, "Username is required")
		return
	}
	if req.Email == "" {
		respondMessage(w, http.StatusBadRequest, "Email is required")
		return
	}
	if !validEmail(req.Email) {
		respondMessage(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if len(req.Password) < 6 {
		respondMessage(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	user, demoted, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	message := "Registration successful. Your account is awaiting approval."
	if user.Role == models.RoleSuperAdmin {
		message = "Registration successful. You are the first user and have been made super-admin."
	} else if demoted {
		message = "Registration successful. Another super-admin already exists; your account is awaiting approval."
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": message,
		"user":    user,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks credentials and the approval gate, then issues a one-hour
// token.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondMessage(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		if errors.Is(err, services.ErrNotApproved) {
			h.logger.WithFields(logrus.Fields{
				"user":   user.Username,
				"status": user.Status,
				"ip":     auth.ClientIP(r),
			}).Warn("login refused for unapproved account")
			respondJSON(w, http.StatusForbidden, map[string]string{
				"message": "Account pending approval",
				"status":  user.Status,
			})
			return
		}
		respondServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user": user.Username,
		"ip":   auth.ClientIP(r),
	}).Info("login")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.UserList(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

type approveRequest struct {
	Role string `json:"role"`
}

// Approve moves a user to approved/admin and stamps who approved them.
func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "No token")
		return
	}

	var req approveRequest
	if r.Body != nil {
		// Body is optional; an empty role defaults to admin.
		json.NewDecoder(r.Body).Decode(&req)
	}

	user, err := h.service.Approve(r.Context(), mux.Vars(r)["userID"], identity.ID, req.Role)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User approved",
		"user":    user,
	})
}

func (h *UserHandler) Reject(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Reject(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User rejected",
		"user":    user,
	})
}

func (h *UserHandler) Promote(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Promote(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User promoted to super-admin",
		"user":    user,
	})
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "No token")
		return
	}

	if err := h.service.DeleteUser(r.Context(), identity.ID, mux.Vars(r)["userID"]); err != nil {
		respondServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "User deleted")
}
