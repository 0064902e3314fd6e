package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/handymantracker/backend/internal/models"
)

type contextKey int

const identityKey contextKey = iota

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	ID       string
	Role     string
	Username string
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// UserFinder resolves a user id from a verified token to a live record.
type UserFinder interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Middleware gates protected routes: token extraction, verification, user
// lookup, approval check, then role tiers on top.
type Middleware struct {
	tokens *TokenService
	users  UserFinder
	logger *logrus.Logger
}

func NewMiddleware(tokens *TokenService, users UserFinder, logger *logrus.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, logger: logger}
}

// Authenticate resolves the bearer token to an approved user and attaches the
// identity to the request context. Verification failures collapse to a single
// "Invalid token" response; the cause is only logged.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			m.logAttempt(r, "no token", "")
			respondMessage(w, http.StatusUnauthorized, "No token")
			return
		}

		userID, err := m.tokens.Verify(token)
		if err != nil {
			m.logger.WithFields(logrus.Fields{
				"outcome": "invalid token",
				"reason":  err.Error(),
				"ip":      ClientIP(r),
				"method":  r.Method,
				"path":    r.URL.Path,
			}).Warn("authentication failed")
			respondMessage(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := m.users.GetUser(r.Context(), userID)
		if err != nil {
			m.logAttempt(r, "user not found", userID)
			respondMessage(w, http.StatusUnauthorized, "User not found")
			return
		}

		if user.Status != models.StatusApproved {
			m.logAttempt(r, "not approved", user.Username)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{
				"message": "Account pending approval",
				"status":  user.Status,
			})
			return
		}

		m.logAttempt(r, "success", user.Username)

		identity := Identity{
			ID:       user.ID.Hex(),
			Role:     user.Role,
			Username: user.Username,
		}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin passes roles admin and super-admin. Must run after
// Authenticate.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.requireRole(next, models.RoleAdmin, models.RoleSuperAdmin)
}

// RequireSuperAdmin passes only super-admin.
func (m *Middleware) RequireSuperAdmin(next http.Handler) http.Handler {
	return m.requireRole(next, models.RoleSuperAdmin)
}

func (m *Middleware) requireRole(next http.Handler, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "No token")
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				next.ServeHTTP(w, r)
				return
			}
		}
		m.logAttempt(r, "access denied", identity.Username)
		respondMessage(w, http.StatusForbidden, "Access denied")
	})
}

func (m *Middleware) logAttempt(r *http.Request, outcome, who string) {
	fields := logrus.Fields{
		"outcome": outcome,
		"ip":      ClientIP(r),
		"method":  r.Method,
		"path":    r.URL.Path,
	}
	if who != "" {
		fields["user"] = who
	}
	entry := m.logger.WithFields(fields)
	if outcome == "success" {
		entry.Info("authentication")
	} else {
		entry.Warn("authentication failed")
	}
}

// extractToken accepts either "Bearer <token>" or a bare token value.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
