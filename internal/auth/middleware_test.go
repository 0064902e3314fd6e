package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/handymantracker/backend/internal/models"
)

type fakeUserFinder struct {
	users map[string]*models.User
}

func (f *fakeUserFinder) GetUser(ctx context.Context, id string) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, errors.New("user not found")
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testUser(role, status string) *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: "worker",
		Role:     role,
		Status:   status,
	}
}

func newTestMiddleware(t *testing.T, user *models.User) (*Middleware, string) {
	t.Helper()
	tokens := NewTokenService("test-secret")
	finder := &fakeUserFinder{users: map[string]*models.User{}}

	var token string
	if user != nil {
		finder.users[user.ID.Hex()] = user
		var err error
		token, err = tokens.Issue(user.ID.Hex())
		require.NoError(t, err)
	}
	return NewMiddleware(tokens, finder, quietLogger()), token
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func nextHandler(called *bool, gotIdentity *Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if identity, ok := IdentityFromContext(r.Context()); ok {
			*gotIdentity = identity
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateNoToken(t *testing.T) {
	mw, _ := newTestMiddleware(t, nil)

	called := false
	var identity Identity
	rec := httptest.NewRecorder()
	mw.Authenticate(nextHandler(&called, &identity)).
		ServeHTTP(rec, httptest.NewRequest("GET", "/api/customers", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token", decodeMessage(t, rec)["message"])
	assert.False(t, called)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	mw, _ := newTestMiddleware(t, nil)

	for _, header := range []string{"Bearer garbage", "garbage", "Bearer a.b.c"} {
		called := false
		var identity Identity
		req := httptest.NewRequest("GET", "/api/customers", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		mw.Authenticate(nextHandler(&called, &identity)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Equal(t, "Invalid token", decodeMessage(t, rec)["message"], "header %q", header)
		assert.False(t, called)
	}
}

func TestAuthenticateExpiredTokenCollapsesToInvalid(t *testing.T) {
	user := testUser(models.RoleAdmin, models.StatusApproved)
	mw, _ := newTestMiddleware(t, user)

	// Token signed with a different secret: same outward message as expired
	// or malformed.
	otherToken, err := NewTokenService("other-secret").Issue(user.ID.Hex())
	require.NoError(t, err)

	called := false
	var identity Identity
	req := httptest.NewRequest("GET", "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	rec := httptest.NewRecorder()
	mw.Authenticate(nextHandler(&called, &identity)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", decodeMessage(t, rec)["message"])
	assert.False(t, called)
}

func TestAuthenticateUserNotFound(t *testing.T) {
	mw, _ := newTestMiddleware(t, nil)
	tokens := NewTokenService("test-secret")
	token, err := tokens.Issue(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	called := false
	var identity Identity
	req := httptest.NewRequest("GET", "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.Authenticate(nextHandler(&called, &identity)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not found", decodeMessage(t, rec)["message"])
	assert.False(t, called)
}

func TestAuthenticateUnapprovedUser(t *testing.T) {
	for _, status := range []string{models.StatusPending, models.StatusRejected} {
		t.Run(status, func(t *testing.T) {
			user := testUser(models.RolePending, status)
			mw, token := newTestMiddleware(t, user)

			called := false
			var identity Identity
			req := httptest.NewRequest("GET", "/api/customers", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			mw.Authenticate(nextHandler(&called, &identity)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			body := decodeMessage(t, rec)
			assert.Equal(t, "Account pending approval", body["message"])
			assert.Equal(t, status, body["status"])
			assert.False(t, called)
		})
	}
}

func TestAuthenticateSuccessAttachesIdentity(t *testing.T) {
	user := testUser(models.RoleAdmin, models.StatusApproved)
	mw, token := newTestMiddleware(t, user)

	for _, header := range []string{"Bearer " + token, token} {
		called := false
		var identity Identity
		req := httptest.NewRequest("GET", "/api/customers", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		mw.Authenticate(nextHandler(&called, &identity)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
		assert.Equal(t, user.ID.Hex(), identity.ID)
		assert.Equal(t, models.RoleAdmin, identity.Role)
		assert.Equal(t, "worker", identity.Username)
	}
}

func TestRoleGates(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		superOnly  bool
		wantStatus int
	}{
		{"admin passes admin gate", models.RoleAdmin, false, http.StatusOK},
		{"super-admin passes admin gate", models.RoleSuperAdmin, false, http.StatusOK},
		{"pending fails admin gate", models.RolePending, false, http.StatusForbidden},
		{"admin fails super-admin gate", models.RoleAdmin, true, http.StatusForbidden},
		{"super-admin passes super-admin gate", models.RoleSuperAdmin, true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := testUser(tt.role, models.StatusApproved)
			mw, token := newTestMiddleware(t, user)

			called := false
			var identity Identity
			gate := mw.RequireAdmin
			if tt.superOnly {
				gate = mw.RequireSuperAdmin
			}
			handler := mw.Authenticate(gate(nextHandler(&called, &identity)))

			req := httptest.NewRequest("PUT", "/api/admin/users/x/approve", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Equal(t, "Access denied", decodeMessage(t, rec)["message"])
				assert.False(t, called)
			} else {
				assert.True(t, called)
			}
		})
	}
}

func TestRoleGateWithoutAuthentication(t *testing.T) {
	mw, _ := newTestMiddleware(t, nil)

	called := false
	var identity Identity
	rec := httptest.NewRecorder()
	mw.RequireAdmin(nextHandler(&called, &identity)).
		ServeHTTP(rec, httptest.NewRequest("GET", "/api/admin/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
