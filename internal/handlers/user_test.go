package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["message"]
}

// Validation runs before any datastore access, so a handler with no backing
// service exercises every rejection path.
func TestRegisterValidation(t *testing.T) {
	h := NewUserHandler(nil, nil, quietLogger())

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"invalid body", "{not json", "Invalid request body"},
		{"missing username", `{"email":"a@b.co","password":"secret1"}`, "Username is required"},
		{"missing email", `{"username":"jane","password":"secret1"}`, "Email is required"},
		{"bad email", `{"username":"jane","email":"not-an-email","password":"secret1"}`, "Invalid email format"},
		{"short password", `{"username":"jane","email":"a@b.co","password":"12345"}`, "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Register(rec, postJSON("/api/register", tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, messageOf(t, rec))
		})
	}
}

func TestLoginValidation(t *testing.T) {
	h := NewUserHandler(nil, nil, quietLogger())

	tests := []struct {
		name string
		body string
	}{
		{"invalid body", "{not json"},
		{"missing username", `{"password":"secret1"}`},
		{"missing password", `{"username":"jane"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Login(rec, postJSON("/api/login", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
