package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handymantracker/backend/internal/services"
)

func TestValidEmail(t *testing.T) {
	valid := []string{
		"jane@example.com",
		"jane.doe@example.co.uk",
		"j@x.io",
		"weird+tag@sub.example.com",
	}
	invalid := []string{
		"",
		"janeexample.com",
		"jane@examplecom",
		"jane@@example.com",
		"jane doe@example.com",
		"@example.com",
		"jane@",
	}

	for _, email := range valid {
		assert.True(t, validEmail(email), "expected %q to be valid", email)
	}
	for _, email := range invalid {
		assert.False(t, validEmail(email), "expected %q to be invalid", email)
	}
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{services.ErrInvalidID, http.StatusBadRequest, "Invalid ID format"},
		{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{services.ErrCustomerNotFound, http.StatusNotFound, "Customer not found"},
		{services.ErrProjectNotFound, http.StatusNotFound, "Project not found"},
		{services.ErrMaterialNotFound, http.StatusNotFound, "Material not found"},
		{services.ErrItemNotFound, http.StatusNotFound, "Inventory item not found"},
		{services.ErrSupplierNotFound, http.StatusNotFound, "Supplier not found"},
		{services.ErrPONotFound, http.StatusNotFound, "Purchase order not found"},
		{services.ErrUsernameTaken, http.StatusBadRequest, "Username already exists"},
		{services.ErrEmailTaken, http.StatusBadRequest, "Email already exists"},
		{services.ErrAlreadyApproved, http.StatusBadRequest, "User already approved"},
		{services.ErrAlreadySuperAdmin, http.StatusBadRequest, "User is already a super-admin"},
		{services.ErrInvalidRole, http.StatusBadRequest, "Invalid role"},
		{services.ErrSelfDelete, http.StatusBadRequest, "Cannot delete your own account"},
		{services.ErrNoLowStock, http.StatusBadRequest, "No items below par level"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestRespondServiceErrorWrapped(t *testing.T) {
	rec := httptest.NewRecorder()
	respondServiceError(rec, fmt.Errorf("%w: Draft -> Received", services.ErrPOTransition))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRespondServiceErrorUnknown(t *testing.T) {
	rec := httptest.NewRecorder()
	respondServiceError(rec, errors.New("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body["message"], "connection reset")
}
