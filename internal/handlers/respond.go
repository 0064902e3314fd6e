package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/handymantracker/backend/internal/services"
)

// emailPattern is intentionally permissive: one @, no whitespace, a dot in
// the domain. Not RFC-complete.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondServiceError maps service sentinel errors to their HTTP statuses.
// Anything unrecognized is an unexpected datastore or runtime failure and
// surfaces as a 500 with the raw error string attached.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidID):
		respondMessage(w, http.StatusBadRequest, "Invalid ID format")
	case errors.Is(err, services.ErrUserNotFound):
		respondMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrCustomerNotFound):
		respondMessage(w, http.StatusNotFound, "Customer not found")
	case errors.Is(err, services.ErrProjectNotFound):
		respondMessage(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, services.ErrMaterialNotFound):
		respondMessage(w, http.StatusNotFound, "Material not found")
	case errors.Is(err, services.ErrItemNotFound):
		respondMessage(w, http.StatusNotFound, "Inventory item not found")
	case errors.Is(err, services.ErrSupplierNotFound):
		respondMessage(w, http.StatusNotFound, "Supplier not found")
	case errors.Is(err, services.ErrPONotFound):
		respondMessage(w, http.StatusNotFound, "Purchase order not found")
	case errors.Is(err, services.ErrPOTransition):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNoLowStock):
		respondMessage(w, http.StatusBadRequest, "No items below par level")
	case errors.Is(err, services.ErrUsernameTaken):
		respondMessage(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, services.ErrEmailTaken):
		respondMessage(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, services.ErrAlreadyApproved):
		respondMessage(w, http.StatusBadRequest, "User already approved")
	case errors.Is(err, services.ErrAlreadySuperAdmin):
		respondMessage(w, http.StatusBadRequest, "User is already a super-admin")
	case errors.Is(err, services.ErrInvalidRole):
		respondMessage(w, http.StatusBadRequest, "Invalid role")
	case errors.Is(err, services.ErrSelfDelete):
		respondMessage(w, http.StatusBadRequest, "Cannot delete your own account")
	default:
		respondMessage(w, http.StatusInternalServerError, fmt.Sprintf("Server error: %v", err))
	}
}
