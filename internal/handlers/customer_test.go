package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/handymantracker/backend/internal/services"
)

func TestSubmitBidValidation(t *testing.T) {
	h := NewCustomerHandler(nil, quietLogger())

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"invalid body", "{not json", "Invalid request body"},
		{"missing name", `{"email":"j@x.co","phone":"555","project_name":"Deck","description":"Build a deck"}`, "Name is required"},
		{"missing email", `{"name":"Jane","phone":"555","project_name":"Deck","description":"Build a deck"}`, "Email is required"},
		{"bad email", `{"name":"Jane","email":"jane@@example.com","phone":"555","project_name":"Deck","description":"Build a deck"}`, "Invalid email format"},
		{"missing phone", `{"name":"Jane","email":"j@x.co","project_name":"Deck","description":"Build a deck"}`, "Phone is required"},
		{"missing project name", `{"name":"Jane","email":"j@x.co","phone":"555","description":"Build a deck"}`, "Project name is required"},
		{"missing description", `{"name":"Jane","email":"j@x.co","phone":"555","project_name":"Deck"}`, "Description is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.SubmitBid(rec, postJSON("/api/customer-bid", tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, messageOf(t, rec))
		})
	}
}

// The id is parsed before any datastore access, so a malformed id never
// reaches the collection.
func TestGetCustomerMalformedID(t *testing.T) {
	h := NewCustomerHandler(&services.CustomerService{}, quietLogger())

	router := mux.NewRouter()
	router.HandleFunc("/api/customers/{customerID}", h.GetCustomer).Methods("GET")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/customers/not-an-id", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid customer ID format", messageOf(t, rec))
}

func TestAddProjectValidation(t *testing.T) {
	h := NewCustomerHandler(nil, quietLogger())

	rec := httptest.NewRecorder()
	h.AddProject(rec, postJSON("/api/customers/abc/projects", `{"description":"no name"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Project name is required", messageOf(t, rec))
}

func TestAddMaterialValidation(t *testing.T) {
	h := NewCustomerHandler(nil, quietLogger())

	rec := httptest.NewRecorder()
	h.AddMaterial(rec, postJSON("/api/customers/a/projects/b/materials", `{"quantity":2}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Item is required", messageOf(t, rec))
}
