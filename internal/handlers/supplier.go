package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/handymantracker/backend/internal/models"
	"github.com/handymantracker/backend/internal/services"
)

type SupplierHandler struct {
	service *services.SupplierService
	logger  *logrus.Logger
}

func NewSupplierHandler(service *services.SupplierService, logger *logrus.Logger) *SupplierHandler {
	return &SupplierHandler{service: service, logger: logger}
}

func (h *SupplierHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var supplier models.Supplier
	if err := json.NewDecoder(r.Body).Decode(&supplier); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if supplier.Name == "" {
		respondMessage(w, http.StatusBadRequest, "Name is required")
		return
	}
	if supplier.Email != "" && !validEmail(supplier.Email) {
		respondMessage(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	created, err := h.service.CreateSupplier(r.Context(), &supplier)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *SupplierHandler) GetSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.SupplierList(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

func (h *SupplierHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.service.GetSupplier(r.Context(), mux.Vars(r)["supplierID"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}

func (h *SupplierHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var update services.SupplierUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	supplier, err := h.service.UpdateSupplier(r.Context(), mux.Vars(r)["supplierID"], update)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}

func (h *SupplierHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSupplier(r.Context(), mux.Vars(r)["supplierID"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Supplier deleted")
}
