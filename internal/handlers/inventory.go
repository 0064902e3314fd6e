package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/handymantracker/backend/internal/models"
	"github.com/handymantracker/backend/internal/services"
)

type InventoryHandler struct {
	service *services.InventoryService
	logger  *logrus.Logger
}

func NewInventoryHandler(service *services.InventoryService, logger *logrus.Logger) *InventoryHandler {
	return &InventoryHandler{service: service, logger: logger}
}

func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var item models.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if item.Name == "" {
		respondMessage(w, http.StatusBadRequest, "Name is required")
		return
	}

	created, err := h.service.CreateItem(r.Context(), &item)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *InventoryHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ItemList(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// GetLowStock lists every item whose quantity is below its par level.
func (h *InventoryHandler) GetLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.LowStock(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), mux.Vars(r)["itemID"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var update services.InventoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.UpdateItem(r.Context(), mux.Vars(r)["itemID"], update)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

type adjustRequest struct {
	Delta float64 `json:"delta"`
}

// AdjustQuantity applies a signed delta to an item's stock level.
func (h *InventoryHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Delta == 0 {
		respondMessage(w, http.StatusBadRequest, "Delta must be non-zero")
		return
	}

	item, err := h.service.AdjustQuantity(r.Context(), mux.Vars(r)["itemID"], req.Delta)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), mux.Vars(r)["itemID"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Inventory item deleted")
}
