package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/handymantracker/backend/internal/auth"
	"github.com/handymantracker/backend/internal/services"
)

type PurchaseOrderHandler struct {
	service *services.PurchaseOrderService
	logger  *logrus.Logger
}

func NewPurchaseOrderHandler(service *services.PurchaseOrderService, logger *logrus.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: service, logger: logger}
}

// Generate builds one draft purchase order per supplier from the current
// low-stock items.
func (h *PurchaseOrderHandler) Generate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "No token")
		return
	}
	createdBy, err := primitive.ObjectIDFromHex(identity.ID)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	orders, err := h.service.Generate(r.Context(), createdBy)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, orders)
}

func (h *PurchaseOrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.OrderList(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *PurchaseOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), mux.Vars(r)["poID"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *PurchaseOrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Submit(r.Context(), mux.Vars(r)["poID"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Receive marks a submitted order received and restocks its items.
func (h *PurchaseOrderHandler) Receive(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Receive(r.Context(), mux.Vars(r)["poID"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *PurchaseOrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOrder(r.Context(), mux.Vars(r)["poID"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Purchase order deleted")
}
