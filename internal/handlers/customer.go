package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/handymantracker/backend/internal/models"
	"github.com/handymantracker/backend/internal/services"
)

type CustomerHandler struct {
	service *services.CustomerService
	logger  *logrus.Logger
}

func NewCustomerHandler(service *services.CustomerService, logger *logrus.Logger) *CustomerHandler {
	return &CustomerHandler{service: service, logger: logger}
}

// respondCustomerError keeps the id-format message specific to this resource.
func respondCustomerError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrInvalidID) {
		respondMessage(w, http.StatusBadRequest, "Invalid customer ID format")
		return
	}
	respondServiceError(w, err)
}

type bidRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	ProjectName string `json:"project_name"`
	Description string `json:"description"`
}

// SubmitBid is the public bid-intake endpoint. The email acts as a soft
// natural key: a repeat submission appends a project to the existing customer
// instead of creating a duplicate.
func (h *CustomerHandler) SubmitBid(w http.ResponseWriter, r *http.Request) {
	var req bidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondMessage(w, http.StatusBadRequest, "Name is required")
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
	if req.Phone == "" {
		respondMessage(w, http.StatusBadRequest, "Phone is required")
		return
	}
	if req.ProjectName == "" {
		respondMessage(w, http.StatusBadRequest, "Project name is required")
		return
	}
	if req.Description == "" {
		respondMessage(w, http.StatusBadRequest, "Description is required")
		return
	}

	customer, existing, err := h.service.SubmitBid(r.Context(),
		req.Name, req.Email, req.Phone, req.Address, req.ProjectName, req.Description)
	if err != nil {
		respondCustomerError(w, err)
		return
	}

	if existing {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message":  "Bid request received, existing account found",
			"customer": customer,
		})
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Bid request received",
		"customer": customer,
	})
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var customer models.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if customer.Name == "" {
		respondMessage(w, http.StatusBadRequest, "Name is required")
		return
	}

	created, err := h.service.CreateCustomer(r.Context(), &customer)
	if err != nil {
		respondCustomerError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *CustomerHandler) GetCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.CustomerList(r.Context())
	if err != nil {
		respondCustomerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.service.GetCustomer(r.Context(), mux.Vars(r)["customerID"])
	if err != nil {
		respondCustomerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var update services.CustomerUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, err := h.service.UpdateCustomer(r.Context(), mux.Vars(r)["customerID"], update)
	if err != nil {
		respondCustomerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCustomer(r.Context(), mux.Vars(r)["customerID"]); err != nil {
		respondCustomerError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Customer deleted")
}

func (h *CustomerHandler) AddProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if project.Name == "" {
		respondMessage(w, http.StatusBadRequest, "Project name is required")
		return
	}

	added, err := h.service.AddProject(r.Context(), mux.Vars(r)["customerID"], project)
	if err != nil {
		respondCustomerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, added)
}

func (h *CustomerHandler) RemoveProject(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.service.RemoveProject(r.Context(), vars["customerID"], vars["projectID"]); err != nil {
		respondCustomerError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Project removed")
}

type amountRequest struct {
	Amount float64 `json:"amount"`
}

func (h *CustomerHandler) BidProject(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	vars := mux.Vars(r)
	project, err := h.service.BidProject(r.Context(), vars["customerID"], vars["projectID"], req.Amount)
	if err != nil {
		respondCustomerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func (h *CustomerHandler) BillProject(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	vars := mux.Vars(r)
	project, err := h.service.BillProject(r.Context(), vars["customerID"], vars["projectID"], req.Amount)
	if err != nil {
		respondCustomerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

type scheduleRequest struct {
	ScheduleDate time.Time `json:"schedule_date"`
}

func (h *CustomerHandler) ScheduleProject(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ScheduleDate.IsZero() {
		respondMessage(w, http.StatusBadRequest, "Schedule date is required")
		return
	}

	vars := mux.Vars(r)
	project, err := h.service.ScheduleProject(r.Context(), vars["customerID"], vars["projectID"], req.ScheduleDate)
	if err != nil {
		respondCustomerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func (h *CustomerHandler) CompleteProject(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	project, err := h.service.CompleteProject(r.Context(), vars["customerID"], vars["projectID"])
	if err != nil {
		respondCustomerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func (h *CustomerHandler) AddMaterial(w http.ResponseWriter, r *http.Request) {
	var material models.Material
	if err := json.NewDecoder(r.Body).Decode(&material); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if material.Item == "" {
		respondMessage(w, http.StatusBadRequest, "Item is required")
		return
	}

	vars := mux.Vars(r)
	added, err := h.service.AddMaterial(r.Context(), vars["customerID"], vars["projectID"], material)
	if err != nil {
		respondCustomerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, added)
}

func (h *CustomerHandler) RemoveMaterial(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.service.RemoveMaterial(r.Context(), vars["customerID"], vars["projectID"], vars["materialID"])
	if err != nil {
		respondCustomerError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Material removed")
}
