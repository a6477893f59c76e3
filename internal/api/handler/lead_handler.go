package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vansh-justcharge/Autocredits-backend/internal/api/metrics"
	"github.com/vansh-justcharge/Autocredits-backend/internal/api/middleware"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/ports"
)

type leadInterestRequest struct {
	Car    string        `json:"car"`
	Make   string        `json:"make"`
	Model  string        `json:"model"`
	Year   int           `json:"year"`
	Budget domain.Budget `json:"budget"`
}

type createLeadRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Status    string `json:"status"`
	Source    string `json:"source" validate:"required"`
	Service   string `json:"service" validate:"required"`

	Interest     *leadInterestRequest `json:"interest"`
	AssignedTo   string               `json:"assignedTo"`
	LastContact  string               `json:"lastContact"`
	NextFollowUp string               `json:"nextFollowUp"`

	Tags              []string       `json:"tags"`
	CustomFields      map[string]any `json:"customFields"`
	AdditionalDetails string         `json:"additionalDetails"`
}

type addNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

type updateLeadStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// LeadHandler serves the sales-lead endpoints. Creation, listing, notes,
// status changes and export go through the LeadService; the raw partial
// update and delete verbs do too, so normalization stays in one place.
type LeadHandler struct {
	svc ports.LeadService
}

func NewLeadHandler(svc ports.LeadService) *LeadHandler {
	return &LeadHandler{svc: svc}
}

// Create registers a new lead.
//
// @Summary      Create a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLeadRequest  true  "Lead details"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]string
// @Router       /leads [post]
func (h *LeadHandler) Create(c echo.Context) error {
	var req createLeadRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := ports.CreateLeadInput{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		Status:            req.Status,
		Source:            req.Source,
		Service:           req.Service,
		AssignedTo:        req.AssignedTo,
		LastContact:       req.LastContact,
		NextFollowUp:      req.NextFollowUp,
		Tags:              req.Tags,
		CustomFields:      req.CustomFields,
		AdditionalDetails: req.AdditionalDetails,
	}
	if req.Interest != nil {
		in.Interest = &ports.LeadInterestInput{
			Car:    req.Interest.Car,
			Make:   req.Interest.Make,
			Model:  req.Interest.Model,
			Year:   req.Interest.Year,
			Budget: req.Interest.Budget,
		}
	}

	lead, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	metrics.LeadsCreatedTotal.WithLabelValues(string(lead.Source)).Inc()
	return c.JSON(http.StatusCreated, success(lead))
}

// Get returns a single lead.
//
// @Summary      Get a lead by id
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Router       /leads/{id} [get]
func (h *LeadHandler) Get(c echo.Context) error {
	lead, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(lead))
}

// List returns a filtered page of leads.
//
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "Filter by status"
// @Param        assignedTo  query     string  false  "Filter by assigned user id"
// @Param        source      query     string  false  "Filter by source"
// @Param        service     query     string  false  "Filter by service"
// @Param        page        query     int     false  "Page (1-based)"
// @Param        limit       query     int     false  "Page size (max 100)"
// @Success      200         {object}  map[string]any
// @Router       /leads [get]
func (h *LeadHandler) List(c echo.Context) error {
	params := middleware.PageParamsFrom(c)
	result, err := h.svc.List(c.Request().Context(), ports.ListLeadsFilter{
		Status:     c.QueryParam("status"),
		AssignedTo: c.QueryParam("assignedTo"),
		Source:     c.QueryParam("source"),
		Service:    c.QueryParam("service"),
		Page:       params.Page,
		Limit:      params.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(result))
}

// Update applies a partial update to a lead.
//
// @Summary      Update a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Lead id"
// @Success      200   {object}  map[string]any
// @Failure      404   {object}  map[string]string
// @Router       /leads/{id} [patch]
func (h *LeadHandler) Update(c echo.Context) error {
	fields := ports.Filter{}
	if err := c.Bind(&fields); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	lead, err := h.svc.Update(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(lead))
}

// Delete removes a lead.
//
// @Summary      Delete a lead
// @Tags         leads
// @Security     BearerAuth
// @Param        id  path  string  true  "Lead id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /leads/{id} [delete]
func (h *LeadHandler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddNote appends a note to a lead, stamped with the calling user.
//
// @Summary      Add a note to a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Lead id"
// @Param        body  body      addNoteRequest  true  "Note content"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]string
// @Router       /leads/{id}/notes [post]
func (h *LeadHandler) AddNote(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req addNoteRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	lead, err := h.svc.AddNote(c.Request().Context(), c.Param("id"), req.Content, user.ID.Hex())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(lead))
}

// UpdateStatus transitions a lead's status and records an audit note.
//
// @Summary      Update a lead's status
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Lead id"
// @Param        body  body      updateLeadStatusRequest  true  "New status"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]string
// @Router       /leads/{id}/status [patch]
func (h *LeadHandler) UpdateStatus(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req updateLeadStatusRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	lead, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status, user.ID.Hex())
	if err != nil {
		return err
	}
	metrics.LeadStatusChangesTotal.WithLabelValues(req.Status).Inc()
	return c.JSON(http.StatusOK, success(lead))
}

// Export streams every lead as a CSV attachment. Only the csv format is
// supported; anything else gets a 400 with an error payload written
// directly, which is what the dealership frontend expects here.
//
// @Summary      Export leads
// @Tags         leads
// @Produce      text/csv
// @Security     BearerAuth
// @Param        format  query  string  false  "Export format (csv)"
// @Success      200
// @Router       /leads/export [get]
func (h *LeadHandler) Export(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "Unsupported export format",
		})
	}

	data, err := h.svc.ExportCSV(c.Request().Context())
	if err != nil {
		return err
	}
	metrics.LeadExportsTotal.Inc()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=leads.csv`)
	return c.Blob(http.StatusOK, "text/csv", data)
}
