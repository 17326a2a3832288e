package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/persistence"
)

type facilityService interface {
	ListFacilities(ctx context.Context, includeInactive bool) []persistence.Facility
	CreateFacility(ctx context.Context, actor persistence.AuthUser, input persistence.FacilityInput) (persistence.Facility, error)
	UpdateFacility(ctx context.Context, actor persistence.AuthUser, id string, patch persistence.FacilityPatch) (persistence.Facility, error)
	DeleteFacility(ctx context.Context, actor persistence.AuthUser, id string) error
}

type FacilityHandler struct {
	service   facilityService
	responder responder
	logger    *logrus.Entry
}

func NewFacilityHandler(service facilityService, logger *logrus.Entry) *FacilityHandler {
	return &FacilityHandler{service: service, responder: newResponder(logger), logger: logger}
}

type facilityRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Capacity    int      `json:"capacity"`
	Amenities   []string `json:"amenities"`
	IsActive    *bool    `json:"isActive"`
}

// List returns active facilities; ?all=true adds inactive ones.
func (h *FacilityHandler) List(c *gin.Context) {
	all, _ := strconv.ParseBool(c.Query("all"))
	c.JSON(http.StatusOK, h.service.ListFacilities(c.Request.Context(), all))
}

// Create adds a facility. isActive defaults to true.
func (h *FacilityHandler) Create(c *gin.Context) {
	var req facilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlerLogger(c.Request.Context(), h.logger, "FacilityHandler", "Create").WithError(err).Warn("failed to decode facility")
		h.responder.writeError(c, http.StatusBadRequest, "BAD_REQUEST", errBadRequestBody)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	user, _ := CurrentUser(c)
	facility, err := h.service.CreateFacility(c.Request.Context(), user, persistence.FacilityInput{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Amenities:   req.Amenities,
		IsActive:    active,
	})
	if err != nil {
		h.responder.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, facility)
}

func (h *FacilityHandler) Update(c *gin.Context) {
	var patch persistence.FacilityPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.responder.writeError(c, http.StatusBadRequest, "BAD_REQUEST", errBadRequestBody)
		return
	}

	user, _ := CurrentUser(c)
	facility, err := h.service.UpdateFacility(c.Request.Context(), user, c.Param("id"), patch)
	if err != nil {
		h.responder.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, facility)
}

func (h *FacilityHandler) Delete(c *gin.Context) {
	user, _ := CurrentUser(c)
	if err := h.service.DeleteFacility(c.Request.Context(), user, c.Param("id")); err != nil {
		h.responder.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
