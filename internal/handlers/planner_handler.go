package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradeplanner/backend/internal/grading"
	"github.com/gradeplanner/backend/internal/middleware"
	"github.com/gradeplanner/backend/internal/services"
)

type PlannerHandler struct {
	planner *services.PlannerService
}

func NewPlannerHandler(planner *services.PlannerService) *PlannerHandler {
	return &PlannerHandler{planner: planner}
}

type MoveItemRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

func (h *PlannerHandler) respond(c *gin.Context, view *services.PlannerView, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Open a subject planner
// @Tags planner
// @Produce json
// @Security BearerAuth
// @Param code path string true "Subject code"
// @Success 200 {object} services.PlannerView
// @Router /api/v1/subjects/{code}/planner [get]
func (h *PlannerHandler) Get(c *gin.Context) {
	owner, _ := middleware.OwnerID(c)
	view, err := h.planner.Open(c.Request.Context(), owner, c.Param("code"))
	h.respond(c, view, err)
}

// @Summary Update planner settings
// @Tags planner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Subject code"
// @Param request body services.SettingsPatch true "Settings"
// @Success 200 {object} services.PlannerView
// @Router /api/v1/subjects/{code}/planner/settings [put]
func (h *PlannerHandler) UpdateSettings(c *gin.Context) {
	var patch services.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner, _ := middleware.OwnerID(c)
	view, err := h.planner.UpdateSettings(c.Request.Context(), owner, c.Param("code"), patch, c.ClientIP())
	h.respond(c, view, err)
}

// @Summary Add an assessment item
// @Tags planner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Subject code"
// @Param request body grading.AssessmentItem true "Item"
// @Success 200 {object} services.PlannerView
// @Router /api/v1/subjects/{code}/planner/items [post]
func (h *PlannerHandler) AddItem(c *gin.Context) {
	var item grading.AssessmentItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner, _ := middleware.OwnerID(c)
	view, err := h.planner.AddItem(c.Request.Context(), owner, c.Param("code"), item)
	h.respond(c, view, err)
}

// @Summary Edit an assessment item
// @Tags planner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Subject code"
// @Param itemID path string true "Item ID"
// @Param request body grading.ItemPatch true "Changed fields"
// @Success 200 {object} services.PlannerView
// @Router /api/v1/subjects/{code}/planner/items/{itemID} [patch]
func (h *PlannerHandler) UpdateItem(c *gin.Context) {
	var patch grading.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner, _ := middleware.OwnerID(c)
	view, err := h.planner.UpdateItem(c.Request.Context(), owner, c.Param("code"), c.Param("itemID"), patch)
	h.respond(c, view, err)
}

// @Summary Remove an assessment item
// @Tags planner
// @Produce json
// @Security BearerAuth
// @Param code path string true "Subject code"
// @Param itemID path string true "Item ID"
// @Success 200 {object} services.PlannerView
// @Router /api/v1/subjects/{code}/planner/items/{itemID} [delete]
func (h *PlannerHandler) RemoveItem(c *gin.Context) {
	owner, _ := middleware.OwnerID(c)
	view, err := h.planner.RemoveItem(c.Request.Context(), owner, c.Param("code"), c.Param("itemID"))
	h.respond(c, view, err)
}

// @Summary Reorder assessment items
// @Tags planner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Subject code"
// @Param request body MoveItemRequest true "Positions"
// @Success 200 {object} services.PlannerView
// @Router /api/v1/subjects/{code}/planner/items/move [post]
func (h *PlannerHandler) MoveItem(c *gin.Context) {
	var req MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner, _ := middleware.OwnerID(c)
	view, err := h.planner.MoveItem(c.Request.Context(), owner, c.Param("code"), *req.From, *req.To)
	h.respond(c, view, err)
}

// @Summary Evaluate a planner without saving it
// @Tags planner
// @Accept json
// @Produce json
// @Param request body grading.PlannerState true "Planner state"
// @Success 200 {object} services.PlannerView
// @Router /api/v1/planner/evaluate [post]
func (h *PlannerHandler) Evaluate(c *gin.Context) {
	var state grading.PlannerState
	if err := c.ShouldBindJSON(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if state.Items == nil {
		state.Items = []grading.AssessmentItem{}
	}

	c.JSON(http.StatusOK, h.planner.Evaluate(state))
}
