package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradeplanner/backend/internal/middleware"
	"github.com/gradeplanner/backend/internal/services"
)

type SubjectHandler struct {
	planner *services.PlannerService
}

func NewSubjectHandler(planner *services.PlannerService) *SubjectHandler {
	return &SubjectHandler{planner: planner}
}

type CreateSubjectRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name"`
}

// @Summary List subjects
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Subject
// @Router /api/v1/subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	owner, _ := middleware.OwnerID(c)
	subjects, err := h.planner.ListSubjects(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}

// @Summary Create subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSubjectRequest true "Subject"
// @Success 201 {object} models.Subject
// @Router /api/v1/subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner, _ := middleware.OwnerID(c)
	subject, err := h.planner.CreateSubject(c.Request.Context(), owner, req.Code, req.Name, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subject)
}

// @Summary Delete subject and its planner
// @Tags subjects
// @Security BearerAuth
// @Param code path string true "Subject code"
// @Router /api/v1/subjects/{code} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	owner, _ := middleware.OwnerID(c)
	if err := h.planner.DeleteSubject(c.Request.Context(), owner, c.Param("code"), c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subject deleted successfully"})
}
