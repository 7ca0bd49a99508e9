package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradeplanner/backend/internal/middleware"
	"github.com/gradeplanner/backend/internal/models"
	"github.com/gradeplanner/backend/internal/services"
	"gorm.io/gorm"
)

// UserHandler lets admins inspect and manage student accounts
type UserHandler struct {
	db           *gorm.DB
	auditService *services.AuditService
}

func NewUserHandler(db *gorm.DB, auditService *services.AuditService) *UserHandler {
	return &UserHandler{db: db, auditService: auditService}
}

func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("id")
	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req struct {
		FullName string `json:"full_name"`
		Role     string `json:"role" binding:"omitempty,oneof=student admin"`
		IsActive *bool  `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	before := models.JSONB{"full_name": user.FullName, "role": user.Role, "is_active": user.IsActive}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if actor, ok := middleware.OwnerID(c); ok {
		after := models.JSONB{"full_name": user.FullName, "role": user.Role, "is_active": user.IsActive}
		h.auditService.Log(actor, "update", "user", user.ID.String(), before, after, c.ClientIP())
	}

	c.JSON(http.StatusOK, user)
}
