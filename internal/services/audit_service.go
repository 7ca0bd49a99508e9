package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/gradeplanner/backend/internal/models"
	"gorm.io/gorm"
)

// Auditor records changes made to a student's planners
type Auditor interface {
	Log(userID uuid.UUID, action, resourceType, resourceKey string, before, after models.JSONB, ip string) error
}

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) Log(userID uuid.UUID, action, resourceType, resourceKey string, before, after models.JSONB, ip string) error {
	log := &models.AuditLog{
		ActorUserID:  userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceKey:  resourceKey,
		Before:       before,
		After:        after,
		IP:           ip,
	}
	return s.db.Create(log).Error
}

type ActivityWithUser struct {
	models.AuditLog
	UserName string `json:"user_name"`
}

func (s *AuditService) Recent(limit int) ([]ActivityWithUser, error) {
	var activities []ActivityWithUser
	err := s.db.Table("audit_logs").
		Select("audit_logs.*, users.full_name as user_name").
		Joins("LEFT JOIN users ON audit_logs.actor_user_id = users.id").
		Order("audit_logs.timestamp DESC").
		Limit(limit).
		Scan(&activities).Error
	return activities, err
}

// Prune removes audit rows older than cutoff.
func (s *AuditService) Prune(cutoff time.Time) (int64, error) {
	res := s.db.Where("timestamp < ?", cutoff).Delete(&models.AuditLog{})
	return res.RowsAffected, res.Error
}
