package repository

import (
	"github.com/cloudtask/task-service/internal/models"
	"gorm.io/gorm"
)

// GormMemberRepository is a GORM implementation of MemberRepository
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &GormMemberRepository{db: db}
}

// Add inserts a membership row
func (r *GormMemberRepository) Add(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// Remove deletes a membership row
func (r *GormMemberRepository) Remove(projectID uint64, userUID string) error {
	return r.db.Where("project_id = ? AND user_uid = ?", projectID, userUID).
		Delete(&models.ProjectMember{}).Error
}

// Find finds the membership row for a (project, user) pair
func (r *GormMemberRepository) Find(projectID uint64, userUID string) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_uid = ?", projectID, userUID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListByProject lists a project's membership rows
func (r *GormMemberRepository) ListByProject(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Exists reports whether a membership row exists for the pair
func (r *GormMemberRepository) Exists(projectID uint64, userUID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_uid = ?", projectID, userUID).
		Count(&count).Error
	return count > 0, err
}
