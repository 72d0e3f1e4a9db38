package postgres

import (
	"context"

	"github.com/offerready/interviewai/internal/models"
	"gorm.io/gorm"
)

type ResumeFileRepository interface {
	Insert(ctx context.Context, f *models.ResumeFile) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ResumeFile, error)
}

type resumeFileRepo struct {
	db *gorm.DB
}

func NewResumeFileRepo(db *gorm.DB) ResumeFileRepository {
	return &resumeFileRepo{db: db}
}

func (r *resumeFileRepo) Insert(ctx context.Context, f *models.ResumeFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *resumeFileRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.ResumeFile, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []models.ResumeFile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("upload_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
