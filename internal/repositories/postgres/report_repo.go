package postgres

import (
	"context"
	"errors"

	"github.com/offerready/interviewai/internal/models"
	"github.com/offerready/interviewai/internal/utils"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Insert(ctx context.Context, r *models.InterviewReport) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewReport, error)
	ExistsBySessionID(ctx context.Context, sessionID string) (bool, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Insert(ctx context.Context, row *models.InterviewReport) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *reportRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewReport, error) {
	var row models.InterviewReport
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *reportRepo) ExistsBySessionID(ctx context.Context, sessionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InterviewReport{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count > 0, err
}
