package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carecatalyst/go-health-backend/internal/domain"
)

// CreateProgress inserts a progress entry for a user. ID and CreatedAt are
// assigned here.
func CreateProgress(ctx context.Context, db *gorm.DB, p *domain.UserProgress) (*domain.UserProgress, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListProgressPage returns one page of a user's progress entries, newest
// first, plus the total count for pagination headers.
func ListProgressPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.UserProgress, int64, error) {
	var total int64
	if err := db.WithContext(ctx).
		Model(&domain.UserProgress{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.UserProgress
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
