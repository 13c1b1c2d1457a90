package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carecatalyst/go-health-backend/internal/domain"
)

// CreateSystemLog records an audit event. UserID may be nil for anonymous
// traffic. Failures here should not abort the caller's request; callers log
// and continue.
func CreateSystemLog(ctx context.Context, db *gorm.DB, l *domain.SystemLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(l).Error
}

// ListSystemLogsPage returns one page of audit events, newest first.
// Intended for the admin surface only.
func ListSystemLogsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.SystemLog, int64, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&domain.SystemLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.SystemLog
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
