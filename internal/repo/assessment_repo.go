// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Assessment
// model. Assessment rows are immutable once created: there are intentionally
// no update functions here.
//
// Functions:
//
//   - CreateAssessment(ctx, db, a) -> *domain.Assessment, error
//     Inserts a new Assessment row with UUID primary key and UTC timestamp.
//
//   - GetAssessment(ctx, db, id, userID) -> *domain.Assessment, error
//     Fetches a single assessment by ID/userID, or ErrNotFound if missing.
//
//   - CountAssessments(ctx, db, userID) -> (int64, error)
//     Returns the total number of assessments owned by the user.
//
//   - ListAssessmentsPage(ctx, db, userID, offset, limit) -> []domain.Assessment, error
//     Returns a paginated slice of assessments for a user, newest first.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carecatalyst/go-health-backend/internal/domain"
)

// CreateAssessment inserts a new Assessment row. The ID is assigned here
// (UUID string) and CreatedAt is set to UTC. On success, it returns the
// persisted Assessment. On failure, it returns a DB error.
func CreateAssessment(ctx context.Context, db *gorm.DB, a *domain.Assessment) (*domain.Assessment, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// GetAssessment fetches a single assessment by its ID and owner (userID).
// If the record does not exist or is owned by another user, it returns
// ErrNotFound. On other DB errors, the raw error is returned.
func GetAssessment(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Assessment, error) {
	var a domain.Assessment
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CountAssessments returns the total number of assessments owned by userID.
func CountAssessments(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Assessment{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListAssessmentsPage returns a paginated slice of assessments for userID,
// ordered by creation time descending. Use CountAssessments to obtain the
// total for pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListAssessmentsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Assessment, error) {
	var out []domain.Assessment
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
