// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Recommendation model. A recommendation row is written together with its
// assessment and never updated afterwards.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carecatalyst/go-health-backend/internal/domain"
)

// CreateRecommendation inserts a recommendation row for the given user and
// assessment. The ID is assigned here and CreatedAt is set to UTC.
func CreateRecommendation(ctx context.Context, db *gorm.DB, r *domain.Recommendation) (*domain.Recommendation, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetRecommendationByAssessment fetches the recommendation row written for
// one assessment, scoped to its owner. Returns ErrNotFound if missing.
func GetRecommendationByAssessment(ctx context.Context, db *gorm.DB, assessmentID, userID string) (*domain.Recommendation, error) {
	var r domain.Recommendation
	err := db.WithContext(ctx).
		Where("assessment_id = ? AND user_id = ?", assessmentID, userID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}
