// Package services – AssessmentService
//
// This file implements AssessmentService, the application-level component
// that owns the lifecycle of health-risk assessments. It scores validated
// questionnaire input through the deterministic risk engine, persists the
// assessment together with its recommendation bundle atomically, and keeps
// the append-only audit trail (system_logs) of scoring activity. Progress
// notes linked to an assessment are managed here as well.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include user identifiers and pagination parameters where applicable.
package services

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/carecatalyst/go-health-backend/internal/domain"
	"github.com/carecatalyst/go-health-backend/internal/repo"
	"github.com/carecatalyst/go-health-backend/internal/risk"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Audit carries the request metadata written to the system log alongside an
// operation. Both fields may be empty.
type Audit struct {
	IP        string
	UserAgent string
}

// SubmitInput is one authenticated assessment submission: the questionnaire
// payload plus optional per-type classifier percentages obtained from a prior
// prakriti prediction.
type SubmitInput struct {
	Risk           risk.Input
	PrakritiScores map[string]int
}

// AssessmentService coordinates scoring and persistence of assessments.
type AssessmentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Predict scores a questionnaire without persisting an assessment. It backs
// the unauthenticated scoring endpoint; the only side effect is a best-effort
// anonymous audit row.
func (s *AssessmentService) Predict(ctx context.Context, in risk.Input, audit Audit) risk.Result {
	tr := otel.Tracer("services/AssessmentService")
	ctx, span := tr.Start(ctx, "Predict")
	defer span.End()

	res := risk.Score(in)
	span.SetAttributes(attribute.String("risk.level", string(res.Level)))

	// Audit failures must not affect the caller's result.
	details, _ := json.Marshal(map[string]any{"risk_level": res.Level, "risk_score": res.Score})
	_ = repo.CreateSystemLog(ctx, s.DB, &domain.SystemLog{
		Action:    "risk_predict",
		Details:   string(details),
		IPAddress: audit.IP,
		UserAgent: audit.UserAgent,
	})
	return res
}

// Submit scores the questionnaire and persists the assessment, its
// recommendation bundle, and an audit row in one transaction.
//
// The validated input is stored verbatim as a JSON snapshot so the exact
// score can be reproduced later; assessments are immutable after this call.
func (s *AssessmentService) Submit(ctx context.Context, userID string, in SubmitInput, audit Audit) (*domain.Assessment, risk.Result, error) {
	tr := otel.Tracer("services/AssessmentService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	res := risk.Score(in.Risk)

	snapshot, err := json.Marshal(in.Risk)
	if err != nil {
		return nil, risk.Result{}, err
	}
	var scoresJSON string
	if len(in.PrakritiScores) > 0 {
		b, err := json.Marshal(in.PrakritiScores)
		if err != nil {
			return nil, risk.Result{}, err
		}
		scoresJSON = string(b)
	}

	var saved *domain.Assessment
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := repo.CreateAssessment(ctx, tx, &domain.Assessment{
			UserID:         userID,
			RiskScore:      res.Score,
			RiskLevel:      string(res.Level),
			Verdict:        res.Verdict,
			PrakritiType:   in.Risk.PrakritiType,
			PrakritiScores: scoresJSON,
			InputSnapshot:  string(snapshot),
		})
		if err != nil {
			return err
		}
		saved = a

		if _, err := repo.CreateRecommendation(ctx, tx, &domain.Recommendation{
			UserID:       userID,
			AssessmentID: a.ID,
			Ayurveda:     res.Ayurveda,
			Allopathy:    res.Allopathy,
		}); err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]any{
			"assessment_id": a.ID,
			"risk_level":    res.Level,
			"risk_score":    res.Score,
		})
		return repo.CreateSystemLog(ctx, tx, &domain.SystemLog{
			UserID:    &userID,
			Action:    "assessment_submit",
			Details:   string(details),
			IPAddress: audit.IP,
			UserAgent: audit.UserAgent,
		})
	})
	if err != nil {
		return nil, risk.Result{}, err
	}
	return saved, res, nil
}

// Get fetches one assessment owned by userID, or ErrAssessmentNotFound.
func (s *AssessmentService) Get(ctx context.Context, userID, id string) (*domain.Assessment, error) {
	tr := otel.Tracer("services/AssessmentService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("assessment.id", id),
		),
	)
	defer span.End()

	a, err := repo.GetAssessment(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListPage returns paginated assessments for a user, newest first.
// It applies defaults for invalid page/pageSize and returns total count.
func (s *AssessmentService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Assessment, int64, error) {
	tr := otel.Tracer("services/AssessmentService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountAssessments(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Assessment{}, 0, nil
	}

	items, err := repo.ListAssessmentsPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// RecordProgress attaches a progress note to one of the user's assessments.
// The referenced assessment must exist and belong to the user.
func (s *AssessmentService) RecordProgress(ctx context.Context, userID, assessmentID string, progressData map[string]any, notes string, audit Audit) (*domain.UserProgress, error) {
	tr := otel.Tracer("services/AssessmentService")
	ctx, span := tr.Start(ctx, "RecordProgress",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("assessment.id", assessmentID),
		),
	)
	defer span.End()

	if _, err := repo.GetAssessment(ctx, s.DB, assessmentID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}

	data, err := json.Marshal(progressData)
	if err != nil {
		return nil, err
	}

	var saved *domain.UserProgress
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := repo.CreateProgress(ctx, tx, &domain.UserProgress{
			UserID:       userID,
			AssessmentID: assessmentID,
			ProgressData: string(data),
			Notes:        notes,
		})
		if err != nil {
			return err
		}
		saved = p

		return repo.CreateSystemLog(ctx, tx, &domain.SystemLog{
			UserID:    &userID,
			Action:    "progress_record",
			Details:   `{"assessment_id":"` + assessmentID + `"}`,
			IPAddress: audit.IP,
			UserAgent: audit.UserAgent,
		})
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// ListProgressPage returns paginated progress entries for a user, newest
// first, with the total count.
func (s *AssessmentService) ListProgressPage(ctx context.Context, userID string, page, pageSize int) ([]domain.UserProgress, int64, error) {
	tr := otel.Tracer("services/AssessmentService")
	ctx, span := tr.Start(ctx, "ListProgressPage",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	return repo.ListProgressPage(ctx, s.DB, userID, offset, pageSize)
}
