// Package services – PrakritiService
//
// This file implements PrakritiService, the adapter between the HTTP layer
// and the pre-trained constitutional-type classifier. It encodes validated
// questionnaire answers into the model's feature layout, runs the prediction,
// collapses probabilities into the dominance decision, and attaches the
// lifestyle recommendation bundle.
//
// The classifier is optional at runtime: when the model artifacts failed to
// load at startup the service stays up in degraded mode and returns
// ErrModelUnavailable for prediction requests.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/carecatalyst/go-health-backend/internal/domain"
	"github.com/carecatalyst/go-health-backend/internal/prakriti"
	"github.com/carecatalyst/go-health-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Prediction is the complete outcome of one classifier run.
type Prediction struct {
	Decision        prakriti.Decision
	Scores          prakriti.TypeScores
	Recommendations prakriti.RecommendationSet
}

// Encoder is the feature-encoding contract the service needs alongside the
// classifier. *prakriti.FileModel satisfies both.
type Encoder interface {
	Encode(a prakriti.Answers) ([]float64, error)
}

// PrakritiService runs constitutional-type predictions.
type PrakritiService struct {
	// DB is used only for the audit trail; predictions are stateless.
	DB *gorm.DB

	// Model is nil in degraded mode.
	Model interface {
		Encoder
		prakriti.Classifier
	}
}

// Available reports whether the classifier loaded and predictions can be
// served.
func (s *PrakritiService) Available() bool { return s.Model != nil }

// Predict encodes the answers, runs the classifier, and collapses the
// per-class probabilities into a dominance decision with recommendations.
//
// Returns ErrModelUnavailable in degraded mode and ErrInvalidInput when the
// answers reference a question outside the encoder vocabulary.
func (s *PrakritiService) Predict(ctx context.Context, answers prakriti.Answers, audit Audit) (*Prediction, error) {
	tr := otel.Tracer("services/PrakritiService")
	ctx, span := tr.Start(ctx, "Predict")
	defer span.End()

	if s.Model == nil {
		return nil, ErrModelUnavailable
	}

	features, err := s.Model.Encode(answers)
	if err != nil {
		return nil, ErrInvalidInput
	}
	_, probs, err := s.Model.Predict(features)
	if err != nil {
		return nil, err
	}

	scores := prakriti.ScoresFromProbs(probs)
	decision := prakriti.Decide(scores)
	span.SetAttributes(
		attribute.String("prakriti.primary", decision.Primary),
		attribute.Bool("prakriti.dominant", decision.Dominant),
	)

	// Best-effort anonymous audit row; prediction does not require login.
	_ = repo.CreateSystemLog(ctx, s.DB, &domain.SystemLog{
		Action:    "prakriti_predict",
		Details:   `{"verdict":"` + decision.Verdict + `"}`,
		IPAddress: audit.IP,
		UserAgent: audit.UserAgent,
	})

	return &Prediction{
		Decision:        decision,
		Scores:          scores,
		Recommendations: prakriti.Recommendations(decision),
	}, nil
}
