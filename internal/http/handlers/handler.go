// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the service contracts consumed by the HTTP layer and the
// shared helpers (identity extraction, audit metadata, pagination clamping).
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carecatalyst/go-health-backend/internal/domain"
	"github.com/carecatalyst/go-health-backend/internal/prakriti"
	"github.com/carecatalyst/go-health-backend/internal/risk"
	"github.com/carecatalyst/go-health-backend/internal/services"
	"github.com/carecatalyst/go-health-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// AuthService defines the account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AuthService interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, in services.RegisterInput) (*domain.User, error)
	// Login verifies credentials and issues a token pair.
	Login(ctx context.Context, email, password string) (*services.TokenPair, *domain.User, error)
	// Refresh rotates a token pair from a valid refresh token.
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// AssessmentService defines scoring and persistence operations.
type AssessmentService interface {
	// Predict scores a questionnaire without persisting an assessment.
	Predict(ctx context.Context, in risk.Input, audit services.Audit) risk.Result
	// Submit scores and persists an assessment with its recommendations.
	Submit(ctx context.Context, userID string, in services.SubmitInput, audit services.Audit) (*domain.Assessment, risk.Result, error)
	// Get fetches one assessment owned by userID.
	Get(ctx context.Context, userID, id string) (*domain.Assessment, error)
	// ListPage returns a page of the user's assessments and the total count.
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Assessment, int64, error)
	// RecordProgress attaches a progress note to one of the user's assessments.
	RecordProgress(ctx context.Context, userID, assessmentID string, progressData map[string]any, notes string, audit services.Audit) (*domain.UserProgress, error)
	// ListProgressPage returns a page of the user's progress entries.
	ListProgressPage(ctx context.Context, userID string, page, pageSize int) ([]domain.UserProgress, int64, error)
}

// PrakritiService defines constitutional-type prediction operations.
type PrakritiService interface {
	// Available reports whether the classifier loaded.
	Available() bool
	// Predict runs the classifier over validated answers.
	Predict(ctx context.Context, answers prakriti.Answers, audit services.Audit) (*services.Prediction, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for auth, risk scoring, prakriti prediction,
// assessments, and progress. It depends on abstract service interfaces to
// keep transport concerns separate from business logic.
type Handlers struct {
	authSvc   AuthService
	assessSvc AssessmentService
	prakSvc   PrakritiService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(authSvc AuthService, assessSvc AssessmentService, prakSvc PrakritiService) *Handlers {
	return &Handlers{authSvc: authSvc, assessSvc: assessSvc, prakSvc: prakSvc}
}

// requireUserID extracts the authenticated user id from Gin context, set by
// the bearer-auth middleware. A request without one gets a 401 envelope and
// ok=false: identity comes only from a verified token, never from headers,
// so a mis-wired route fails closed instead of impersonating someone.
func requireUserID(c *gin.Context) (string, bool) {
	if v, exists := c.Get("userID"); exists {
		if s, isStr := v.(string); isStr && s != "" {
			return s, true
		}
	}
	fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	return "", false
}

// audit captures the request metadata written to the system log.
func audit(c *gin.Context) services.Audit {
	return services.Audit{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

//
// Shared DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// newPagination computes the metadata block for one result page.
func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}
