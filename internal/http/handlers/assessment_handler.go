// Assessment HTTP handlers.
//
// This file exposes REST endpoints for assessment resources:
//   - POST   /assessment/submit  (score + persist)
//   - GET    /assessment         (list, paginated, ETag support)
//   - GET    /assessment/{id}    (detail with decoded snapshot)
//   - POST   /progress           (attach a progress note)
//   - GET    /progress           (list progress, paginated)
//
// All endpoints require bearer authentication; records are scoped to their
// owner so a foreign assessment is indistinguishable from a missing one.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carecatalyst/go-health-backend/internal/domain"
	"github.com/carecatalyst/go-health-backend/internal/http/middleware"
	"github.com/carecatalyst/go-health-backend/internal/repo"
	"github.com/carecatalyst/go-health-backend/internal/services"
)

//
// DTOs
//

// SubmitAssessmentRequest is the JSON payload for an authenticated
// submission: the questionnaire plus optional classifier percentages from a
// prior prakriti prediction.
type SubmitAssessmentRequest struct {
	RiskRequest
	PrakritiScores map[string]int `json:"prakriti_scores,omitempty" binding:"omitempty,max=3"`
}

// SubmitAssessmentResponse wraps the persisted record and scoring outcome.
type SubmitAssessmentResponse struct {
	AssessmentID string       `json:"assessment_id"`
	CreatedAt    time.Time    `json:"created_at"`
	Result       RiskResponse `json:"result"`
}

// AssessmentDetail is the single-resource view with the input snapshot
// decoded back into its JSON form.
type AssessmentDetail struct {
	ID             string          `json:"id"`
	RiskScore      float64         `json:"risk_score"`
	RiskLevel      string          `json:"risk_level"`
	Verdict        string          `json:"verdict"`
	PrakritiType   string          `json:"prakriti_type"`
	PrakritiScores map[string]int  `json:"prakriti_scores,omitempty"`
	Input          json.RawMessage `json:"input"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ListAssessmentsResponse wraps a page of assessments and pagination
// information.
type ListAssessmentsResponse struct {
	Assessments []domain.Assessment `json:"assessments"`
	Pagination  Pagination          `json:"pagination"`
}

// ProgressRequest is the JSON payload for attaching a progress note.
type ProgressRequest struct {
	AssessmentID string         `json:"assessment_id" binding:"required,uuid"`
	ProgressData map[string]any `json:"progress_data" binding:"required"`
	Notes        string         `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// ListProgressResponse wraps a page of progress entries.
type ListProgressResponse struct {
	Progress   []domain.UserProgress `json:"progress"`
	Pagination Pagination            `json:"pagination"`
}

//
// Handlers
//

// SubmitAssessment godoc
// @ID          submitAssessment
// @Summary     Submit an assessment
// @Description Scores the questionnaire, persists the assessment with its recommendation bundle, and returns both.
// @Tags        Assessments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.SubmitAssessmentRequest  true  "Questionnaire payload"
//
// @Success     201  {object}  handlers.SubmitAssessmentResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /assessment/submit [post]
func (h *Handlers) SubmitAssessment(c *gin.Context) {
	var req SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid questionnaire payload")
		return
	}

	uid, authed := requireUserID(c)
	if !authed {
		return
	}
	a, res, err := h.assessSvc.Submit(c.Request.Context(), uid, services.SubmitInput{
		Risk:           req.toInput(),
		PrakritiScores: req.PrakritiScores,
	}, audit(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not persist assessment")
		return
	}

	middleware.ObserveAssessment(string(res.Level))
	ok(c, http.StatusCreated, SubmitAssessmentResponse{
		AssessmentID: a.ID,
		CreatedAt:    a.CreatedAt,
		Result:       riskResponseOf(res),
	})
}

// ListAssessments godoc
// @ID          listAssessments
// @Summary     List assessments (paginated)
// @Description Returns a page of the user's assessments, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Assessments
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListAssessmentsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /assessment [get]
func (h *Handlers) ListAssessments(c *gin.Context) {
	ctx := c.Request.Context()
	uid, authed := requireUserID(c)
	if !authed {
		return
	}
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if db := h.assessDB(); db != nil {
		count, maxTS, err := repo.AssessmentsStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"assessments:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.assessSvc.ListPage(ctx, uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list assessments")
		return
	}
	ok(c, http.StatusOK, ListAssessmentsResponse{
		Assessments: items,
		Pagination:  newPagination(page, pageSize, total),
	})
}

// GetAssessment godoc
// @ID          getAssessment
// @Summary     Get one assessment
// @Description Returns a single assessment owned by the current user, with the input snapshot decoded.
// @Tags        Assessments
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Assessment ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.AssessmentDetail
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Assessment not found"
// @Router      /assessment/{id} [get]
func (h *Handlers) GetAssessment(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "assessment id must be a UUID")
		return
	}

	uid, authed := requireUserID(c)
	if !authed {
		return
	}
	a, err := h.assessSvc.Get(c.Request.Context(), uid, id)
	if err != nil {
		if errors.Is(err, services.ErrAssessmentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "assessment not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load assessment")
		return
	}

	detail := AssessmentDetail{
		ID:           a.ID,
		RiskScore:    a.RiskScore,
		RiskLevel:    a.RiskLevel,
		Verdict:      a.Verdict,
		PrakritiType: a.PrakritiType,
		Input:        json.RawMessage(a.InputSnapshot),
		CreatedAt:    a.CreatedAt,
	}
	if a.PrakritiScores != "" {
		_ = json.Unmarshal([]byte(a.PrakritiScores), &detail.PrakritiScores)
	}
	ok(c, http.StatusOK, detail)
}

// RecordProgress godoc
// @ID          recordProgress
// @Summary     Attach a progress note
// @Description Links a structured follow-up entry to one of the user's assessments.
// @Tags        Progress
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.ProgressRequest  true  "Progress payload"
//
// @Success     201  {object} domain.UserProgress
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Assessment not found"
// @Router      /progress [post]
func (h *Handlers) RecordProgress(c *gin.Context) {
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "assessment_id and progress_data required")
		return
	}

	uid, authed := requireUserID(c)
	if !authed {
		return
	}
	p, err := h.assessSvc.RecordProgress(c.Request.Context(), uid, req.AssessmentID, req.ProgressData, req.Notes, audit(c))
	if err != nil {
		if errors.Is(err, services.ErrAssessmentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "assessment not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not record progress")
		return
	}
	ok(c, http.StatusCreated, p)
}

// ListProgress godoc
// @ID          listProgress
// @Summary     List progress notes (paginated)
// @Description Returns a page of the user's progress entries, newest first.
// @Tags        Progress
// @Produce     json
// @Security    BearerAuth
//
// @Param       page       query  int  false "Page number"    minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page" minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListProgressResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /progress [get]
func (h *Handlers) ListProgress(c *gin.Context) {
	uid, authed := requireUserID(c)
	if !authed {
		return
	}
	page, pageSize := clampPagination(c)

	items, total, err := h.assessSvc.ListProgressPage(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list progress")
		return
	}
	ok(c, http.StatusOK, ListProgressResponse{
		Progress:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// ListSystemLogs godoc
// @ID          listSystemLogs
// @Summary     List audit events (admin)
// @Description Returns a page of system log rows, newest first. Admin only.
// @Tags        Admin
// @Produce     json
// @Security    BearerAuth
//
// @Param       page       query  int  false "Page number"    minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page" minimum(1) maximum(100) default(20)
//
// @Success     200  {object} map[string]any
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Forbidden"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /admin/logs [get]
func (h *Handlers) ListSystemLogs(c *gin.Context) {
	db := h.assessDB()
	if db == nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "store unavailable")
		return
	}
	page, pageSize := clampPagination(c)
	offset := (page - 1) * pageSize

	items, total, err := repo.ListSystemLogsPage(c.Request.Context(), db, offset, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list system logs")
		return
	}
	ok(c, http.StatusOK, gin.H{
		"logs":       items,
		"pagination": newPagination(page, pageSize, total),
	})
}

// assessDB exposes the underlying GORM handle when the concrete assessment
// service is in use (ETag pre-checks, admin queries). Interface-only test
// doubles return nil and the callers degrade gracefully.
func (h *Handlers) assessDB() *gorm.DB {
	if svc, ok := h.assessSvc.(*services.AssessmentService); ok {
		return svc.DB
	}
	return nil
}
