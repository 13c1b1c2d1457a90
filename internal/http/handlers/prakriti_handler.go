// Prakriti prediction HTTP handlers.
//
// This file exposes the classifier endpoint:
//   - POST /prakriti/predict  (unauthenticated)
//
// When the model artifacts failed to load at startup the endpoint answers
// 503 with a stable "unavailable" code instead of taking the process down.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carecatalyst/go-health-backend/internal/http/middleware"
	"github.com/carecatalyst/go-health-backend/internal/prakriti"
	"github.com/carecatalyst/go-health-backend/internal/services"
)

//
// DTOs
//

// PrakritiRequest is the JSON payload for constitutional-type prediction.
// Answers maps question names to the chosen categorical values; both are
// validated against the encoder vocabulary.
type PrakritiRequest struct {
	Answers map[string]string `json:"answers" binding:"required,min=1"`
}

// PrakritiResponse is the classifier outcome returned to clients.
type PrakritiResponse struct {
	// Verdict is e.g. "Dominant Prakriti: Vata" or "Mix Prakriti: Pitta - Vata".
	Verdict string `json:"verdict" example:"Dominant Prakriti: Vata"`
	// Dominant reports whether a single type clearly leads.
	Dominant bool `json:"dominant"`
	// Scores holds truncated integer percentages per type.
	Scores map[string]int `json:"scores"`
	// Recommendations is the lifestyle bundle for the decision.
	Recommendations PrakritiRecommendations `json:"recommendations"`
}

// PrakritiRecommendations is the lifestyle advice bundle.
type PrakritiRecommendations struct {
	Diet   string `json:"diet"`
	Yoga   string `json:"yoga"`
	Sleep  string `json:"sleep"`
	Stress string `json:"stress"`
}

//
// Handlers
//

// PredictPrakriti godoc
// @ID          predictPrakriti
// @Summary     Predict constitutional type
// @Description Runs the pre-trained classifier over questionnaire answers and returns the dominance verdict, per-type percentages, and lifestyle recommendations.
// @Tags        Prakriti
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.PrakritiRequest  true  "Answers payload"
//
// @Success     200  {object}  handlers.PrakritiResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Model unavailable"
// @Router      /prakriti/predict [post]
func (h *Handlers) PredictPrakriti(c *gin.Context) {
	var req PrakritiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "answers required")
		return
	}

	pred, err := h.prakSvc.Predict(c.Request.Context(), prakriti.Answers(req.Answers), audit(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrModelUnavailable):
			fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "prakriti model unavailable")
		case errors.Is(err, services.ErrInvalidInput):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "answers contain unknown questions")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "prediction failed")
		}
		return
	}

	middleware.ObservePrakriti(pred.Decision.Dominant)
	ok(c, http.StatusOK, PrakritiResponse{
		Verdict:  pred.Decision.Verdict,
		Dominant: pred.Decision.Dominant,
		Scores:   pred.Scores,
		Recommendations: PrakritiRecommendations{
			Diet:   pred.Recommendations.Diet,
			Yoga:   pred.Recommendations.Yoga,
			Sleep:  pred.Recommendations.Sleep,
			Stress: pred.Recommendations.Stress,
		},
	})
}
