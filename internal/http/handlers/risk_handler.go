// Risk scoring HTTP handlers.
//
// This file exposes the rule-based scoring endpoint:
//   - POST /predict_risk  (unauthenticated, stateless; mounted at the root)
//
// The questionnaire enumerations are closed: binding tags reject values
// outside the known vocabularies before the engine runs, so persisted
// snapshots only ever contain valid inputs.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carecatalyst/go-health-backend/internal/http/middleware"
	"github.com/carecatalyst/go-health-backend/internal/risk"
)

//
// DTOs
//

// RiskRequest is the JSON questionnaire payload for risk scoring.
//
// Every field is required: the questionnaire is a closed form, and a vital
// that was never measured must not reach the engine as a zero value.
type RiskRequest struct {
	PrakritiType       string  `json:"prakriti_type"       binding:"required,oneof=Vata Pitta Kapha" example:"Vata"`
	Age                int     `json:"age"                 binding:"required,gte=1,lte=120" example:"67"`
	Gender             string  `json:"gender"              binding:"required,oneof=Male Female Other" example:"Female"`
	DietType           string  `json:"diet_type"           binding:"required,oneof=Veg Non-Veg Mixed Junk" example:"Mixed"`
	SleepQuality       string  `json:"sleep_quality"       binding:"required,oneof=Good Average Poor" example:"Poor"`
	StressLevel        string  `json:"stress_level"        binding:"required,oneof=Low Medium High" example:"High"`
	PhysicalActivity   string  `json:"physical_activity"   binding:"required,oneof=Active Moderate Sedentary" example:"Sedentary"`
	MemoryLoss         string  `json:"memory_loss"         binding:"required,oneof=No Mild Severe" example:"Mild"`
	Confusion          string  `json:"confusion"           binding:"required,oneof=No Sometimes Often" example:"Sometimes"`
	LanguageDifficulty string  `json:"language_difficulty" binding:"required,oneof=No Mild Yes" example:"No"`
	DecisionMaking     string  `json:"decision_making"     binding:"required,oneof=Good Indecisive Poor" example:"Good"`
	RepetitionBehavior string  `json:"repetition_behavior" binding:"required,oneof=No Sometimes Yes" example:"No"`
	SocialWithdrawal   string  `json:"social_withdrawal"   binding:"required,oneof=No Sometimes Yes" example:"No"`
	MoodSwings         string  `json:"mood_swings"         binding:"required,oneof=No Sometimes Yes" example:"Sometimes"`
	ChronicConditions  string  `json:"chronic_conditions"  binding:"required,oneof=None Diabetes BP Both" example:"None"`
	FamilyHistory      string  `json:"family_history"      binding:"required,oneof=No Yes" example:"Yes"`
	SystolicBP         int     `json:"systolic_bp"         binding:"required,gte=50,lte=300" example:"145"`
	BloodSugar         int     `json:"blood_sugar"         binding:"required,gte=30,lte=600" example:"120"`
	BMI                float64 `json:"bmi"                 binding:"required,gte=8,lte=80" example:"27.5"`
}

// toInput maps the validated payload onto the scoring engine's input type.
func (r RiskRequest) toInput() risk.Input {
	return risk.Input{
		PrakritiType:       r.PrakritiType,
		Age:                r.Age,
		Gender:             r.Gender,
		DietType:           r.DietType,
		SleepQuality:       r.SleepQuality,
		StressLevel:        r.StressLevel,
		PhysicalActivity:   r.PhysicalActivity,
		MemoryLoss:         r.MemoryLoss,
		Confusion:          r.Confusion,
		LanguageDifficulty: r.LanguageDifficulty,
		DecisionMaking:     r.DecisionMaking,
		RepetitionBehavior: r.RepetitionBehavior,
		SocialWithdrawal:   r.SocialWithdrawal,
		MoodSwings:         r.MoodSwings,
		ChronicConditions:  r.ChronicConditions,
		FamilyHistory:      r.FamilyHistory,
		SystolicBP:         r.SystolicBP,
		BloodSugar:         r.BloodSugar,
		BMI:                r.BMI,
	}
}

// RiskResponse is the scoring outcome returned to clients.
type RiskResponse struct {
	RiskScore float64 `json:"risk_score" example:"43.45"`
	RiskLevel string  `json:"risk_level" example:"Medium"`
	Verdict   string  `json:"verdict"    example:"Needs attention"`
	Ayurveda  string  `json:"ayurveda"   example:"Brahmi, Ashwagandha, Abhyanga massage, warm diet"`
	Allopathy string  `json:"allopathy"  example:"Memory clinic referral, neurology consultation"`
}

func riskResponseOf(res risk.Result) RiskResponse {
	return RiskResponse{
		RiskScore: res.Score,
		RiskLevel: string(res.Level),
		Verdict:   res.Verdict,
		Ayurveda:  res.Ayurveda,
		Allopathy: res.Allopathy,
	}
}

//
// Handlers
//

// PredictRisk godoc
// @ID          predictRisk
// @Summary     Score a health-risk questionnaire
// @Description Runs the deterministic rule-based engine over the questionnaire and returns score, level, verdict, and recommendations. Nothing is persisted.
// @Tags        Risk
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RiskRequest  true  "Questionnaire payload"
//
// @Success     200  {object}  handlers.RiskResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /predict_risk [post]
func (h *Handlers) PredictRisk(c *gin.Context) {
	var req RiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid questionnaire payload")
		return
	}

	res := h.assessSvc.Predict(c.Request.Context(), req.toInput(), audit(c))
	middleware.ObserveAssessment(string(res.Level))
	ok(c, http.StatusOK, riskResponseOf(res))
}
