// Package risk implements the deterministic rule-based risk scoring engine.
// It is intentionally small and dependency-free, engineered the same way as
// the rest of the application core:
//
//   - No logging in the library (callers decide how/what to log)
//   - Pure functions over value types: the same input always yields the
//     same score, so persisted input snapshots can be rescored verbatim
//   - Immutable weight and recommendation tables constructed once
//   - Explicit zero contribution for categorical values outside the
//     weight tables (no silent defaults elsewhere)
//
// Scoring accumulates hand-tuned additive weights per symptom/lifestyle
// field, adds threshold bonuses for continuous vitals, applies a single
// constitutional-type multiplier, clamps to the additive maximum, and
// normalizes to [0,100] with two decimals.
package risk

// Level is the three-valued risk classification derived from the score.
type Level string

// Risk levels. Boundaries are closed: a score exactly on a threshold
// resolves to the lower level.
const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// Constitutional (prakriti) types. The type is both a scoring input (via
// the multiplier) and the key into the Ayurveda recommendation bank.
const (
	TypeVata  = "Vata"
	TypePitta = "Pitta"
	TypeKapha = "Kapha"
)

// Input is one validated questionnaire submission. Categorical fields carry
// closed enumerations (validated at the API boundary); values not present in
// the weight tables contribute zero to the score.
type Input struct {
	PrakritiType       string  `json:"prakriti_type"`
	Age                int     `json:"age"`
	Gender             string  `json:"gender"`
	DietType           string  `json:"diet_type"`
	SleepQuality       string  `json:"sleep_quality"`
	StressLevel        string  `json:"stress_level"`
	PhysicalActivity   string  `json:"physical_activity"`
	MemoryLoss         string  `json:"memory_loss"`
	Confusion          string  `json:"confusion"`
	LanguageDifficulty string  `json:"language_difficulty"`
	DecisionMaking     string  `json:"decision_making"`
	RepetitionBehavior string  `json:"repetition_behavior"`
	SocialWithdrawal   string  `json:"social_withdrawal"`
	MoodSwings         string  `json:"mood_swings"`
	ChronicConditions  string  `json:"chronic_conditions"`
	SystolicBP         int     `json:"systolic_bp"`
	BloodSugar         int     `json:"blood_sugar"`
	BMI                float64 `json:"bmi"`
	FamilyHistory      string  `json:"family_history"`
}

// Result is the complete outcome of scoring one Input.
type Result struct {
	// Score is the normalized risk score in [0,100], rounded to two decimals.
	Score float64 `json:"score"`
	// Level is the risk tier derived from Score by fixed thresholds.
	Level Level `json:"level"`
	// Verdict is the fixed human-readable summary for the level.
	Verdict string `json:"verdict"`
	// Ayurveda is the complementary-medicine recommendation for the
	// constitutional type.
	Ayurveda string `json:"ayurveda"`
	// Allopathy is the conventional-medicine recommendation for the level.
	Allopathy string `json:"allopathy"`
}
