package risk

import "math"

// Score computes the normalized risk score, level, verdict, and
// recommendation bundle for one validated Input. It is pure and
// deterministic: no state is read or written, so rescoring a persisted
// input snapshot reproduces the original result exactly.
func Score(in Input) Result {
	acc := accumulate(in)

	// Single post-additive multiplier keyed by constitutional type.
	if m, ok := typeMultipliers[in.PrakritiType]; ok {
		acc *= m
	}

	// Clamp to the additive maximum, then normalize to [0,100].
	if acc > maxAdditiveScore {
		acc = maxAdditiveScore
	}
	score := round2(acc / maxAdditiveScore * 100)

	lvl := Classify(score)
	return Result{
		Score:     score,
		Level:     lvl,
		Verdict:   verdicts[lvl],
		Ayurveda:  AyurvedaBank[in.PrakritiType],
		Allopathy: AllopathyBank[lvl],
	}
}

// accumulate sums the additive weights and vitals bonuses for in.
// Categorical values missing from a weight table contribute zero.
func accumulate(in Input) float64 {
	var acc float64

	if in.Age > ageBonusThreshold {
		acc += ageBonus
	}
	acc += memoryLossWeights[in.MemoryLoss]
	acc += confusionWeights[in.Confusion]
	acc += languageDifficultyWeights[in.LanguageDifficulty]
	acc += decisionMakingWeights[in.DecisionMaking]
	acc += repetitionBehaviorWeights[in.RepetitionBehavior]
	acc += socialWithdrawalWeights[in.SocialWithdrawal]
	acc += moodSwingsWeights[in.MoodSwings]
	acc += stressLevelWeights[in.StressLevel]
	acc += sleepQualityWeights[in.SleepQuality]
	acc += physicalActivityWeights[in.PhysicalActivity]
	acc += dietTypeWeights[in.DietType]
	acc += chronicConditionWeights[in.ChronicConditions]
	acc += familyHistoryWeights[in.FamilyHistory]

	if in.SystolicBP > systolicBPThreshold {
		acc += systolicBPBonus
	}
	if in.BloodSugar > bloodSugarThreshold {
		acc += bloodSugarBonus
	}
	// A zero BMI means the vital was never measured; only a reported
	// value can fall outside the healthy band.
	if in.BMI > 0 && (in.BMI < bmiHealthyMin || in.BMI > bmiHealthyMax) {
		acc += bmiBonus
	}
	return acc
}

// Classify maps a normalized score to its risk level. Thresholds are
// closed and partition [0,100] without gaps: <=40 Low, <=60 Medium,
// >60 High.
func Classify(score float64) Level {
	switch {
	case score <= 40:
		return LevelLow
	case score <= 60:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// Verdict returns the fixed verdict string for a level.
func Verdict(lvl Level) string { return verdicts[lvl] }

// Recommendations returns the complementary (by constitutional type) and
// conventional (by level) recommendation strings. The two banks are
// independent lookups returned side by side, never merged.
func Recommendations(prakritiType string, lvl Level) (ayurveda, allopathy string) {
	return AyurvedaBank[prakritiType], AllopathyBank[lvl]
}

// round2 rounds to two decimal places, half away from zero.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
