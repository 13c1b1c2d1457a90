package risk

// Hand-tuned additive weights per categorical field. Values absent from a
// table contribute zero. The tables are package-level and never mutated
// after initialization; they are safe for concurrent reads.
var (
	memoryLossWeights = map[string]float64{
		"Mild":   15,
		"Severe": 20,
	}
	confusionWeights = map[string]float64{
		"Sometimes": 10,
		"Often":     15,
	}
	languageDifficultyWeights = map[string]float64{
		"Mild": 5,
		"Yes":  10,
	}
	decisionMakingWeights = map[string]float64{
		"Indecisive": 5,
		"Poor":       10,
	}
	repetitionBehaviorWeights = map[string]float64{
		"Sometimes": 5,
		"Yes":       8,
	}
	socialWithdrawalWeights = map[string]float64{
		"Sometimes": 5,
		"Yes":       7,
	}
	moodSwingsWeights = map[string]float64{
		"Sometimes": 3,
		"Yes":       5,
	}
	stressLevelWeights = map[string]float64{
		"Medium": 5,
		"High":   8,
	}
	sleepQualityWeights = map[string]float64{
		"Poor": 7,
	}
	physicalActivityWeights = map[string]float64{
		"Sedentary": 5,
	}
	dietTypeWeights = map[string]float64{
		"Junk": 5,
	}
	chronicConditionWeights = map[string]float64{
		"Diabetes": 10,
		"BP":       10,
		"Both":     10,
	}
	familyHistoryWeights = map[string]float64{
		"Yes": 10,
	}
)

// Fixed bonuses and clinical thresholds for demographics and vitals.
const (
	ageBonusThreshold = 65
	ageBonus          = 10

	systolicBPThreshold = 140
	systolicBPBonus     = 5

	bloodSugarThreshold = 130
	bloodSugarBonus     = 5

	bmiHealthyMin = 18
	bmiHealthyMax = 30
	bmiBonus      = 5
)

// typeMultipliers holds the single post-additive multiplier per
// constitutional type. Types not listed (including Pitta) multiply by 1.
var typeMultipliers = map[string]float64{
	TypeVata:  1.10,
	TypeKapha: 1.05,
}

// maxAdditiveScore is the theoretical maximum of all additive weights and
// bonuses before the multiplier. It doubles as the normalization cap: a
// maximal input clamps back to this value under any multiplier and
// normalizes to exactly 100.00. Audited by TestCapMatchesAdditiveMaximum.
const maxAdditiveScore = ageBonus + // age > 65
	20 + // memory loss severe
	15 + // confusion often
	10 + // language difficulty yes
	10 + // decision making poor
	8 + // repetition behavior yes
	7 + // social withdrawal yes
	5 + // mood swings yes
	8 + // stress level high
	7 + // sleep quality poor
	5 + // physical activity sedentary
	5 + // diet type junk
	10 + // chronic conditions
	10 + // family history yes
	systolicBPBonus +
	bloodSugarBonus +
	bmiBonus

// Verdict strings per risk level.
var verdicts = map[Level]string{
	LevelLow:    "Healthy but monitor",
	LevelMedium: "Needs attention",
	LevelHigh:   "High risk, take action",
}

// AyurvedaBank maps constitutional type to complementary-medicine advice.
var AyurvedaBank = map[string]string{
	TypeVata:  "Brahmi, Ashwagandha, Abhyanga massage, warm diet",
	TypePitta: "Shankhpushpi, Gotu Kola, cooling herbs, meditation",
	TypeKapha: "Triphala, Guggulu, Panchakarma, light diet",
}

// AllopathyBank maps risk level to conventional-medicine advice.
var AllopathyBank = map[Level]string{
	LevelLow:    "Annual wellness exam, cognitive screening",
	LevelMedium: "Memory clinic referral, neurology consultation",
	LevelHigh:   "MRI brain scan, neuropsychological testing, therapy",
}
