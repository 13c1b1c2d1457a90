// Package prakriti wraps the pre-trained constitutional-type classifier.
// The concrete model artifact is owned by an external training pipeline and
// treated as opaque: this package only decodes it, encodes questionnaire
// answers into the model's fixed feature order, and collapses class
// probabilities into a dominance decision.
//
// The Classifier interface is the capability boundary: everything above it
// (services, handlers) is independent of the artifact format, so the model
// is swappable without touching the scoring engine or the API layer.
package prakriti

import "sort"

// Classifier is an opaque pure function over a fixed-order numeric feature
// vector. Implementations are loaded once at process start and are safe for
// concurrent use (they perform no mutation after loading).
type Classifier interface {
	// Predict returns the winning class label and per-class probabilities
	// for one encoded feature vector.
	Predict(features []float64) (label string, probs map[string]float64, err error)
}

// Answers holds one questionnaire submission: question name to the chosen
// categorical value. Question names and value vocabularies are validated
// against the encoder artifact.
type Answers map[string]string

// TypeScores maps constitutional type to an integer percentage (0..100).
// Percentages are truncated, not rounded, matching the model pipeline.
type TypeScores map[string]int

// Decision is the collapsed outcome of a multi-class prediction.
type Decision struct {
	// Dominant reports whether a single type clearly leads.
	Dominant bool
	// Primary is the top-scoring type; Secondary is the runner-up and is
	// only meaningful for mixed decisions.
	Primary   string
	Secondary string
	// Verdict is the fixed human-readable summary.
	Verdict string
}

// Dominance thresholds: a single type is declared dominant when it reaches
// at least minDominantShare percent and leads the runner-up by at least
// minDominantLead percentage points.
const (
	minDominantShare = 60
	minDominantLead  = 20
)

// Decide applies the dominance rule to a score map. Ties are broken by
// type name so the decision is deterministic.
func Decide(scores TypeScores) Decision {
	type kv struct {
		name string
		pct  int
	}
	ranked := make([]kv, 0, len(scores))
	for name, pct := range scores {
		ranked = append(ranked, kv{name, pct})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].pct != ranked[j].pct {
			return ranked[i].pct > ranked[j].pct
		}
		return ranked[i].name < ranked[j].name
	})

	// A degenerate score map cannot express a mix: whatever single class
	// is present is dominant by definition, and no classes means no call.
	if len(ranked) == 0 {
		return Decision{}
	}
	if len(ranked) == 1 {
		return Decision{
			Dominant: true,
			Primary:  ranked[0].name,
			Verdict:  "Dominant Prakriti: " + ranked[0].name,
		}
	}

	top1, top2 := ranked[0], ranked[1]

	if top1.pct >= minDominantShare && top1.pct-top2.pct >= minDominantLead {
		return Decision{
			Dominant: true,
			Primary:  top1.name,
			Verdict:  "Dominant Prakriti: " + top1.name,
		}
	}
	return Decision{
		Primary:   top1.name,
		Secondary: top2.name,
		Verdict:   "Mix Prakriti: " + top1.name + " - " + top2.name,
	}
}

// RecommendationSet is the per-type lifestyle advice bundle.
type RecommendationSet struct {
	Diet   string `json:"diet"`
	Yoga   string `json:"yoga"`
	Sleep  string `json:"sleep"`
	Stress string `json:"stress"`
}

// recommendationBank holds the static advice per constitutional type.
var recommendationBank = map[string]RecommendationSet{
	"Vata": {
		Diet:   "Eat warm, moist, and grounding foods like soups, cooked grains, and ghee.",
		Yoga:   "Slow, grounding yoga like Hatha or Yin. Avoid overstimulation.",
		Sleep:  "Stick to a fixed schedule, warm oil massage before bed.",
		Stress: "Meditation, calming music, warm baths, and journaling.",
	},
	"Pitta": {
		Diet:   "Eat cooling foods like cucumbers, coconut, dairy. Avoid spicy/oily items.",
		Yoga:   "Calming yoga like Moon Salutation and restorative poses.",
		Sleep:  "Sleep in a cool, dark room. Avoid late-night stimulation.",
		Stress: "Practice pranayama (Sheetali), nature walks, and reduce competition.",
	},
	"Kapha": {
		Diet:   "Favor light, dry, and spicy foods. Avoid heavy, oily meals.",
		Yoga:   "Dynamic, energizing yoga like Vinyasa or Power Yoga.",
		Sleep:  "Wake early. Avoid excessive napping or oversleeping.",
		Stress: "Stimulate with new routines, breathwork, and active hobbies.",
	},
}

// Recommendations returns the advice for a decision. Dominant decisions get
// the primary type's bank entry verbatim; mixed decisions blend the top two
// banks with each half labeled "Primary:"/"Secondary:".
func Recommendations(d Decision) RecommendationSet {
	primary := recommendationBank[d.Primary]
	if d.Dominant {
		return primary
	}
	secondary := recommendationBank[d.Secondary]
	return RecommendationSet{
		Diet:   "Primary: " + primary.Diet + " Secondary: " + secondary.Diet,
		Yoga:   "Primary: " + primary.Yoga + " Secondary: " + secondary.Yoga,
		Sleep:  "Primary: " + primary.Sleep + " Secondary: " + secondary.Sleep,
		Stress: "Primary: " + primary.Stress + " Secondary: " + secondary.Stress,
	}
}

// ScoresFromProbs converts per-class probabilities into truncated integer
// percentages.
func ScoresFromProbs(probs map[string]float64) TypeScores {
	out := make(TypeScores, len(probs))
	for name, p := range probs {
		out[name] = int(p * 100)
	}
	return out
}
