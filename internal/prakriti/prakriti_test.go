package prakriti

import (
	"strings"
	"testing"
)

func TestDecide_Dominant(t *testing.T) {
	// 65 >= 60 and 65-20 = 45 >= 20 against the actual second-highest.
	d := Decide(TypeScores{"Vata": 65, "Pitta": 20, "Kapha": 15})
	if !d.Dominant || d.Primary != "Vata" || d.Secondary != "" {
		t.Fatalf("expected dominant Vata, got %+v", d)
	}
	if d.Verdict != "Dominant Prakriti: Vata" {
		t.Fatalf("verdict unexpected: %q", d.Verdict)
	}
}

func TestDecide_Mixed_BelowShare(t *testing.T) {
	// 55 < 60: mixed even with a large lead.
	d := Decide(TypeScores{"Vata": 55, "Pitta": 45})
	if d.Dominant {
		t.Fatalf("expected mixed decision, got %+v", d)
	}
	if d.Primary != "Vata" || d.Secondary != "Pitta" {
		t.Fatalf("expected Vata-Pitta mix, got %+v", d)
	}
	if d.Verdict != "Mix Prakriti: Vata - Pitta" {
		t.Fatalf("verdict unexpected: %q", d.Verdict)
	}
}

func TestDecide_Mixed_BelowLead(t *testing.T) {
	// 62 >= 60 but lead 62-48 < 20 (checked against the actual runner-up).
	d := Decide(TypeScores{"Kapha": 62, "Pitta": 48, "Vata": 10})
	if d.Dominant {
		t.Fatalf("expected mixed decision, got %+v", d)
	}
	if d.Primary != "Kapha" || d.Secondary != "Pitta" {
		t.Fatalf("expected Kapha-Pitta mix, got %+v", d)
	}
}

func TestDecide_DegenerateScoreMaps(t *testing.T) {
	// One class can never be a mix, even below the dominance share.
	d := Decide(TypeScores{"Pitta": 40})
	if !d.Dominant || d.Primary != "Pitta" || d.Secondary != "" {
		t.Fatalf("single class must be dominant, got %+v", d)
	}
	if d.Verdict != "Dominant Prakriti: Pitta" {
		t.Fatalf("verdict unexpected: %q", d.Verdict)
	}

	// An empty map yields the zero decision rather than panicking.
	if d := Decide(TypeScores{}); d.Dominant || d.Primary != "" || d.Verdict != "" {
		t.Fatalf("empty scores should decide nothing, got %+v", d)
	}
}

func TestDecide_TieIsDeterministic(t *testing.T) {
	a := Decide(TypeScores{"Vata": 50, "Pitta": 50})
	b := Decide(TypeScores{"Pitta": 50, "Vata": 50})
	if a != b {
		t.Fatalf("tie decision not deterministic: %+v vs %+v", a, b)
	}
	if a.Primary != "Pitta" || a.Secondary != "Vata" {
		t.Fatalf("tie should break by name: %+v", a)
	}
}

func TestRecommendations_Dominant(t *testing.T) {
	d := Decide(TypeScores{"Vata": 70, "Pitta": 20, "Kapha": 10})
	rec := Recommendations(d)
	if rec != recommendationBank["Vata"] {
		t.Fatalf("dominant decision should return the bank entry verbatim, got %+v", rec)
	}
}

func TestRecommendations_MixedBlendsPrimarySecondary(t *testing.T) {
	d := Decide(TypeScores{"Vata": 55, "Pitta": 45})
	rec := Recommendations(d)
	for _, field := range []string{rec.Diet, rec.Yoga, rec.Sleep, rec.Stress} {
		if !strings.HasPrefix(field, "Primary: ") || !strings.Contains(field, " Secondary: ") {
			t.Fatalf("mixed recommendation missing labels: %q", field)
		}
	}
	if !strings.Contains(rec.Diet, recommendationBank["Vata"].Diet) ||
		!strings.Contains(rec.Diet, recommendationBank["Pitta"].Diet) {
		t.Fatalf("mixed diet should contain both banks: %q", rec.Diet)
	}
}

func TestScoresFromProbs_Truncates(t *testing.T) {
	s := ScoresFromProbs(map[string]float64{"Vata": 0.659, "Pitta": 0.341})
	if s["Vata"] != 65 || s["Pitta"] != 34 {
		t.Fatalf("expected truncation to 65/34, got %+v", s)
	}
}
