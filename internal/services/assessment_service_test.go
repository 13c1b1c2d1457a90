package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/carecatalyst/go-health-backend/internal/domain"
	"github.com/carecatalyst/go-health-backend/internal/risk"
)

func seedUser(t *testing.T, svc *AuthService, email string) *domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Email: email, Password: "password123", FirstName: "T", LastName: "U",
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func highRiskInput() risk.Input {
	return risk.Input{
		PrakritiType:       risk.TypeVata,
		Age:                72,
		MemoryLoss:         "Severe",
		Confusion:          "Often",
		LanguageDifficulty: "Yes",
		DecisionMaking:     "Poor",
		StressLevel:        "High",
		SleepQuality:       "Poor",
		ChronicConditions:  "Both",
		FamilyHistory:      "Yes",
		SystolicBP:         160,
		BloodSugar:         180,
		BMI:                32,
	}
}

func TestAssessment_Predict_NoPersistedAssessment(t *testing.T) {
	db := newTestDB(t)
	svc := &AssessmentService{DB: db}

	res := svc.Predict(context.Background(), highRiskInput(), Audit{IP: "10.0.0.9"})
	if res.Level != risk.LevelHigh {
		t.Fatalf("expected High, got %v (score %v)", res.Level, res.Score)
	}

	var n int64
	if err := db.Model(&domain.Assessment{}).Count(&n).Error; err != nil || n != 0 {
		t.Fatalf("expected no persisted assessments, got n=%d err=%v", n, err)
	}

	// The anonymous audit row is the only side effect.
	var logs []domain.SystemLog
	if err := db.Find(&logs).Error; err != nil || len(logs) != 1 {
		t.Fatalf("expected 1 system log, got %d err=%v", len(logs), err)
	}
	if logs[0].UserID != nil || logs[0].Action != "risk_predict" || logs[0].IPAddress != "10.0.0.9" {
		t.Fatalf("unexpected audit row: %+v", logs[0])
	}
}

func TestAssessment_Submit_PersistsAtomically(t *testing.T) {
	db := newTestDB(t)
	auth := newAuthService(db)
	svc := &AssessmentService{DB: db}
	ctx := context.Background()

	u := seedUser(t, auth, "sub@example.com")

	in := SubmitInput{
		Risk:           highRiskInput(),
		PrakritiScores: map[string]int{"Vata": 70, "Pitta": 20, "Kapha": 10},
	}
	a, res, err := svc.Submit(ctx, u.ID, in, Audit{IP: "10.0.0.1", UserAgent: "test"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if a.ID == "" || a.UserID != u.ID {
		t.Fatalf("unexpected assessment: %+v", a)
	}
	if a.RiskScore != res.Score || a.RiskLevel != string(res.Level) || a.Verdict != res.Verdict {
		t.Fatalf("assessment/result mismatch: %+v vs %+v", a, res)
	}

	// Snapshot must rescore to the identical result.
	var snap risk.Input
	if err := json.Unmarshal([]byte(a.InputSnapshot), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if again := risk.Score(snap); again.Score != res.Score {
		t.Fatalf("snapshot rescored to %v; want %v", again.Score, res.Score)
	}

	var scores map[string]int
	if err := json.Unmarshal([]byte(a.PrakritiScores), &scores); err != nil || scores["Vata"] != 70 {
		t.Fatalf("prakriti scores not stored: %q err=%v", a.PrakritiScores, err)
	}

	// Companion rows written in the same transaction.
	var rec domain.Recommendation
	if err := db.First(&rec, "assessment_id = ?", a.ID).Error; err != nil {
		t.Fatalf("recommendation row: %v", err)
	}
	if rec.Ayurveda != res.Ayurveda || rec.Allopathy != res.Allopathy {
		t.Fatalf("recommendation mismatch: %+v", rec)
	}
	var logRow domain.SystemLog
	if err := db.First(&logRow, "action = ?", "assessment_submit").Error; err != nil {
		t.Fatalf("system log row: %v", err)
	}
	if logRow.UserID == nil || *logRow.UserID != u.ID {
		t.Fatalf("system log user mismatch: %+v", logRow)
	}
}

func TestAssessment_GetAndOwnership(t *testing.T) {
	db := newTestDB(t)
	auth := newAuthService(db)
	svc := &AssessmentService{DB: db}
	ctx := context.Background()

	owner := seedUser(t, auth, "own@example.com")
	other := seedUser(t, auth, "oth@example.com")

	a, _, err := svc.Submit(ctx, owner.ID, SubmitInput{Risk: highRiskInput()}, Audit{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if got, err := svc.Get(ctx, owner.ID, a.ID); err != nil || got.ID != a.ID {
		t.Fatalf("owner Get: got=%v err=%v", got, err)
	}
	if _, err := svc.Get(ctx, other.ID, a.ID); !errors.Is(err, ErrAssessmentNotFound) {
		t.Fatalf("expected ErrAssessmentNotFound for foreign owner, got %v", err)
	}
	if _, err := svc.Get(ctx, owner.ID, "missing"); !errors.Is(err, ErrAssessmentNotFound) {
		t.Fatalf("expected ErrAssessmentNotFound for missing id, got %v", err)
	}
}

func TestAssessment_ListPage_DefaultsAndEmpty(t *testing.T) {
	db := newTestDB(t)
	auth := newAuthService(db)
	svc := &AssessmentService{DB: db}
	ctx := context.Background()

	u := seedUser(t, auth, "list@example.com")

	items, total, err := svc.ListPage(ctx, u.ID, 0, 0) // bad page/pageSize fall back to defaults
	if err != nil || total != 0 || len(items) != 0 {
		t.Fatalf("empty list: items=%v total=%d err=%v", items, total, err)
	}

	for i := 0; i < 3; i++ {
		if _, _, err := svc.Submit(ctx, u.ID, SubmitInput{Risk: highRiskInput()}, Audit{}); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}
	items, total, err = svc.ListPage(ctx, u.ID, 1, 2)
	if err != nil || total != 3 || len(items) != 2 {
		t.Fatalf("page 1: items=%d total=%d err=%v", len(items), total, err)
	}
}

func TestAssessment_RecordProgress(t *testing.T) {
	db := newTestDB(t)
	auth := newAuthService(db)
	svc := &AssessmentService{DB: db}
	ctx := context.Background()

	u := seedUser(t, auth, "prog@example.com")
	a, _, err := svc.Submit(ctx, u.ID, SubmitInput{Risk: highRiskInput()}, Audit{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	p, err := svc.RecordProgress(ctx, u.ID, a.ID, map[string]any{"sleep_quality": "Average"}, "feeling better", Audit{})
	if err != nil {
		t.Fatalf("RecordProgress: %v", err)
	}
	if p.ID == "" || p.Notes != "feeling better" {
		t.Fatalf("unexpected progress: %+v", p)
	}

	items, total, err := svc.ListProgressPage(ctx, u.ID, 1, 10)
	if err != nil || total != 1 || len(items) != 1 {
		t.Fatalf("ListProgressPage: items=%d total=%d err=%v", len(items), total, err)
	}

	// Progress cannot be attached to a foreign or missing assessment.
	other := seedUser(t, auth, "prog2@example.com")
	if _, err := svc.RecordProgress(ctx, other.ID, a.ID, nil, "", Audit{}); !errors.Is(err, ErrAssessmentNotFound) {
		t.Fatalf("expected ErrAssessmentNotFound, got %v", err)
	}
}
