package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/carecatalyst/go-health-backend/internal/domain"
)

func TestCreateSystemLog_WithAndWithoutUser(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.SystemLog{})
	ctx := context.Background()

	u, err := CreateUser(ctx, db, &domain.User{Email: "log@example.com", PasswordHash: "h", FirstName: "L", LastName: "G"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := CreateSystemLog(ctx, db, &domain.SystemLog{
		UserID:    &u.ID,
		Action:    "login",
		IPAddress: "10.0.0.1",
		UserAgent: "test-agent",
	}); err != nil {
		t.Fatalf("CreateSystemLog (user): %v", err)
	}

	// Anonymous traffic logs with NULL user_id.
	if err := CreateSystemLog(ctx, db, &domain.SystemLog{
		Action:  "risk_predict",
		Details: `{"risk_level":"Low"}`,
	}); err != nil {
		t.Fatalf("CreateSystemLog (anonymous): %v", err)
	}

	items, total, err := ListSystemLogsPage(ctx, db, 0, 10)
	if err != nil {
		t.Fatalf("ListSystemLogsPage: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 logs, got total=%d len=%d", total, len(items))
	}
	for _, l := range items {
		if l.ID == "" || l.CreatedAt.IsZero() {
			t.Fatalf("log missing ID/timestamp: %+v", l)
		}
	}
}

func TestCreateRecommendation_RoundTripAndscoping(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Assessment{}, &domain.Recommendation{})
	ctx := context.Background()

	u, _ := CreateUser(ctx, db, &domain.User{Email: "rec@example.com", PasswordHash: "h", FirstName: "R", LastName: "C"})
	a, err := CreateAssessment(ctx, db, newAssessment(u.ID, 70, "High"))
	if err != nil {
		t.Fatalf("CreateAssessment: %v", err)
	}

	r, err := CreateRecommendation(ctx, db, &domain.Recommendation{
		UserID:       u.ID,
		AssessmentID: a.ID,
		Ayurveda:     "Warm oil massage, regular routine",
		Allopathy:    "Consult neurologist",
	})
	if err != nil {
		t.Fatalf("CreateRecommendation: %v", err)
	}
	if r.ID == "" {
		t.Fatalf("expected assigned ID")
	}

	got, err := GetRecommendationByAssessment(ctx, db, a.ID, u.ID)
	if err != nil {
		t.Fatalf("GetRecommendationByAssessment: %v", err)
	}
	if got.Ayurveda != r.Ayurveda || got.Allopathy != r.Allopathy {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	// Scoped to owner; other users see ErrNotFound.
	if _, err := GetRecommendationByAssessment(ctx, db, a.ID, "someone-else"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
}
