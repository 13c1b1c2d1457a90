package repo

import (
	"context"
	"testing"
	"time"

	"github.com/carecatalyst/go-health-backend/internal/domain"
)

func TestCreateProgress_AndListPage(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Assessment{}, &domain.UserProgress{})
	ctx := context.Background()

	u, err := CreateUser(ctx, db, &domain.User{Email: "prog@example.com", PasswordHash: "h", FirstName: "P", LastName: "R"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	a, err := CreateAssessment(ctx, db, newAssessment(u.ID, 30, "Low"))
	if err != nil {
		t.Fatalf("CreateAssessment: %v", err)
	}

	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		p := &domain.UserProgress{
			ID:           string(rune('p' + i)),
			UserID:       u.ID,
			AssessmentID: a.ID,
			ProgressData: `{"sleep_quality":"Average"}`,
			Notes:        "week check-in",
			CreatedAt:    base.Add(time.Duration(i) * 24 * time.Hour),
		}
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	items, total, err := ListProgressPage(ctx, db, u.ID, 0, 2)
	if err != nil {
		t.Fatalf("ListProgressPage: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d; want 3", total)
	}
	if len(items) != 2 || items[0].ID != "r" || items[1].ID != "q" {
		t.Fatalf("expected newest-first [r q], got %+v", items)
	}

	// Fresh inserts through the repo assign IDs.
	p, err := CreateProgress(ctx, db, &domain.UserProgress{
		UserID:       u.ID,
		AssessmentID: a.ID,
		ProgressData: "{}",
	})
	if err != nil {
		t.Fatalf("CreateProgress: %v", err)
	}
	if p.ID == "" || p.CreatedAt.IsZero() {
		t.Fatalf("expected assigned ID and timestamp: %+v", p)
	}
}

func TestListProgressPage_EmptyForUnknownUser(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Assessment{}, &domain.UserProgress{})

	items, total, err := ListProgressPage(context.Background(), db, "ghost", 0, 10)
	if err != nil || total != 0 || len(items) != 0 {
		t.Fatalf("expected empty result, got items=%v total=%d err=%v", items, total, err)
	}
}
