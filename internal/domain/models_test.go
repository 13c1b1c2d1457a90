package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestTableNames(t *testing.T) {
	if (User{}).TableName() != "users" {
		t.Fatalf("User.TableName() = %q; want %q", (User{}).TableName(), "users")
	}
	if (Assessment{}).TableName() != "assessments" {
		t.Fatalf("Assessment.TableName() = %q; want %q", (Assessment{}).TableName(), "assessments")
	}
	if (Recommendation{}).TableName() != "recommendations" {
		t.Fatalf("Recommendation.TableName() = %q; want %q", (Recommendation{}).TableName(), "recommendations")
	}
	if (UserProgress{}).TableName() != "user_progress" {
		t.Fatalf("UserProgress.TableName() = %q; want %q", (UserProgress{}).TableName(), "user_progress")
	}
	if (SystemLog{}).TableName() != "system_logs" {
		t.Fatalf("SystemLog.TableName() = %q; want %q", (SystemLog{}).TableName(), "system_logs")
	}
}

func TestMigrations_Indexes_AndCascades(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&User{}, &Assessment{}, &Recommendation{}, &UserProgress{}, &SystemLog{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	// Tables exist
	for _, tbl := range []any{&User{}, &Assessment{}, &Recommendation{}, &UserProgress{}, &SystemLog{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}

	// Indexes from tags exist
	if !m.HasIndex(&User{}, "ux_users_email") {
		t.Fatalf("expected unique index ux_users_email on users")
	}
	if !m.HasIndex(&Assessment{}, "idx_user_assessments") {
		t.Fatalf("expected index idx_user_assessments on assessments")
	}

	// Seed a user, an assessment, a recommendation, and a progress entry
	now := time.Now().UTC()

	u := &User{ID: "u1", Email: "a@b.c", PasswordHash: "x", FirstName: "A", LastName: "B", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}

	a := &Assessment{
		ID: "a1", UserID: "u1",
		RiskScore: 42.5, RiskLevel: "Medium", Verdict: "Needs attention",
		PrakritiType: "Pitta", InputSnapshot: "{}",
		CreatedAt: now, UpdatedAt: now,
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("insert assessment: %v", err)
	}

	r := &Recommendation{ID: "r1", UserID: "u1", AssessmentID: "a1", Ayurveda: "x", Allopathy: "y", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("insert recommendation: %v", err)
	}

	p := &UserProgress{ID: "p1", UserID: "u1", AssessmentID: "a1", ProgressData: "{}", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("insert progress: %v", err)
	}

	uid := "u1"
	l := &SystemLog{ID: "l1", UserID: &uid, Action: "assessment_submitted", CreatedAt: now}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("insert system log: %v", err)
	}

	// Duplicate email must be rejected
	dup := &User{ID: "u2", Email: "a@b.c", PasswordHash: "x", FirstName: "C", LastName: "D"}
	if err := db.Create(dup).Error; err == nil {
		t.Fatalf("expected unique constraint violation for duplicate email")
	}

	// CASCADE: deleting the user should delete assessments, recommendations,
	// and progress rows; system logs keep the row with user_id nulled.
	if err := db.Unscoped().Delete(&User{}, "id = ?", "u1").Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	var cnt int64
	for _, q := range []struct {
		model any
		where string
	}{
		{&Assessment{}, "user_id = ?"},
		{&Recommendation{}, "user_id = ?"},
		{&UserProgress{}, "user_id = ?"},
	} {
		if err := db.Model(q.model).Where(q.where, "u1").Count(&cnt).Error; err != nil {
			t.Fatalf("count %T after user delete: %v", q.model, err)
		}
		if cnt != 0 {
			t.Fatalf("expected %T rows to cascade-delete when user deleted, got count=%d", q.model, cnt)
		}
	}

	var got SystemLog
	if err := db.First(&got, "id = ?", "l1").Error; err != nil {
		t.Fatalf("system log should survive user deletion: %v", err)
	}
	if got.UserID != nil {
		t.Fatalf("expected system_logs.user_id to be NULL after user delete, got %v", *got.UserID)
	}
}
