package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/carecatalyst/go-health-backend/internal/domain"
)

func TestOpenSQLite_ErrorOnBadPath(t *testing.T) {
	base := t.TempDir()
	bad := filepath.Join(base, "does-not-exist", "app.db")

	db, err := OpenSQLite(bad)
	if err == nil || db != nil {
		t.Fatalf("expected error opening %q, got db=%v err=%v", bad, db, err)
	}

	// Be tolerant across platforms/drivers:
	// - Windows: *os.PathError ("CreateFile … cannot find the file specified")
	// - SQLite:  "unable to open database file" / "out of memory (14)"
	// - Unix:    "no such file or directory"
	lower := strings.ToLower(err.Error())
	if !(os.IsNotExist(err) ||
		strings.Contains(lower, "unable to open database file") ||
		strings.Contains(lower, "no such file or directory") ||
		strings.Contains(lower, "out of memory")) {
		t.Fatalf("unexpected error opening %q: %v", bad, err)
	}
}

func TestOpenSQLite_SetsPragmas_Pool_AndAutoMigrate(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "app.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	// --- Verify PRAGMAs set by OpenSQLite ---
	var (
		journalMode string
		syncVal     int
		fkOn        int
		busyMS      int
	)

	if err := db.Raw("PRAGMA journal_mode;").Row().Scan(&journalMode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if strings.ToLower(journalMode) != "wal" {
		t.Fatalf("expected journal_mode=wal, got %q", journalMode)
	}

	if err := db.Raw("PRAGMA synchronous;").Row().Scan(&syncVal); err != nil {
		t.Fatalf("PRAGMA synchronous: %v", err)
	}
	// NORMAL == 1
	if syncVal != 1 {
		t.Fatalf("expected synchronous=1 (NORMAL), got %d", syncVal)
	}

	if err := db.Raw("PRAGMA foreign_keys;").Row().Scan(&fkOn); err != nil {
		t.Fatalf("PRAGMA foreign_keys: %v", err)
	}
	if fkOn != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fkOn)
	}

	if err := db.Raw("PRAGMA busy_timeout;").Row().Scan(&busyMS); err != nil {
		t.Fatalf("PRAGMA busy_timeout: %v", err)
	}
	if busyMS != 5000 {
		t.Fatalf("expected busy_timeout=5000, got %d", busyMS)
	}

	// --- Verify pool tuning applied ---
	if stats := sqlDB.Stats(); stats.MaxOpenConnections != 10 {
		t.Fatalf("expected MaxOpenConnections=10, got %d", stats.MaxOpenConnections)
	}

	// --- AutoMigrate should create all tables ---
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	m := db.Migrator()
	for _, tbl := range []any{&domain.User{}, &domain.Assessment{}, &domain.Recommendation{}, &domain.UserProgress{}, &domain.SystemLog{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}

	// Quick insert round-trip to prove schema is usable.
	now := time.Now().UTC()
	user := &domain.User{ID: "u1", Email: "rt@example.com", PasswordHash: "x", FirstName: "R", LastName: "T", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}
	a := &domain.Assessment{
		ID: "a1", UserID: "u1", RiskScore: 12.34, RiskLevel: "Low",
		Verdict: "Healthy but monitor", PrakritiType: "Vata",
		InputSnapshot: "{}", CreatedAt: now, UpdatedAt: now,
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("insert assessment: %v", err)
	}

	var got domain.Assessment
	if err := db.First(&got, "id = ?", "a1").Error; err != nil || got.UserID != "u1" {
		t.Fatalf("readback assessment failed: err=%v got=%+v", err, got)
	}
}

func TestSeedDefaultUsers_IdempotentAndHashed(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	ctx := context.Background()

	if err := SeedDefaultUsers(ctx, db, bcrypt.MinCost); err != nil {
		t.Fatalf("SeedDefaultUsers: %v", err)
	}

	admin, err := GetUserByEmail(ctx, db, "admin@carecatalyst.com")
	if err != nil {
		t.Fatalf("admin account missing after seed: %v", err)
	}
	if !admin.IsAdmin {
		t.Fatalf("expected admin account to have IsAdmin=true")
	}
	if admin.PasswordHash == "password123" || admin.PasswordHash == "" {
		t.Fatalf("password not hashed: %q", admin.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("password123")); err != nil {
		t.Fatalf("hashed password does not verify: %v", err)
	}

	demo, err := GetUserByEmail(ctx, db, "user@example.com")
	if err != nil {
		t.Fatalf("demo account missing after seed: %v", err)
	}
	if demo.IsAdmin {
		t.Fatalf("demo account must not be admin")
	}
	if demo.Age == nil || *demo.Age != 45 {
		t.Fatalf("demo account age mismatch: %v", demo.Age)
	}

	// Second run must not duplicate or rewrite accounts.
	if err := SeedDefaultUsers(ctx, db, bcrypt.MinCost); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 seeded users, got %d", count)
	}
	again, err := GetUserByEmail(ctx, db, "admin@carecatalyst.com")
	if err != nil || again.PasswordHash != admin.PasswordHash {
		t.Fatalf("existing account was modified on re-seed: err=%v", err)
	}
}

// Compile-time guard to ensure signature stability.
var _ func(string) (*gorm.DB, error) = OpenSQLite
