// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), schema migrations, and the idempotent demo
// account seeding performed on first initialization.
package repo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/carecatalyst/go-health-backend/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates the five application tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Assessment{},
		&domain.Recommendation{},
		&domain.UserProgress{},
		&domain.SystemLog{},
	)
}

// Demo accounts created on first initialization. The bootstrap is
// idempotent: accounts that already exist are left untouched.
var defaultUsers = []struct {
	email     string
	password  string
	firstName string
	lastName  string
	age       *int
	isAdmin   bool
}{
	{email: "admin@carecatalyst.com", password: "password123", firstName: "Admin", lastName: "User", isAdmin: true},
	{email: "user@example.com", password: "password123", firstName: "Test", lastName: "User", age: intPtr(45)},
}

func intPtr(n int) *int { return &n }

// SeedDefaultUsers inserts the fixed demo accounts if they are absent.
// Passwords are hashed with bcrypt at the given cost. Existing accounts
// are never modified.
func SeedDefaultUsers(ctx context.Context, db *gorm.DB, bcryptCost int) error {
	for _, du := range defaultUsers {
		_, err := GetUserByEmail(ctx, db, du.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(du.password), bcryptCost)
		if err != nil {
			return err
		}
		u := &domain.User{
			Email:        du.email,
			PasswordHash: string(hash),
			FirstName:    du.firstName,
			LastName:     du.lastName,
			Age:          du.age,
			IsAdmin:      du.isAdmin,
		}
		if _, err := CreateUser(ctx, db, u); err != nil {
			return err
		}
	}
	return nil
}
