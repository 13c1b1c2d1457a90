// Package services – AuthService
//
// This file implements AuthService, the application-level component that owns
// account registration, credential verification, and JWT issuance. Passwords
// are hashed with bcrypt and never stored or logged in clear text. Tokens are
// HMAC-signed (HS256) and carry a typ claim so access and refresh tokens
// cannot be substituted for one another.
//
// Service-level errors (ErrEmailTaken, ErrInvalidCredentials, ErrTokenInvalid,
// ErrUserNotFound) are returned for predictable cases so handlers can map them
// to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/carecatalyst/go-health-backend/internal/domain"
	"github.com/carecatalyst/go-health-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	// minPasswordRunes is the minimum accepted password length.
	minPasswordRunes = 8
)

// Claims is the JWT payload used for both access and refresh tokens.
// TokenType distinguishes the two; everything else rides on the
// registered claims plus a couple of profile shortcuts.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	Admin     bool   `json:"admin,omitempty"`
	TokenType string `json:"typ"`
}

// TokenPair bundles the two tokens issued on login/refresh together with the
// access-token lifetime in seconds.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RegisterInput carries the validated registration payload.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Age       *int
	Phone     string
	Gender    string
}

// AuthService implements the account and token use-cases. It is context-aware
// and safe for concurrent use; all state lives in the database.
type AuthService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Secret is the HS256 signing key shared by access and refresh tokens.
	Secret []byte
	// AccessTTL and RefreshTTL bound token lifetimes.
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// BcryptCost is the work factor used for password hashing.
	BcryptCost int
}

// Register creates a new account with a bcrypt-hashed password.
//
// Semantics and validation:
//   - Email is lowercased and trimmed before storage and uniqueness checks.
//   - Passwords shorter than 8 runes are rejected with ErrWeakPassword.
//   - Duplicate emails yield ErrEmailTaken, whether detected by the pre-check
//     or by the unique index under concurrent registration.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Register")
	defer span.End()

	email := normalizeEmail(in.Email)
	if utf8.RuneCountInString(in.Password) < minPasswordRunes {
		return nil, ErrWeakPassword
	}

	if _, err := repo.GetUserByEmail(ctx, s.DB, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.BcryptCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Age:          in.Age,
		Phone:        strings.TrimSpace(in.Phone),
		Gender:       in.Gender,
	}
	created, err := repo.CreateUser(ctx, s.DB, u)
	if err != nil {
		// Map a unique-index race to the same stable service error.
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

// Login verifies credentials and issues a fresh token pair. Unknown email and
// wrong password both return ErrInvalidCredentials so the response does not
// leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Login")
	defer span.End()

	email = normalizeEmail(email)
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Burn a comparison anyway so timing is similar for unknown emails.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(u)
	if err != nil {
		return nil, nil, err
	}
	return pair, u, nil
}

// Refresh validates a refresh token and issues a new token pair. The account
// is re-loaded so revoked/deleted users stop refreshing immediately.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Refresh")
	defer span.End()

	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	u, err := repo.GetUserByID(ctx, s.DB, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.issueTokens(u)
}

// Authenticate resolves an access token to its account. It is the backing
// call for the bearer-token middleware.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Authenticate",
		trace.WithAttributes(attribute.String("token.typ", tokenTypeAccess)),
	)
	defer span.End()

	claims, err := s.parse(accessToken, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	u, err := repo.GetUserByID(ctx, s.DB, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// issueTokens signs an access/refresh pair for the user.
func (s *AuthService) issueTokens(u *domain.User) (*TokenPair, error) {
	now := time.Now().UTC()

	access, err := s.sign(u, tokenTypeAccess, now, s.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(u, tokenTypeRefresh, now, s.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
	}, nil
}

func (s *AuthService) sign(u *domain.User, typ string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:     u.Email,
		Admin:     u.IsAdmin,
		TokenType: typ,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// parse verifies signature, expiry, and token type. Any failure collapses to
// ErrTokenInvalid; callers never see parser internals.
func (s *AuthService) parse(tokenString, wantType string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.TokenType != wantType || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// dummyHash is a valid bcrypt hash of an unguessable string, compared against
// when the email is unknown so both login failure paths do similar work.
var dummyHash = func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.MinCost)
	return h
}()

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	msg := strings.ToLower(err.Error())
	// Postgres typically: "duplicate key value violates unique constraint"
	// SQLite typically:   "UNIQUE constraint failed: users.email"
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

// normalizeEmail trims and Unicode-case-folds an address so lookups and the
// unique index agree even for non-ASCII mailboxes.
func normalizeEmail(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
