package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/carecatalyst/go-health-backend/internal/domain"
)

// stubAuth accepts exactly one token and returns a fixed account for it.
type stubAuth struct {
	token string
	user  *domain.User
}

func (s *stubAuth) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == s.token {
		return s.user, nil
	}
	return nil, errors.New("invalid or expired token")
}

func newAuthRouter(auth Authenticator, admin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/", BearerAuth(auth))
	if admin {
		grp.Use(RequireAdmin())
	}
	grp.GET("/whoami", func(c *gin.Context) {
		u := UserFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "uid": c.GetString("userID")})
	})
	return r
}

func TestBearerAuth_ValidToken(t *testing.T) {
	auth := &stubAuth{token: "good-token", user: &domain.User{ID: "u1", Email: "a@b.com"}}
	r := newAuthRouter(auth, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != "u1" || body["uid"] != "u1" {
		t.Fatalf("identity not stored in context: %v", body)
	}
}

func TestBearerAuth_SchemeCaseInsensitive(t *testing.T) {
	auth := &stubAuth{token: "good-token", user: &domain.User{ID: "u1"}}
	r := newAuthRouter(auth, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "bEaReR good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for case-insensitive scheme, got %d", w.Code)
	}
}

func TestBearerAuth_Rejections(t *testing.T) {
	auth := &stubAuth{token: "good-token", user: &domain.User{ID: "u1"}}
	r := newAuthRouter(auth, false)

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic Zm9vOmJhcg==",
		"bad token":      "Bearer forged",
		"scheme only":    "Bearer",
	}
	for name, header := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, w.Code)
		}
		if got := w.Header().Get("WWW-Authenticate"); got == "" {
			t.Fatalf("%s: expected WWW-Authenticate header", name)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["code"] != "unauthorized" {
			t.Fatalf("%s: unexpected body %v", name, body)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	plain := &stubAuth{token: "t", user: &domain.User{ID: "u1"}}
	admin := &stubAuth{token: "t", user: &domain.User{ID: "u2", IsAdmin: true}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer t")
	newAuthRouter(plain, true).ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req2.Header.Set("Authorization", "Bearer t")
	newAuthRouter(admin, true).ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w2.Code)
	}
}

func TestUserFrom_NilWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if UserFrom(c) != nil {
		t.Fatalf("expected nil user without BearerAuth")
	}
}
