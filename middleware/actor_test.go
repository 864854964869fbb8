package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/abdur28/boarding-sky-sub000/access"
)

type stubResolver map[string]access.Role

func (s stubResolver) ResolveActor(_ context.Context, email string) (access.Actor, error) {
	if email == "broken@example.com" {
		return access.Actor{}, errors.New("db down")
	}
	role, ok := s[email]
	if !ok {
		role = access.RoleUser
	}
	return access.Actor{Email: email, Role: role}, nil
}

func newEngine(reached *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identify(stubResolver{"ops@example.com": access.RoleManager}))
	r.GET("/users", RequireSection(access.SectionUsers), func(c *gin.Context) { *reached++ })
	r.GET("/offers", RequireSection(access.SectionCarOffers, access.SectionBlogs), func(c *gin.Context) { *reached++ })
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, string(ActorFrom(c).Role))
	})
	return r
}

func get(r *gin.Engine, path, email string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if email != "" {
		req.Header.Set(IdentityHeader, email)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSection(t *testing.T) {
	reached := 0
	r := newEngine(&reached)

	if w := get(r, "/users", "ops@example.com"); w.Code != http.StatusForbidden {
		t.Fatalf("manager /users = %d", w.Code)
	}
	if reached != 0 {
		t.Fatalf("handler ran behind a denied guard")
	}
	if w := get(r, "/offers", "ops@example.com"); w.Code != http.StatusOK || reached != 1 {
		t.Fatalf("manager /offers = %d reached=%d", w.Code, reached)
	}
	if w := get(r, "/offers", "someone@example.com"); w.Code != http.StatusForbidden {
		t.Fatalf("user /offers = %d", w.Code)
	}
}

func TestIdentify(t *testing.T) {
	reached := 0
	r := newEngine(&reached)

	if w := get(r, "/whoami", ""); w.Body.String() != string(access.RoleUser) {
		t.Fatalf("anonymous role = %q", w.Body.String())
	}
	if w := get(r, "/whoami", "ops@example.com"); w.Body.String() != string(access.RoleManager) {
		t.Fatalf("manager role = %q", w.Body.String())
	}
	if w := get(r, "/whoami", "broken@example.com"); w.Code != http.StatusInternalServerError {
		t.Fatalf("resolver failure = %d", w.Code)
	}
}
