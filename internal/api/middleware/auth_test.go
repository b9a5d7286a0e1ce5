package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authgate/resource-api/internal/core/access"
	"github.com/authgate/resource-api/internal/core/domain"
)

type stubAuthenticator struct {
	ac  domain.AuthContext
	err error
	raw string
}

func (s *stubAuthenticator) Authenticate(raw string) (domain.AuthContext, error) {
	s.raw = raw
	return s.ac, s.err
}

var (
	v1Class = &access.RouteClass{Name: access.ClassV1, Authenticated: false, Matrix: access.LegacyOpenMatrix()}
	v2Class = &access.RouteClass{Name: access.ClassV2, Authenticated: true, Matrix: access.ScopedMatrix()}
)

func runAuth(t *testing.T, authn *stubAuthenticator, class *access.RouteClass, header string) (domain.AuthContext, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got domain.AuthContext
	called := false
	handler := Auth(authn, class, zerolog.Nop())(func(c echo.Context) error {
		called = true
		got = AuthContextFrom(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return got, called, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	authn := &stubAuthenticator{ac: domain.AuthContext{Subject: "alice", Role: domain.RoleAdmin}}

	ac, called, err := runAuth(t, authn, v2Class, "Bearer good-token")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if authn.raw != "good-token" {
		t.Fatalf("unexpected raw token %q", authn.raw)
	}
	if ac.Subject != "alice" || ac.Role != domain.RoleAdmin {
		t.Fatalf("unexpected auth context: %+v", ac)
	}
}

func TestAuthMiddleware_MissingHeaderIsAnonymous(t *testing.T) {
	authn := &stubAuthenticator{err: errors.New("must not be called")}

	ac, called, err := runAuth(t, authn, v2Class, "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || !ac.IsAnonymous() {
		t.Fatalf("expected anonymous pass-through, got called=%v ac=%+v", called, ac)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	authn := &stubAuthenticator{}

	for _, h := range []string{"Token abc", "Bearer", "Bearer   "} {
		_, called, err := runAuth(t, authn, v2Class, h)
		if called {
			t.Fatalf("%q: should not reach next", h)
		}
		if !errors.Is(err, domain.ErrTokenMalformed) {
			t.Fatalf("%q: expected ErrTokenMalformed, got %v", h, err)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	for _, want := range []error{domain.ErrTokenMalformed, domain.ErrTokenSignature, domain.ErrTokenExpired} {
		authn := &stubAuthenticator{err: want}
		_, called, err := runAuth(t, authn, v2Class, "Bearer not-a-token")
		if called {
			t.Fatalf("should not reach next")
		}
		if !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthMiddleware_UnauthenticatedClassIgnoresHeader(t *testing.T) {
	authn := &stubAuthenticator{err: domain.ErrTokenSignature}

	ac, called, err := runAuth(t, authn, v1Class, "Bearer forged")
	if err != nil || !called {
		t.Fatalf("expected pass-through, got called=%v err=%v", called, err)
	}
	if !ac.IsAnonymous() {
		t.Fatalf("expected anonymous context, got %+v", ac)
	}
}

func TestAuthContextFrom_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ac := AuthContextFrom(req.Context()); !ac.IsAnonymous() {
		t.Fatalf("expected anonymous default, got %+v", ac)
	}
}
