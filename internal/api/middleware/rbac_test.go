package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authgate/resource-api/internal/core/domain"
)

type captureSink struct {
	events []domain.AuthEvent
}

func (c *captureSink) Enqueue(ev domain.AuthEvent) {
	c.events = append(c.events, ev)
}

func newGateContext(ac *domain.AuthContext) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v2/food/1", nil)
	if ac != nil {
		req = req.WithContext(WithAuthContext(req.Context(), *ac))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("model", "id")
	c.SetParamValues("food", "1")
	return c, rec
}

func TestGate_Allows(t *testing.T) {
	c, rec := newGateContext(&domain.AuthContext{Subject: "kirk", Role: domain.RoleAdmin})

	called := false
	handler := NewGate(v2Class, nil, zerolog.Nop()).RequireAction(domain.ActionDelete)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGate_Forbids(t *testing.T) {
	c, _ := newGateContext(&domain.AuthContext{Subject: "kirk", Role: domain.RoleWriter})
	sink := &captureSink{}

	handler := NewGate(v2Class, sink, zerolog.Nop()).RequireAction(domain.ActionDelete)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Kind != domain.EventAccessDenied || ev.Username != "kirk" || ev.Model != "food" || ev.Action != domain.ActionDelete {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
}

func TestGate_AnonymousOnAuthenticatedClass(t *testing.T) {
	c, _ := newGateContext(nil)

	handler := NewGate(v2Class, nil, zerolog.Nop()).RequireAction(domain.ActionRead)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGate_AnonymousOnOpenClass(t *testing.T) {
	c, _ := newGateContext(nil)

	called := false
	handler := NewGate(v1Class, nil, zerolog.Nop()).RequireAction(domain.ActionDelete)(func(c echo.Context) error {
		called = true
		return nil
	})

	if err := handler(c); err != nil || !called {
		t.Fatalf("expected anonymous delete on open class, got called=%v err=%v", called, err)
	}
}
