package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/authgate/resource-api/internal/core/domain"
)

type stubRecordService struct {
	created map[string]any
	deleted int64
	err     error
}

func (s *stubRecordService) Create(_ context.Context, model string, data map[string]any) (*domain.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = data
	return &domain.Record{ID: "abc", Model: model, Data: data}, nil
}

func (s *stubRecordService) List(_ context.Context, model string) ([]*domain.Record, error) {
	return []*domain.Record{{ID: "abc", Model: model, Data: map[string]any{"name": "pork"}}}, s.err
}

func (s *stubRecordService) Get(_ context.Context, model, id string) (*domain.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Record{ID: id, Model: model, Data: map[string]any{"name": "pork"}}, nil
}

func (s *stubRecordService) Update(_ context.Context, model, id string, data map[string]any) (*domain.Record, error) {
	return &domain.Record{ID: id, Model: model, Data: data}, s.err
}

func (s *stubRecordService) Delete(_ context.Context, model, id string) (int64, error) {
	return s.deleted, s.err
}

func newRecordContext(method, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	names := []string{"model", "id"}
	c.SetParamNames(names[:len(params)]...)
	c.SetParamValues(params...)
	return c, rec
}

func TestRecordHandler_Create(t *testing.T) {
	svc := &stubRecordService{}
	h := NewRecordHandler(svc)
	c, rec := newRecordContext(http.MethodPost, `{"name":"pork","calories":12,"type":"protein"}`, "food")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if _, leaked := svc.created["model"]; leaked {
		t.Fatalf("path params leaked into record data: %+v", svc.created)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["name"] != "pork" || resp["id"] != "abc" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRecordHandler_Create_InvalidPayload(t *testing.T) {
	h := NewRecordHandler(&stubRecordService{})
	c, _ := newRecordContext(http.MethodPost, `not-json`, "food")

	if err := h.Create(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRecordHandler_List(t *testing.T) {
	h := NewRecordHandler(&stubRecordService{})
	c, rec := newRecordContext(http.MethodGet, "", "food")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["name"] != "pork" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRecordHandler_GetNotFound(t *testing.T) {
	h := NewRecordHandler(&stubRecordService{err: domain.ErrRecordNotFound})
	c, _ := newRecordContext(http.MethodGet, "", "food", "1")

	if err := h.Get(c); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestRecordHandler_Delete(t *testing.T) {
	h := NewRecordHandler(&stubRecordService{deleted: 1})
	c, rec := newRecordContext(http.MethodDelete, "", "food", "abc")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"deleted":1}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
