package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lugoda-hospital/backend/internal/mailer"
	"github.com/lugoda-hospital/backend/internal/model"
	"github.com/lugoda-hospital/backend/internal/repository"
	"github.com/lugoda-hospital/backend/internal/service"
)

// ---------------------------------------------------------------------------
// Mock AdminService
// ---------------------------------------------------------------------------

type mockAdminService struct {
	listFunc         func(ctx context.Context, page, pageSize int) (*service.SubmissionPage, error)
	updateStatusFunc func(ctx context.Context, id int64, status string) error
	deleteFunc       func(ctx context.Context, id int64) error
	replyFunc        func(ctx context.Context, id int64, subject, message string) (string, error)
}

func (m *mockAdminService) List(ctx context.Context, page, pageSize int) (*service.SubmissionPage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, page, pageSize)
	}
	return &service.SubmissionPage{Page: page}, nil
}

func (m *mockAdminService) UpdateStatus(ctx context.Context, id int64, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockAdminService) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockAdminService) Reply(ctx context.Context, id int64, subject, message string) (string, error) {
	if m.replyFunc != nil {
		return m.replyFunc(ctx, id, subject, message)
	}
	return "", nil
}

// requestWithID builds a request with the {id} path value set, the way the
// mux would.
func requestWithID(method, target, id, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetPathValue("id", id)
	return req
}

// ---------------------------------------------------------------------------
// GET /api/admin/submissions tests
// ---------------------------------------------------------------------------

func TestAdminHandler_List_Success(t *testing.T) {
	now := time.Now()
	page := &service.SubmissionPage{
		Submissions: []*model.Submission{
			{ID: 2, Name: "Bea", Email: "bea@example.com", Subject: "B", Message: "2", SubmittedAt: now, Status: model.StatusNew},
			{ID: 1, Name: "Ada", Email: "ada@example.com", Subject: "A", Message: "1", SubmittedAt: now, Status: model.StatusRead},
		},
		Total:      2,
		Page:       1,
		TotalPages: 1,
	}
	mock := &mockAdminService{
		listFunc: func(ctx context.Context, p, size int) (*service.SubmissionPage, error) {
			return page, nil
		},
	}
	h := NewAdminHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/submissions", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Submissions []*model.Submission `json:"submissions"`
		Total       int                 `json:"total"`
		Page        int                 `json:"page"`
		TotalPages  int                 `json:"totalPages"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Submissions) != 2 || resp.Total != 2 || resp.TotalPages != 1 {
		t.Errorf("unexpected page payload: %+v", resp)
	}
}

// TestAdminHandler_List_ForwardsPaging verifies page/limit query params
// reach the service.
func TestAdminHandler_List_ForwardsPaging(t *testing.T) {
	var gotPage, gotSize int
	mock := &mockAdminService{
		listFunc: func(ctx context.Context, page, size int) (*service.SubmissionPage, error) {
			gotPage, gotSize = page, size
			return &service.SubmissionPage{Page: page}, nil
		},
	}
	h := NewAdminHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/submissions?page=3&limit=25", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if gotPage != 3 || gotSize != 25 {
		t.Errorf("expected (page=3, limit=25) forwarded, got (%d, %d)", gotPage, gotSize)
	}
}

// TestAdminHandler_List_Defaults verifies page defaults to 1 and limit to 10.
func TestAdminHandler_List_Defaults(t *testing.T) {
	var gotPage, gotSize int
	mock := &mockAdminService{
		listFunc: func(ctx context.Context, page, size int) (*service.SubmissionPage, error) {
			gotPage, gotSize = page, size
			return &service.SubmissionPage{Page: page}, nil
		},
	}
	h := NewAdminHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/submissions", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if gotPage != 1 || gotSize != 10 {
		t.Errorf("expected defaults (1, 10), got (%d, %d)", gotPage, gotSize)
	}
}

// TestAdminHandler_List_EmptyIsArray verifies an empty page serializes as
// [] rather than null.
func TestAdminHandler_List_EmptyIsArray(t *testing.T) {
	mock := &mockAdminService{
		listFunc: func(ctx context.Context, page, size int) (*service.SubmissionPage, error) {
			return &service.SubmissionPage{Page: 1}, nil
		},
	}
	h := NewAdminHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/submissions", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if !strings.Contains(rec.Body.String(), `"submissions":[]`) {
		t.Errorf("expected submissions:[] in body, got %s", rec.Body.String())
	}
}

func TestAdminHandler_List_ServiceError(t *testing.T) {
	mock := &mockAdminService{
		listFunc: func(ctx context.Context, page, size int) (*service.SubmissionPage, error) {
			return nil, errors.New("database error")
		},
	}
	h := NewAdminHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/submissions", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on service error, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// PATCH /api/admin/submissions/{id} tests
// ---------------------------------------------------------------------------

func TestAdminHandler_UpdateStatus_Success(t *testing.T) {
	var gotID int64
	var gotStatus string
	mock := &mockAdminService{
		updateStatusFunc: func(ctx context.Context, id int64, status string) error {
			gotID, gotStatus = id, status
			return nil
		},
	}
	h := NewAdminHandler(mock)

	req := requestWithID(http.MethodPatch, "/api/admin/submissions/7", "7", `{"status":"read"}`)
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if gotID != 7 || gotStatus != "read" {
		t.Errorf("expected (7, read) forwarded, got (%d, %s)", gotID, gotStatus)
	}
}

func TestAdminHandler_UpdateStatus_InvalidStatus(t *testing.T) {
	mock := &mockAdminService{
		updateStatusFunc: func(ctx context.Context, id int64, status string) error {
			return service.ErrInvalidStatus
		},
	}
	h := NewAdminHandler(mock)

	req := requestWithID(http.MethodPatch, "/api/admin/submissions/7", "7", `{"status":"bogus"}`)
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid status, got %d", rec.Code)
	}
}

func TestAdminHandler_UpdateStatus_NotFound(t *testing.T) {
	mock := &mockAdminService{
		updateStatusFunc: func(ctx context.Context, id int64, status string) error {
			return repository.ErrNotFound
		},
	}
	h := NewAdminHandler(mock)

	req := requestWithID(http.MethodPatch, "/api/admin/submissions/999", "999", `{"status":"read"}`)
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", rec.Code)
	}
}

// TestAdminHandler_UpdateStatus_NonNumericID verifies garbage ids report not-found.
func TestAdminHandler_UpdateStatus_NonNumericID(t *testing.T) {
	mock := &mockAdminService{}
	h := NewAdminHandler(mock)

	req := requestWithID(http.MethodPatch, "/api/admin/submissions/abc", "abc", `{"status":"read"}`)
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for non-numeric id, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// DELETE /api/admin/submissions/{id} tests
// ---------------------------------------------------------------------------

func TestAdminHandler_Delete_Success(t *testing.T) {
	var gotID int64
	mock := &mockAdminService{
		deleteFunc: func(ctx context.Context, id int64) error {
			gotID = id
			return nil
		},
	}
	h := NewAdminHandler(mock)

	req := requestWithID(http.MethodDelete, "/api/admin/submissions/3", "3", "")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != 3 {
		t.Errorf("expected delete of id=3, got %d", gotID)
	}
}

func TestAdminHandler_Delete_NotFound(t *testing.T) {
	mock := &mockAdminService{
		deleteFunc: func(ctx context.Context, id int64) error {
			return repository.ErrNotFound
		},
	}
	h := NewAdminHandler(mock)

	req := requestWithID(http.MethodDelete, "/api/admin/submissions/999", "999", "")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// POST /api/admin/reply/{id} tests
// ---------------------------------------------------------------------------

func TestAdminHandler_Reply_Success(t *testing.T) {
	mock := &mockAdminService{
		replyFunc: func(ctx context.Context, id int64, subject, message string) (string, error) {
			return "ada@example.com", nil
		},
	}
	h := NewAdminHandler(mock)

	req := requestWithID(http.MethodPost, "/api/admin/reply/5", "5", `{"subject":"Re: Hi","message":"Thanks"}`)
	rec := httptest.NewRecorder()
	h.Reply(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["sentTo"] != "ada@example.com" {
		t.Errorf("expected sentTo=ada@example.com, got %q", resp["sentTo"])
	}
}

// TestAdminHandler_Reply_MissingFields verifies subject and message are required.
func TestAdminHandler_Reply_MissingFields(t *testing.T) {
	for _, body := range []string{`{"subject":"Re: Hi"}`, `{"message":"Thanks"}`, `{}`} {
		mock := &mockAdminService{}
		h := NewAdminHandler(mock)

		req := requestWithID(http.MethodPost, "/api/admin/reply/5", "5", body)
		rec := httptest.NewRecorder()
		h.Reply(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestAdminHandler_Reply_NotFound(t *testing.T) {
	mock := &mockAdminService{
		replyFunc: func(ctx context.Context, id int64, subject, message string) (string, error) {
			return "", repository.ErrNotFound
		},
	}
	h := NewAdminHandler(mock)

	req := requestWithID(http.MethodPost, "/api/admin/reply/999", "999", `{"subject":"Re","message":"m"}`)
	rec := httptest.NewRecorder()
	h.Reply(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", rec.Code)
	}
}

// TestAdminHandler_Reply_NotConfigured verifies the configuration error maps to 500.
func TestAdminHandler_Reply_NotConfigured(t *testing.T) {
	mock := &mockAdminService{
		replyFunc: func(ctx context.Context, id int64, subject, message string) (string, error) {
			return "", mailer.ErrNotConfigured
		},
	}
	h := NewAdminHandler(mock)

	req := requestWithID(http.MethodPost, "/api/admin/reply/5", "5", `{"subject":"Re","message":"m"}`)
	rec := httptest.NewRecorder()
	h.Reply(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 when mail is not configured, got %d", rec.Code)
	}

	var resp map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "mail_not_configured" {
		t.Errorf("expected error=mail_not_configured, got %q", resp["error"])
	}
}

// TestAdminHandler_Reply_SendFailureIncludesDetail verifies transport
// errors surface detail for the operator.
func TestAdminHandler_Reply_SendFailureIncludesDetail(t *testing.T) {
	mock := &mockAdminService{
		replyFunc: func(ctx context.Context, id int64, subject, message string) (string, error) {
			return "", errors.New("smtp: connection refused")
		},
	}
	h := NewAdminHandler(mock)

	req := requestWithID(http.MethodPost, "/api/admin/reply/5", "5", `{"subject":"Re","message":"m"}`)
	rec := httptest.NewRecorder()
	h.Reply(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on send failure, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "connection refused") {
		t.Errorf("expected transport detail in body, got %s", rec.Body.String())
	}
}
