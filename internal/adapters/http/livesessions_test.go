package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tutorarc/backend/internal/session"
)

func newTestRouter() (*gin.Engine, *session.MemoryStore) {
	gin.SetMode(gin.TestMode)
	store := session.NewMemoryStore()
	h := &LiveSessionHandlers{Store: store}

	r := gin.New()
	api := r.Group("/api")
	api.POST("/livesessions", h.Create)
	api.GET("/livesessions", h.List)
	api.GET("/livesessions/:id", h.Get)
	api.PUT("/livesessions/:id", h.Update)
	api.DELETE("/livesessions/:id", h.Delete)
	return r, store
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestLiveSessions_CreateAndGet(t *testing.T) {
	r, _ := newTestRouter()

	w := do(r, http.MethodPost, "/api/livesessions", gin.H{"userurl": "https://meet.example/session-1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, want 201", w.Code)
	}
	resp := decodeResponse(t, w)
	if !resp.Success {
		t.Fatal("POST success = false")
	}

	var created struct {
		ID      int64  `json:"id"`
		UserURL string `json:"userurl"`
	}
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if created.ID == 0 || created.UserURL != "https://meet.example/session-1" {
		t.Fatalf("created = %+v", created)
	}

	w = do(r, http.MethodGet, fmt.Sprintf("/api/livesessions/%d", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", w.Code)
	}
}

func TestLiveSessions_CreateRequiresUserURL(t *testing.T) {
	r, _ := newTestRouter()

	w := do(r, http.MethodPost, "/api/livesessions", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST status = %d, want 400", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Success {
		t.Fatal("success = true for missing userurl")
	}
}

func TestLiveSessions_ListDescending(t *testing.T) {
	r, _ := newTestRouter()

	for i := 0; i < 3; i++ {
		do(r, http.MethodPost, "/api/livesessions", gin.H{"userurl": fmt.Sprintf("https://meet.example/%d", i)})
	}

	w := do(r, http.MethodGet, "/api/livesessions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Count != 3 {
		t.Fatalf("count = %d, want 3", resp.Count)
	}
	var rows []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(resp.Data, &rows); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].ID >= rows[i-1].ID {
			t.Fatalf("list not descending: %v", rows)
		}
	}
}

func TestLiveSessions_UpdateAndDelete(t *testing.T) {
	r, _ := newTestRouter()

	w := do(r, http.MethodPost, "/api/livesessions", gin.H{"userurl": "https://meet.example/old"})
	resp := decodeResponse(t, w)
	var created struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(resp.Data, &created)

	w = do(r, http.MethodPut, fmt.Sprintf("/api/livesessions/%d", created.ID), gin.H{"userurl": "https://meet.example/new"})
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200", w.Code)
	}
	var updated struct {
		UserURL string `json:"userurl"`
	}
	_ = json.Unmarshal(decodeResponse(t, w).Data, &updated)
	if updated.UserURL != "https://meet.example/new" {
		t.Fatalf("updated userurl = %q", updated.UserURL)
	}

	w = do(r, http.MethodDelete, fmt.Sprintf("/api/livesessions/%d", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d, want 200", w.Code)
	}

	w = do(r, http.MethodGet, fmt.Sprintf("/api/livesessions/%d", created.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want 404", w.Code)
	}
}

func TestLiveSessions_NotFoundAndBadID(t *testing.T) {
	r, _ := newTestRouter()

	for _, tc := range []struct {
		method string
		path   string
		body   any
		want   int
	}{
		{http.MethodGet, "/api/livesessions/999", nil, http.StatusNotFound},
		{http.MethodPut, "/api/livesessions/999", gin.H{"userurl": "x"}, http.StatusNotFound},
		{http.MethodDelete, "/api/livesessions/999", nil, http.StatusNotFound},
		{http.MethodGet, "/api/livesessions/abc", nil, http.StatusBadRequest},
	} {
		w := do(r, tc.method, tc.path, tc.body)
		if w.Code != tc.want {
			t.Errorf("%s %s status = %d, want %d", tc.method, tc.path, w.Code, tc.want)
		}
	}
}
