package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(TraceIDKey)) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func get(r http.Handler, path string, header map[string]string, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	if remote != "" {
		req.RemoteAddr = remote
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTraceID(t *testing.T) {
	r := newEngine(TraceID())

	w := get(r, "/ping", nil, "")
	id := w.Header().Get(TraceIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected uuid trace id, got %q", id)
	}
	if w.Body.String() != id {
		t.Errorf("context trace id %q differs from header %q", w.Body.String(), id)
	}

	incoming := uuid.NewString()
	if got := get(r, "/ping", map[string]string{TraceIDHeader: incoming}, "").Header().Get(TraceIDHeader); got != incoming {
		t.Errorf("expected incoming id to be kept, got %q", got)
	}
	if got := get(r, "/ping", map[string]string{TraceIDHeader: "<script>"}, "").Header().Get(TraceIDHeader); got == "<script>" {
		t.Error("malformed incoming id must be replaced")
	}
}

func TestRecovery(t *testing.T) {
	r := newEngine(TraceID(), Logging(), Recovery())
	w := get(r, "/panic", nil, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	r := newEngine(rl.Limit())

	for i := 0; i < 2; i++ {
		if w := get(r, "/ping", nil, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
	if w := get(r, "/ping", nil, "10.0.0.1:1234"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", w.Code)
	}
	if w := get(r, "/ping", nil, "10.0.0.2:1234"); w.Code != http.StatusOK {
		t.Fatalf("other IP should not be limited, got %d", w.Code)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	r := newEngine(NewRateLimiter(0, 1).Limit())
	for i := 0; i < 10; i++ {
		if w := get(r, "/ping", nil, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}
