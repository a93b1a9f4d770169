package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storescout_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newRequestIDRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seen string
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/ping", func(c *gin.Context) {
		if id, ok := c.Request.Context().Value(logger.RequestIDKey).(string); ok {
			seen = id
		}
		c.Status(http.StatusOK)
	})
	return engine, &seen
}

func TestRequestIDHonorsCallerSuppliedID(t *testing.T) {
	engine, seen := newRequestIDRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied-id")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if *seen != "caller-supplied-id" {
		t.Fatalf("handler context carried %q, want the caller's ID", *seen)
	}
	if got := rec.Header().Get(RequestIDHeader); got != "caller-supplied-id" {
		t.Fatalf("response header carried %q, want the caller's ID", got)
	}
}

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	engine, seen := newRequestIDRouter()

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if *seen == "" {
		t.Fatal("no request ID reached the handler context")
	}
	if _, err := uuid.Parse(*seen); err != nil {
		t.Fatalf("generated ID %q is not a UUID: %v", *seen, err)
	}
	if got := rec.Header().Get(RequestIDHeader); got != *seen {
		t.Fatalf("response header %q does not match context ID %q", got, *seen)
	}
}
