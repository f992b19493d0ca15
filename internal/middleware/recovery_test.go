package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/routekit/internal/pkg"
)

const shieldBody = `{"error":{"message":"Something went terribly wrong"}}`

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func setupRecoveryRouter(logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(logger))
	r.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})
	r.GET("/panic-error", func(c *gin.Context) {
		panic(errors.New("nil pointer somewhere"))
	})
	r.GET("/late-panic", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("after write")
	})
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestRecovery_NoPanic_PassesThrough(t *testing.T) {
	var logBuf bytes.Buffer
	r := setupRecoveryRouter(newTestLogger(&logBuf))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("expected body 'ok', got %q", w.Body.String())
	}
	if logBuf.Len() != 0 {
		t.Errorf("expected no log output, got:\n%s", logBuf.String())
	}
}

func TestRecovery_Panic_ShieldResponse(t *testing.T) {
	for _, path := range []string{"/panic", "/panic-error"} {
		t.Run(path, func(t *testing.T) {
			var logBuf bytes.Buffer
			r := setupRecoveryRouter(newTestLogger(&logBuf))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			if w.Code != http.StatusInternalServerError {
				t.Fatalf("expected status 500, got %d", w.Code)
			}
			if w.Body.String() != shieldBody {
				t.Errorf("body = %s; want %s", w.Body.String(), shieldBody)
			}
		})
	}
}

func TestRecovery_Panic_LogsDetails(t *testing.T) {
	var logBuf bytes.Buffer
	r := setupRecoveryRouter(newTestLogger(&logBuf))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	logOutput := logBuf.String()
	if n := strings.Count(logOutput, "request failed"); n != 1 {
		t.Fatalf("expected one failure record, got %d:\n%s", n, logOutput)
	}
	for _, want := range []string{"panic: test panic", "method=GET", "path=/panic", "stack="} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("expected log to contain %q, got:\n%s", want, logOutput)
		}
	}
	if strings.Contains(w.Body.String(), "test panic") {
		t.Error("panic value leaked into the response")
	}
}

func TestRecovery_PanicAfterWrite_KeepsResponse(t *testing.T) {
	var logBuf bytes.Buffer
	r := setupRecoveryRouter(newTestLogger(&logBuf))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late-panic", nil))

	if w.Code != http.StatusOK || w.Body.String() != "partial" {
		t.Errorf("response = %d %q; want 200 \"partial\"", w.Code, w.Body.String())
	}
	if !strings.Contains(logBuf.String(), "after write") {
		t.Errorf("expected panic to be logged, got:\n%s", logBuf.String())
	}
}

func TestRecovery_Panic_AbortsFurtherHandlers(t *testing.T) {
	var logBuf bytes.Buffer
	logger := newTestLogger(&logBuf)

	handlerCalled := false
	r := gin.New()
	r.Use(Recovery(logger))
	r.GET("/panic",
		func(c *gin.Context) { panic("abort test") },
		func(c *gin.Context) { handlerCalled = true },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	if handlerCalled {
		t.Error("expected subsequent handler NOT to be called after panic recovery")
	}
}

func TestRecovery_WrapAsyncPanicHandledByErrorStages(t *testing.T) {
	var logBuf bytes.Buffer
	logger := newTestLogger(&logBuf)

	r := gin.New()
	r.Use(Recovery(logger), LogErrors(logger), ShieldErrors())
	r.GET("/wrapped", pkg.WrapAsync(func(*gin.Context) error { panic("inside wrapper") }))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wrapped", nil))

	if w.Code != http.StatusInternalServerError || w.Body.String() != shieldBody {
		t.Fatalf("response = %d %s", w.Code, w.Body.String())
	}
	if n := strings.Count(logBuf.String(), "request failed"); n != 1 {
		t.Errorf("expected exactly one failure record, got %d:\n%s", n, logBuf.String())
	}
}
