package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/routekit/internal/domain"
	"github.com/simp-lee/routekit/internal/pkg"
)

func setupErrorRouter(buf *bytes.Buffer) *gin.Engine {
	logger := newTestLogger(buf)
	r := gin.New()
	r.Use(RequestID(), LogErrors(logger), ShieldErrors())

	r.GET("/fail", pkg.WrapAsync(func(*gin.Context) error {
		return errors.New("connection refused: db.internal:5432")
	}))
	r.GET("/chained",
		pkg.WrapAsync(func(*gin.Context) error { return errors.New("first stage failed") }),
		func(c *gin.Context) { c.String(http.StatusOK, "should not run") },
	)
	r.GET("/not-found", pkg.WrapAsync(func(c *gin.Context) error {
		pkg.Error(c, domain.NewAppError(domain.CodeNotFound, "note not found", nil))
		return nil
	}))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestErrorStages_WrapAsyncFailure(t *testing.T) {
	for _, path := range []string{"/fail", "/chained"} {
		t.Run(path, func(t *testing.T) {
			var logBuf bytes.Buffer
			r := setupErrorRouter(&logBuf)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			if w.Code != http.StatusInternalServerError {
				t.Fatalf("expected status 500, got %d", w.Code)
			}
			if w.Body.String() != shieldBody {
				t.Errorf("body = %s; want %s", w.Body.String(), shieldBody)
			}

			logOutput := logBuf.String()
			if n := strings.Count(logOutput, "request failed"); n != 1 {
				t.Fatalf("expected exactly one failure record, got %d:\n%s", n, logOutput)
			}
			for _, want := range []string{"level=ERROR", "path=" + path, "request_id=", "stack="} {
				if !strings.Contains(logOutput, want) {
					t.Errorf("expected log to contain %q, got:\n%s", want, logOutput)
				}
			}
		})
	}
}

func TestErrorStages_DetailsNotLeaked(t *testing.T) {
	var logBuf bytes.Buffer
	r := setupErrorRouter(&logBuf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	if strings.Contains(w.Body.String(), "db.internal") {
		t.Errorf("internal detail leaked: %s", w.Body.String())
	}
	if !strings.Contains(logBuf.String(), "db.internal") {
		t.Errorf("expected internal detail in the log, got:\n%s", logBuf.String())
	}
}

func TestErrorStages_HandledErrorsPassThrough(t *testing.T) {
	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/not-found", http.StatusNotFound, `{"error":{"message":"note not found"}}`},
		{"/ok", http.StatusOK, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var logBuf bytes.Buffer
			r := setupErrorRouter(&logBuf)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.wantStatus || w.Body.String() != tt.wantBody {
				t.Errorf("response = %d %s; want %d %s", w.Code, w.Body.String(), tt.wantStatus, tt.wantBody)
			}
			if strings.Contains(logBuf.String(), "request failed") {
				t.Errorf("expected no failure record, got:\n%s", logBuf.String())
			}
		})
	}
}

func TestShieldErrors_ResponseAlreadyWritten(t *testing.T) {
	var logBuf bytes.Buffer
	r := gin.New()
	r.Use(LogErrors(newTestLogger(&logBuf)), ShieldErrors())
	r.GET("/partial", pkg.WrapAsync(func(c *gin.Context) error {
		c.String(http.StatusAccepted, "partial")
		return errors.New("failed after writing")
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/partial", nil))

	if w.Code != http.StatusAccepted || w.Body.String() != "partial" {
		t.Errorf("response = %d %q; want 202 \"partial\"", w.Code, w.Body.String())
	}
	if n := strings.Count(logBuf.String(), "request failed"); n != 1 {
		t.Errorf("expected one failure record, got %d", n)
	}
}
