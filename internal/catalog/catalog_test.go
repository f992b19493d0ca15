package catalog

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testModule struct {
	names []string
}

func (m testModule) Register(c *Catalog) {
	for _, name := range m.names {
		c.Handle(name, func(ctx *gin.Context) { ctx.String(http.StatusOK, name) })
	}
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic, got none", name)
		}
	}()
	fn()
}

func TestCatalog_HandleAndLookup(t *testing.T) {
	c := New(nil)
	c.Handle("notes.list", func(ctx *gin.Context) { ctx.String(http.StatusOK, "list") })

	h, ok := c.Lookup("notes.list")
	if !ok || h == nil {
		t.Fatal("Lookup() did not find registered handler")
	}
	if _, ok := c.Lookup(" notes.list "); !ok {
		t.Error("Lookup() should trim whitespace around names")
	}
	if _, ok := c.Lookup("notes.missing"); ok {
		t.Error("Lookup() found a handler that was never registered")
	}
}

func TestCatalog_HandlePanics(t *testing.T) {
	c := New(nil)
	c.Handle("a", func(*gin.Context) {})

	expectPanic(t, "empty name", func() { c.Handle(" ", func(*gin.Context) {}) })
	expectPanic(t, "nil handler", func() { c.Handle("b", nil) })
	expectPanic(t, "duplicate", func() { c.Handle("a", func(*gin.Context) {}) })
	expectPanic(t, "nil func", func() { c.HandleFunc("c", nil) })
}

func TestCatalog_HandleFuncForwardsErrors(t *testing.T) {
	c := New(nil)
	c.HandleFunc("fails", func(*gin.Context) error { return errors.New("boom") })

	h, _ := c.Lookup("fails")
	r := gin.New()
	var recorded int
	r.Use(func(ctx *gin.Context) {
		ctx.Next()
		recorded = len(ctx.Errors)
	})
	r.GET("/", h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorded != 1 {
		t.Fatalf("expected 1 recorded error, got %d", recorded)
	}
}

func TestCatalog_InstallAndNames(t *testing.T) {
	c := New(nil)
	c.Install(testModule{names: []string{"status.version", "notes.get"}}, testModule{names: []string{"admin.routes"}})

	want := []string{"admin.routes", "notes.get", "status.version"}
	if got := c.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v; want %v", got, want)
	}

	expectPanic(t, "nil module", func() { c.Install(nil) })
}
