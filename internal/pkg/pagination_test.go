package pkg

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/routekit/internal/domain"
)

func newQueryContext(queryParams url.Values) *gin.Context {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+queryParams.Encode(), nil)
	return c
}

func TestParsePageRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        url.Values
		wantPage     int
		wantPageSize int
	}{
		{"defaults", url.Values{}, 1, 20},
		{"custom", url.Values{"page": {"3"}, "page_size": {"50"}}, 3, 50},
		{"page below one", url.Values{"page": {"0"}}, 1, 20},
		{"negative page size", url.Values{"page_size": {"-5"}}, 1, 20},
		{"page size clamped", url.Values{"page_size": {"1000"}}, 1, 100},
		{"garbage", url.Values{"page": {"abc"}, "page_size": {"x"}}, 1, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := ParsePageRequest(newQueryContext(tt.query))
			if pr.Page != tt.wantPage || pr.PageSize != tt.wantPageSize {
				t.Errorf("ParsePageRequest() = %+v; want page=%d page_size=%d", pr, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		items          []int
		total          int64
		req            domain.PageRequest
		wantTotalPages int
		wantLen        int
	}{
		{"exact pages", []int{1, 2}, 4, domain.PageRequest{Page: 1, PageSize: 2}, 2, 2},
		{"partial last page", []int{1}, 5, domain.PageRequest{Page: 3, PageSize: 2}, 3, 1},
		{"nil items", nil, 0, domain.PageRequest{Page: 1, PageSize: 20}, 0, 0},
		{"zero page size", nil, 10, domain.PageRequest{Page: 1}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPageResult(tt.items, tt.total, tt.req)
			if got.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d; want %d", got.TotalPages, tt.wantTotalPages)
			}
			if got.Items == nil {
				t.Fatal("Items must never be nil")
			}
			if len(got.Items) != tt.wantLen {
				t.Errorf("len(Items) = %d; want %d", len(got.Items), tt.wantLen)
			}
			if got.Page != tt.req.Page || got.Total != tt.total {
				t.Errorf("Page/Total = %d/%d; want %d/%d", got.Page, got.Total, tt.req.Page, tt.total)
			}
		})
	}
}
