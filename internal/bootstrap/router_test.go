package bootstrap

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/repository"
	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return BuildRouter(RouterDeps{
		ServiceName:    "issue-tracker",
		Version:        "test",
		AllowedOrigins: origins,
		Issues:         service.NewIssueService(repository.NewMemoryRepository(), nil),
	})
}

func TestBuildRouter_Routes(t *testing.T) {
	r := testRouter(nil)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/health", ""},
		{http.MethodGet, "/healthz", ""},
		{http.MethodGet, "/api/projects", ""},
		{http.MethodGet, "/api/issues/apitest", ""},
		{http.MethodPost, "/api/issues/apitest", `{"issue_title":"T","issue_text":"X","created_by":"P"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
		})
	}
}

func TestBuildRouter_CORS(t *testing.T) {
	t.Run("wildcard", func(t *testing.T) {
		r := testRouter([]string{"*"})
		req := httptest.NewRequest(http.MethodGet, "/api/issues/apitest", nil)
		req.Header.Set("Origin", "http://frontend.test")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow list", func(t *testing.T) {
		r := testRouter([]string{"http://frontend.test"})

		req := httptest.NewRequest(http.MethodOptions, "/api/issues/apitest", nil)
		req.Header.Set("Origin", "http://frontend.test")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		require.Less(t, rr.Code, 300)
		assert.Equal(t, "http://frontend.test", rr.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/api/issues/apitest", nil)
		req.Header.Set("Origin", "http://evil.test")
		rr = httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
