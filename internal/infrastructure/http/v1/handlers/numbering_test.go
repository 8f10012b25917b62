package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/rzkdmln/sicakap/internal/core/context"
	"github.com/rzkdmln/sicakap/internal/domain/numbering"
	"github.com/rzkdmln/sicakap/internal/infrastructure/http/v1/middleware"
)

type stubLedger struct {
	used []int
}

func (l *stubLedger) UsedNumbers(_ context.Context, _ string, _ numbering.Range) ([]int, error) {
	return l.used, nil
}

func (l *stubLedger) MaxUsedNumber(_ context.Context, _ string) (int, error) {
	max := 0
	for _, n := range l.used {
		if n > max {
			max = n
		}
	}
	return max, nil
}

// sessionStub injects a session context the way middleware.Auth would.
func sessionStub(sessionID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionID != "" {
			ctx := appctx.WithSession(c.Request.Context(), &appctx.SessionContext{
				SessionID: sessionID,
				Username:  "petugas1",
			})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func newTestRouter(t *testing.T, ledger numbering.Ledger, sessionID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, err := numbering.NewService(numbering.Config{
		Range:  numbering.Range{Start: 601, End: 700},
		Ledger: ledger,
	})
	require.NoError(t, err)

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(sessionStub(sessionID))

	h := NewNumberingHandler(NewBaseHandler(), svc)
	router.POST("/book-reg-number", h.Book)
	router.POST("/release-reg-number", h.Release)
	router.POST("/switch-date", h.SwitchDate)
	router.GET("/settings", h.GetSettings)

	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBook_ReturnsSmallestFree(t *testing.T) {
	router := newTestRouter(t, &stubLedger{used: []int{601, 602}}, "sess-a")

	w := doJSON(router, http.MethodPost, "/book-reg-number", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RegNumber int    `json:"reg_number"`
		Status    string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 603, resp.RegNumber)
	assert.Equal(t, "new", resp.Status)
}

func TestBook_RepeatReturnsExisting(t *testing.T) {
	router := newTestRouter(t, &stubLedger{}, "sess-a")

	w1 := doJSON(router, http.MethodPost, "/book-reg-number", "")
	require.Equal(t, http.StatusOK, w1.Code)

	w2 := doJSON(router, http.MethodPost, "/book-reg-number", "")
	require.Equal(t, http.StatusOK, w2.Code)

	var resp struct {
		RegNumber int    `json:"reg_number"`
		Status    string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp))
	assert.Equal(t, 601, resp.RegNumber)
	assert.Equal(t, "existing", resp.Status)
}

func TestBook_NoSessionUnauthorized(t *testing.T) {
	router := newTestRouter(t, &stubLedger{}, "")

	w := doJSON(router, http.MethodPost, "/book-reg-number", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSwitchDate_MalformedRejected(t *testing.T) {
	router := newTestRouter(t, &stubLedger{}, "sess-a")

	w := doJSON(router, http.MethodPost, "/switch-date", `{"date":"31-12-2024"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
}

func TestSettings_Snapshot(t *testing.T) {
	router := newTestRouter(t, &stubLedger{used: []int{601, 605}}, "sess-a")

	w := doJSON(router, http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		StartNumber      int `json:"start_number"`
		EndNumber        int `json:"end_number"`
		CurrentNumber    int `json:"current_number"`
		RemainingNumbers int `json:"remaining_numbers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 601, resp.StartNumber)
	assert.Equal(t, 700, resp.EndNumber)
	assert.Equal(t, 606, resp.CurrentNumber)
	assert.Equal(t, 95, resp.RemainingNumbers)
}

func TestRelease_AlwaysOK(t *testing.T) {
	router := newTestRouter(t, &stubLedger{}, "sess-a")

	// Releasing a number the session never held is a silent no-op.
	w := doJSON(router, http.MethodPost, "/release-reg-number", `{"reg_number":650}`)
	assert.Equal(t, http.StatusOK, w.Code)
}
