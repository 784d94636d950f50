package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ShareIt-Platform/service-sharing/internal/common/response"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type seen struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Query  string `json:"query"`
	Body   string `json:"body"`
	Actor  string `json:"actor"`
}

func setup(t *testing.T) (*gin.Engine, *[]seen) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var calls []seen
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s := seen{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body), Actor: r.Header.Get("X-Sharer-User-Id")}
		calls = append(calls, s)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s)
	}))
	t.Cleanup(upstream.Close)

	g, err := New(upstream.URL, zap.NewNop(), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	r := gin.New()
	g.RegisterRoutes(&r.RouterGroup)
	return r, &calls
}

func send(r *gin.Engine, method, path, actor, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-Sharer-User-Id", actor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Message
}

func TestBookingBodyValidation(t *testing.T) {
	r, calls := setup(t)
	at := func(d time.Duration) string { return now.Add(d).Format(time.RFC3339) }
	local := func(d time.Duration) string { return now.Add(d).Format("2006-01-02T15:04:05") }

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"valid", `{"itemId":1,"start":"` + at(time.Hour) + `","end":"` + at(2*time.Hour) + `"}`, http.StatusOK, ""},
		{"start equals end", `{"itemId":1,"start":"` + at(time.Hour) + `","end":"` + at(time.Hour) + `"}`, http.StatusBadRequest, bookingTimeMessage},
		{"end before start", `{"itemId":1,"start":"` + at(2*time.Hour) + `","end":"` + at(time.Hour) + `"}`, http.StatusBadRequest, bookingTimeMessage},
		{"start in the past", `{"itemId":1,"start":"` + at(-time.Hour) + `","end":"` + at(time.Hour) + `"}`, http.StatusBadRequest, bookingTimeMessage},
		{"missing item", `{"start":"` + at(time.Hour) + `","end":"` + at(2*time.Hour) + `"}`, http.StatusBadRequest, "ItemID: required"},
		{"malformed", `{"itemId":`, http.StatusBadRequest, "malformed JSON body"},
		{"zone-less times", `{"itemId":1,"start":"` + local(time.Hour) + `","end":"` + local(2*time.Hour) + `"}`, http.StatusOK, ""},
		{"zone-less start in the past", `{"itemId":1,"start":"` + local(-time.Hour) + `","end":"` + local(time.Hour) + `"}`, http.StatusBadRequest, bookingTimeMessage},
		{"unparseable time", `{"itemId":1,"start":"tomorrow","end":"` + at(time.Hour) + `"}`, http.StatusBadRequest, "malformed JSON body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(r, http.MethodPost, "/bookings", "7", tt.body)
			require.Equal(t, tt.status, w.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, errorMessage(t, w))
			}
		})
	}

	require.Len(t, *calls, 2, "only valid requests reach upstream")
	forwarded := (*calls)[0]
	assert.Equal(t, "/bookings", forwarded.Path)
	assert.Equal(t, "7", forwarded.Actor)
	assert.Contains(t, forwarded.Body, `"itemId":1`)
}

func TestActorHeader(t *testing.T) {
	r, calls := setup(t)
	for _, actor := range []string{"", "abc", "0", "-3"} {
		w := send(r, http.MethodGet, "/bookings", actor, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "actor %q", actor)
	}
	assert.Empty(t, *calls)
}

func TestListParams(t *testing.T) {
	r, calls := setup(t)

	w := send(r, http.MethodGet, "/bookings/owner", "7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from=0&size=10&state=ALL", (*calls)[0].Query)

	w = send(r, http.MethodGet, "/bookings?state=PAST&from=5&size=5", "7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from=5&size=5&state=PAST", (*calls)[1].Query)

	for _, q := range []string{"from=-1", "size=0", "size=x"} {
		w = send(r, http.MethodGet, "/bookings?"+q, "7", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	assert.Len(t, *calls, 2)
}

func TestOtherRoutes(t *testing.T) {
	r, calls := setup(t)

	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPatch, "/bookings/1", "7", "").Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPatch, "/bookings/1?approved=maybe", "7", "").Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodPatch, "/bookings/1?approved=false", "7", "").Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodGet, "/bookings/one", "7", "").Code)

	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPost, "/users", "", `{"name":"A","email":"nope"}`).Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodPost, "/users", "", `{"name":"A","email":"a@example.com"}`).Code)

	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPost, "/items", "7", `{"name":"Drill","description":"d"}`).Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodPost, "/items", "7", `{"name":"Drill","description":"d","available":false}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPost, "/items/1/comment", "7", `{"text":""}`).Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/items/search?text=drill", "", "").Code)

	assert.Len(t, *calls, 4)
}

func TestRequestRoutes(t *testing.T) {
	r, calls := setup(t)

	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPost, "/requests", "", `{"description":"A ladder"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPost, "/requests", "7", `{"description":""}`).Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodPost, "/requests", "7", `{"description":"A ladder"}`).Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/requests", "7", "").Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodGet, "/requests/all?from=-1", "7", "").Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodGet, "/requests/all?size=0", "7", "").Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/requests/all", "7", "").Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodGet, "/requests/abc", "7", "").Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/requests/3", "7", "").Code)

	require.Len(t, *calls, 4)
	assert.Equal(t, "/requests/all", (*calls)[2].Path)
	assert.Equal(t, "from=0&size=10", (*calls)[2].Query)
	assert.Equal(t, "7", (*calls)[3].Actor)
}

func TestUpstreamDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g, err := New("http://127.0.0.1:1", zap.NewNop())
	require.NoError(t, err)
	r := gin.New()
	g.RegisterRoutes(&r.RouterGroup)

	w := send(r, http.MethodGet, "/users", "", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "sharing service unavailable", errorMessage(t, w))
}
