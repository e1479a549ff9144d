package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/logging"
	"github.com/fortuna/courtside/internal/query"
	"github.com/fortuna/courtside/internal/service"
	"github.com/fortuna/courtside/internal/store"
)

type QueryAskerMock struct {
	mock.Mock
}

func (o *QueryAskerMock) Ask(ctx context.Context, question string) service.QueryResponse {
	args := o.Called(ctx, question)
	return args.Get(0).(service.QueryResponse)
}

type staticDirectory []store.Player

func (d staticDirectory) Players() []store.Player {
	return d
}

var directory = staticDirectory{
	{ID: "201142", FullName: "Kevin Durant"},
	{ID: "201939", FullName: "Stephen Curry"},
}

func newTestServer(asker QueryAsker, checks map[string]HealthCheck) http.Handler {
	handler := NewHandler(asker, service.NewPlayerService(directory), checks)
	return NewServer(0, handler, logging.Nop()).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestQueryAnswered(t *testing.T) {
	count := 3
	asker := &QueryAskerMock{}
	asker.On("Ask", mock.Anything, "How many games has kd scored 40+ points").Return(service.QueryResponse{
		Question: "How many games has kd scored 40+ points",
		Answer:   "Kevin Durant has 3 games meeting 40+ points this season",
		Kind:     query.KindAnswered,
		Count:    &count,
		Player:   &directory[0],
		Season:   "2024-25",
	})

	rec := do(t, newTestServer(asker, nil), http.MethodPost, "/api/v1/query",
		`{"question":"  How many games has kd scored 40+ points "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	body := decode(t, rec)
	assert.Equal(t, "answered", body["kind"])
	assert.Equal(t, "Kevin Durant has 3 games meeting 40+ points this season", body["answer"])
	assert.Equal(t, float64(3), body["count"])
	assert.Equal(t, "Kevin Durant", body["player"].(map[string]interface{})["full_name"])
	asker.AssertExpectations(t)
}

func TestQueryUsageIsNotAnHTTPError(t *testing.T) {
	asker := &QueryAskerMock{}
	asker.On("Ask", mock.Anything, "blah blah").Return(service.QueryResponse{
		Question: "blah blah",
		Answer:   query.UsageHint,
		Kind:     query.KindUsage,
	})

	rec := do(t, newTestServer(asker, nil), http.MethodPost, "/api/v1/query", `{"question":"blah blah"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, query.UsageHint, body["answer"])
	assert.NotContains(t, body, "count")
	assert.NotContains(t, body, "player")
}

func TestQueryProviderErrorIsBadGateway(t *testing.T) {
	asker := &QueryAskerMock{}
	asker.On("Ask", mock.Anything, mock.Anything).Return(service.QueryResponse{
		Answer: "Error: fetching game log for Kevin Durant: timeout",
		Kind:   query.KindError,
	})

	rec := do(t, newTestServer(asker, nil), http.MethodPost, "/api/v1/query", `{"question":"How many games has kd scored 1 points"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestQueryRejectsBadRequests(t *testing.T) {
	asker := &QueryAskerMock{}
	h := newTestServer(asker, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/query", `{"question":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/query", `{"question":"   "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "question is required", decode(t, rec)["details"])

	rec = do(t, h, http.MethodPost, "/api/v1/query", `{"question":"`+strings.Repeat("a", 501)+`"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "question must be at most 500 characters", decode(t, rec)["details"])

	rec = do(t, h, http.MethodGet, "/api/v1/query", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	asker.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything)
}

func TestResolvePlayer(t *testing.T) {
	h := newTestServer(&QueryAskerMock{}, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/players/resolve?name=steph", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"id": "201939", "full_name": "Stephen Curry"}, decode(t, rec))

	rec = do(t, h, http.MethodGet, "/api/v1/players/resolve?name=Zzyzx", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Player 'Zzyzx' not found", decode(t, rec)["error"])

	rec = do(t, h, http.MethodGet, "/api/v1/players/resolve", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	h := newTestServer(&QueryAskerMock{}, map[string]HealthCheck{
		"redis": func(context.Context) error { return nil },
	})

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(2), body["players"])
	assert.Equal(t, map[string]interface{}{"redis": "ok"}, body["checks"])
}

func TestHealthCheckDegraded(t *testing.T) {
	h := newTestServer(&QueryAskerMock{}, map[string]HealthCheck{
		"atlas": func(context.Context) error { return errors.New("connection refused") },
	})

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, map[string]interface{}{"atlas": "connection refused"}, body["checks"])
}

func TestRecoveryMiddleware(t *testing.T) {
	asker := &QueryAskerMock{}
	asker.On("Ask", mock.Anything, mock.Anything).Run(func(mock.Arguments) { panic("boom") })

	rec := do(t, newTestServer(asker, nil), http.MethodPost, "/api/v1/query", `{"question":"q"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "boom", decode(t, rec)["details"])
}

func TestQueryPreflight(t *testing.T) {
	asker := &QueryAskerMock{}
	rec := do(t, newTestServer(asker, nil), http.MethodOptions, "/api/v1/query", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	asker.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything)
}
