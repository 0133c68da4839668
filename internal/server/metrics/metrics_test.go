package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ContainsCollectors(t *testing.T) {
	RecordAuth("login", "ok")
	RecordMood("ok")

	families, err := Registry.Gather()
	require.NoError(t, err)

	registered := make(map[string]bool)
	for _, f := range families {
		registered[f.GetName()] = true
	}
	for _, name := range []string{
		"mindease_auth_attempts_total",
		"mindease_mood_tracked_total",
		"mindease_http_inflight_requests",
	} {
		assert.True(t, registered[name], "metric %q should be registered", name)
	}
}

func TestInstrumentHandler_LabelsByRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(InstrumentHandler)
	r.HandleFunc("/api/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}).Methods(http.MethodGet)

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/items/{id}", "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items/42", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/items/{id}", "418"))
	assert.Equal(t, before+1, after)
	assert.Equal(t, 0.0, testutil.ToFloat64(httpInFlight))
}

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(companionCalls.WithLabelValues("error"))
	RecordCompanionCall(20*time.Millisecond, false)
	assert.Equal(t, before+1, testutil.ToFloat64(companionCalls.WithLabelValues("error")))

	beforeGate := testutil.ToFloat64(gateRejections.WithLabelValues("missing_token"))
	RecordGateRejection("missing_token")
	assert.Equal(t, beforeGate+1, testutil.ToFloat64(gateRejections.WithLabelValues("missing_token")))
}

func TestHandler_ServesExposition(t *testing.T) {
	RecordMood("great")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `mindease_mood_tracked_total{mood="great"}`))
}
