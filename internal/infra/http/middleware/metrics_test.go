package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/clients/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/clients/{id}", "418"))
	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/clients/"+id, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/clients/{id}", "418")))
}

func TestRecordClientStats(t *testing.T) {
	RecordClientStats(ClientCounts{Total: 7, Today: 1, Approach: 4, Confirmed: 3, Responded: 5})

	assert.Equal(t, 7.0, testutil.ToFloat64(clientsGauge.WithLabelValues("total")))
	assert.Equal(t, 3.0, testutil.ToFloat64(clientsGauge.WithLabelValues("confirmed")))
	assert.Equal(t, 5.0, testutil.ToFloat64(clientsGauge.WithLabelValues("responded")))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(messagesSent.WithLabelValues("email", "failed"))
	RecordMessageSent("email", "failed")
	assert.Equal(t, before+1, testutil.ToFloat64(messagesSent.WithLabelValues("email", "failed")))

	before = testutil.ToFloat64(storeWriteErrors.WithLabelValues("update"))
	RecordStoreWriteError("update")
	assert.Equal(t, before+1, testutil.ToFloat64(storeWriteErrors.WithLabelValues("update")))
}
