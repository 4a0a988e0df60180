package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.ObserveCycle("ok", 3*time.Second)
	r.ObserveCycle("ok", time.Second)
	r.ObserveCycle("quote_unavailable", time.Second)

	at := time.Unix(1_700_000_000, 0)
	r.ObserveSwap(at, 2, 120_000)

	require.Equal(t, 2.0, testutil.ToFloat64(r.cycles.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.cycles.WithLabelValues("quote_unavailable")))
	require.Equal(t, 1_700_000_000.0, testutil.ToFloat64(r.lastSuccess))
	require.Equal(t, 120_000.0, testutil.ToFloat64(r.gasUsed))

	n, err := testutil.GatherAndCount(r.Registry(), "autoswap_cycle_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestNilRecorder(t *testing.T) {
	t.Parallel()

	var r *Recorder
	require.NotPanics(t, func() {
		r.ObserveCycle("ok", time.Second)
		r.ObserveSwap(time.Now(), 1, 1)
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.ObserveCycle("approval_failed", time.Second)

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `autoswap_cycles_total{result="approval_failed"} 1`)
}
