package telemetry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/orders/{index}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Middleware(mux)

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("DELETE", "DELETE /api/orders/{index}", "204"))

	for _, path := range []string{"/api/orders/0", "/api/orders/7"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("DELETE", "DELETE /api/orders/{index}", "204"))
	assert.Equal(t, before+2, after)
}

func TestPersistFailure(t *testing.T) {
	before := testutil.ToFloat64(persistFailuresTotal.WithLabelValues("session", "userInfo"))
	PersistFailure("session", "userInfo")
	assert.Equal(t, before+1, testutil.ToFloat64(persistFailuresTotal.WithLabelValues("session", "userInfo")))
}

func TestObserveStoreOp_Result(t *testing.T) {
	okBefore := testutil.ToFloat64(storeOpsTotal.WithLabelValues("memory", "get", "ok"))
	errBefore := testutil.ToFloat64(storeOpsTotal.WithLabelValues("memory", "get", "error"))

	ObserveStoreOp("memory", "get", time.Now(), nil)
	ObserveStoreOp("memory", "get", time.Now(), errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(storeOpsTotal.WithLabelValues("memory", "get", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(storeOpsTotal.WithLabelValues("memory", "get", "error")))
}
