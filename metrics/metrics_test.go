package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAction(t *testing.T) {
	before := testutil.ToFloat64(Actions.WithLabelValues("buy_now", "aborted"))
	RecordAction("buy_now", OutcomeAborted)
	assert.Equal(t, before+1, testutil.ToFloat64(Actions.WithLabelValues("buy_now", "aborted")))
}

func TestNewHandler(t *testing.T) {
	RecordAction("make_offer", OutcomeSubmitted)
	ObserveCall("marketplace", "listings", time.Now())

	rec := httptest.NewRecorder()
	NewHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_actions_total")
	assert.Contains(t, rec.Body.String(), "storefront_contract_call_seconds")
}
