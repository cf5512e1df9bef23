package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCatalogCall(t *testing.T) {
	before := testutil.ToFloat64(CatalogCalls.WithLabelValues("search", OutcomeFailure))
	RecordCatalogCall("search", OutcomeFailure, 10*time.Millisecond)
	after := testutil.ToFloat64(CatalogCalls.WithLabelValues("search", OutcomeFailure))
	assert.Equal(t, before+1, after)
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	assert.Equal(t, before+1, testutil.ToFloat64(APIActiveRequests))
	TrackActiveRequest(false)
	assert.Equal(t, before, testutil.ToFloat64(APIActiveRequests))
}
