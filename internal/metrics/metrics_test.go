package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/educatalog/internal/metrics"
)

func TestCollector(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.RecordTokenIssued("oauth")
	c.RecordTokenIssued("oauth")
	c.RecordFederation("created")
	c.RecordRejection("ACCOUNT_DISABLED")

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	srv := httptest.NewServer(metrics.Handler(reg))
	defer srv.Close()
	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `educatalog_tokens_issued_total{method="oauth"} 2`)
	assert.Contains(t, string(body), `educatalog_oauth_federations_total{outcome="created"} 1`)
	assert.Contains(t, string(body), `educatalog_auth_rejections_total{code="ACCOUNT_DISABLED"} 1`)
}

func TestNewCollector_RegistersOnce(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	metrics.NewCollector(reg)
	assert.Panics(t, func() { metrics.NewCollector(reg) })
}
