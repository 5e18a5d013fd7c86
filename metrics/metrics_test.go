package metrics_test

import (
	"testing"

	"github.com/mlevan/counsel/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Registers(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	registry := prometheus.NewPedanticRegistry()
	require.NoError(t, registry.Register(m))

	m.Requests.Inc()
	m.TotalTokens.Add(128)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Requests))
	assert.Equal(t, float64(128), testutil.ToFloat64(m.TotalTokens))

	count, err := testutil.GatherAndCount(registry)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}
