package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordToggle(t *testing.T) {
	before := testutil.ToFloat64(missionToggles.WithLabelValues("completed"))
	RecordToggle(true)
	RecordToggle(false)
	assert.Equal(t, before+1, testutil.ToFloat64(missionToggles.WithLabelValues("completed")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(missionToggles.WithLabelValues("cancelled")), 1.0)
}

func TestRegistryExposesRuntimeCollectors(t *testing.T) {
	families, err := Registry.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
	assert.True(t, names["missionboard_http_inflight_requests"])
}

func TestRecordReconcileRepairs(t *testing.T) {
	before := testutil.ToFloat64(reconcileRepairs)
	RecordReconcileRepairs(0)
	RecordReconcileRepairs(3)
	assert.Equal(t, before+3, testutil.ToFloat64(reconcileRepairs))
}
