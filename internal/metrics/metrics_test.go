package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/docxval/internal/validator"
)

func TestMetrics_Observe(t *testing.T) {
	m := New()

	m.ObserveTarget(OutcomeClean, time.Now())
	m.ObserveTarget(OutcomeInvalid, time.Now())
	m.ObserveTarget(OutcomeInvalid, time.Now())
	m.IncrementValidationError(validator.ErrorTypeSchema)
	m.IncrementValidationError(validator.ErrorTypeSchema)
	m.IncrementValidationError(validator.ErrorTypePackage)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Targets.WithLabelValues(OutcomeClean)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Targets.WithLabelValues(OutcomeInvalid)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.ValidationErrors.WithLabelValues("Schema")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ValidationErrors.WithLabelValues("Package")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.TargetDuration))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveTarget(OutcomeFailed, time.Now())

	assert.InDelta(t, 0, testutil.ToFloat64(b.Targets.WithLabelValues(OutcomeFailed)), 0)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.ObserveTarget(OutcomeFailed, time.Now())

	path := filepath.Join(t.TempDir(), "docxval.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `docxval_targets_total{outcome="failed"} 1`)
	assert.Contains(t, string(data), "docxval_target_duration_seconds_count 1")

	err = m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.Error(t, err)
}
