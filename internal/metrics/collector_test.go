package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vladiate/internal/domain"
	"vladiate/internal/metrics"
	"vladiate/internal/validator"
	"vladiate/internal/vlad"
)

func sampleResult() *vlad.Result {
	return &vlad.Result{
		Name:      "Vampires",
		Outcome:   domain.OutcomeFailed,
		Passed:    false,
		LineCount: 4,
		Duration:  1500 * time.Millisecond,
		Rows: []vlad.RuleReport{
			{Rule: "RowLengthValidator", RuleKey: validator.RuleRowLength, FailCount: 1},
		},
		Fields: []vlad.RuleReport{
			{Column: "Status", Rule: "SetValidator", RuleKey: validator.RuleSet, FailCount: 2},
			{Column: "Name", Rule: "UniqueValidator", RuleKey: validator.RuleUnique, FailCount: 0},
		},
	}
}

func TestCollector_Observe(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := metrics.NewCollector(registry)

	c.Observe(sampleResult())

	count, err := testutil.GatherAndCount(registry, "vladiate_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "rules without failures are not recorded")

	count, err = testutil.GatherAndCount(registry, "vladiate_rows_validated_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollector_ObserveAccumulates(t *testing.T) {
	c := metrics.NewCollector(nil)

	c.Observe(sampleResult())
	c.Observe(sampleResult())

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "vladiate_rows_validated_total" {
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, 8.0, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
}

func TestCollector_PassedGauge(t *testing.T) {
	c := metrics.NewCollector(nil)

	res := sampleResult()
	res.Name = "Clean"
	res.Passed = true
	res.Outcome = domain.OutcomePassed
	res.Rows = nil
	res.Fields = nil
	c.Report(res)

	families, err := c.Registry().Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() != "vladiate_run_passed" {
			continue
		}
		found = true
		require.Len(t, f.GetMetric(), 1)
		assert.Equal(t, 1.0, f.GetMetric()[0].GetGauge().GetValue())
	}
	assert.True(t, found)
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := metrics.NewCollector(nil)
	c.Observe(sampleResult())

	path := filepath.Join(t.TempDir(), "vladiate.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `vladiate_failures_total{column="Status",validator="set",vlad="Vampires"} 2`)
	assert.Contains(t, text, `vladiate_failures_total{column="",validator="row_length",vlad="Vampires"} 1`)
	assert.Contains(t, text, `vladiate_rows_validated_total{vlad="Vampires"} 4`)
	assert.Contains(t, text, `vladiate_run_passed{vlad="Vampires"} 0`)
	assert.Contains(t, text, `vladiate_run_duration_seconds{vlad="Vampires"} 1.5`)
}
