package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue reads one counter series from the default registry.
func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue series
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestObserver_PolicyDenied(t *testing.T) {
	labels := map[string]string{"resource": "driver", "operation": "delete", "reason": "self"}
	before := counterValue(t, "admin_console_policy_denials_total", labels)

	Observer{}.PolicyDenied("driver", "delete", "self")

	assert.Equal(t, before+1, counterValue(t, "admin_console_policy_denials_total", labels))
}

func TestObserver_SearchFinished(t *testing.T) {
	city := map[string]string{"resource": "company", "strategy": "city"}
	errs := map[string]string{"resource": "company"}
	attemptsBefore := counterValue(t, "admin_console_search_attempts_total", city)
	errsBefore := counterValue(t, "admin_console_search_errors_total", errs)

	Observer{}.SearchFinished("company", []string{"companyName", "city"}, nil)
	Observer{}.SearchFinished("company", []string{"companyName", "city"}, errors.New("boom"))

	assert.Equal(t, attemptsBefore+2, counterValue(t, "admin_console_search_attempts_total", city))
	assert.Equal(t, errsBefore+1, counterValue(t, "admin_console_search_errors_total", errs))
}
