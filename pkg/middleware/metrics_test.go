package middleware

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/viaduct-ui/viaduct/pkg/nav"
	"github.com/viaduct-ui/viaduct/pkg/route"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
	metric:
		for _, m := range fam.GetMetric() {
			for k, v := range labels {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == k && lp.GetValue() == v {
						found = true
						break
					}
				}
				if !found {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestMetricsCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	m.NavigationStarted(1, "/users/1")
	m.PhaseChanged(1, nav.PhaseBeforeLoad)
	m.PhaseChanged(1, nav.PhaseIdle)
	m.NavigationFinished(1, nav.OutcomeCommitted)

	m.NavigationStarted(2, "/denied")
	m.NavigationFinished(2, nav.OutcomeAborted)

	if got := counterValue(t, reg, "viaduct_nav_navigations_total", map[string]string{"outcome": "committed"}); got != 1 {
		t.Errorf("committed = %v, want 1", got)
	}
	if got := counterValue(t, reg, "viaduct_nav_navigations_total", map[string]string{"outcome": "aborted"}); got != 1 {
		t.Errorf("aborted = %v, want 1", got)
	}
	if got := counterValue(t, reg, "viaduct_nav_phase_changes_total", map[string]string{"phase": "beforeLoad"}); got != 1 {
		t.Errorf("beforeLoad changes = %v, want 1", got)
	}
}

func TestMetricsCustomNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("myapp"), WithSubsystem("routing"))

	m.NavigationStarted(1, "/")
	m.NavigationFinished(1, nav.OutcomeCommitted)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, fam := range families {
		if strings.HasPrefix(fam.GetName(), "myapp_routing_") {
			found = true
		}
	}
	if !found {
		t.Fatal("no metrics under the custom namespace")
	}
}

func TestMetricsObservesControllerNavigations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	c := nav.New(nav.Config{
		Views:     route.New().View("/", route.Static("home")),
		Observers: []nav.Observer{m},
	})
	defer c.Close()

	if err := c.Navigate("/"); err != nil {
		t.Fatalf("navigate: %v", err)
	}

	if got := counterValue(t, reg, "viaduct_nav_navigations_total", map[string]string{"outcome": "committed"}); got != 1 {
		t.Fatalf("committed = %v, want 1", got)
	}
}
