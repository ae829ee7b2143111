package middleware

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/viaduct-ui/viaduct/pkg/nav"
)

func TestTracingLifecycle(t *testing.T) {
	tr := NewTracing(
		WithTracerName("test"),
		WithAttributes(attribute.String("app", "demo")),
	)

	tr.NavigationStarted(1, "/users/1")
	tr.PhaseChanged(1, nav.PhaseBeforeLoad)
	tr.PhaseChanged(1, nav.PhaseDuringLoad)
	tr.NavigationFinished(1, nav.OutcomeCommitted)

	if len(tr.spans) != 0 {
		t.Fatalf("spans leaked: %d", len(tr.spans))
	}
}

func TestTracingErrorOutcome(t *testing.T) {
	tr := NewTracing()

	tr.NavigationStarted(7, "/denied")
	tr.NavigationFinished(7, nav.OutcomeAborted)
	if len(tr.spans) != 0 {
		t.Fatalf("spans leaked: %d", len(tr.spans))
	}

	// A finish without a start (rejected navigation) must be a no-op.
	tr.NavigationFinished(8, nav.OutcomeRejected)
}
