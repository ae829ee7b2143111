package nav

import "fmt"

// Phase is the controller's position in the per-navigation lifecycle.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseBeforeLoad
	PhaseDuringLoad
	PhaseDuringRender
	PhaseAfterRender
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBeforeLoad:
		return "beforeLoad"
	case PhaseDuringLoad:
		return "duringLoad"
	case PhaseDuringRender:
		return "duringRender"
	case PhaseAfterRender:
		return "afterRender"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Outcome classifies how a navigation attempt ended.
type Outcome string

const (
	// OutcomeCommitted means the navigation ran to completion.
	OutcomeCommitted Outcome = "committed"

	// OutcomeAborted means a hook aborted or failed the navigation.
	OutcomeAborted Outcome = "aborted"

	// OutcomeRejected means the attempt was refused because another
	// navigation held the transitional cycle.
	OutcomeRejected Outcome = "rejected"

	// OutcomeStale means a newer navigation superseded this one at a
	// suspension point.
	OutcomeStale Outcome = "stale"

	// OutcomeRedirected means a beforeLoad hook redirected elsewhere.
	OutcomeRedirected Outcome = "redirected"

	// OutcomeNoRoute means no pattern matched and no fallback view is
	// configured.
	OutcomeNoRoute Outcome = "no_route"
)

// Observer receives navigation lifecycle notifications. Implementations
// must not call back into the controller synchronously.
type Observer interface {
	// NavigationStarted fires when a non-bypass navigation is accepted.
	NavigationStarted(ticket uint64, to string)

	// PhaseChanged fires on every phase transition of the navigation
	// owning the ticket.
	PhaseChanged(ticket uint64, phase Phase)

	// NavigationFinished fires exactly once per accepted navigation.
	NavigationFinished(ticket uint64, outcome Outcome)
}
