// internal/session/session.go
// Package session holds the in-memory state for one wizard run. All
// transitions are pure: each method returns a new snapshot and never
// mutates the receiver, so concurrent readers only ever see a complete
// state.
package session

import "ragdeck/internal/gateway"

// Step identifies one stage of the four-stage wizard.
type Step int

const (
	StepSetup Step = iota
	StepIngest
	StepQuery
	StepResult

	// StepCount is the number of wizard steps.
	StepCount
)

// String returns the display name of the step.
func (s Step) String() string {
	switch s {
	case StepSetup:
		return "Setup"
	case StepIngest:
		return "Ingest"
	case StepQuery:
		return "Query"
	case StepResult:
		return "Result"
	default:
		return "Unknown"
	}
}

// Navigation action tokens. Unrecognized tokens are a deliberate no-op.
const (
	ActionBack    = "back"
	ActionNext    = "next"
	ActionRestart = "restart"
)

// State is the session snapshot owned by the wizard controller.
type State struct {
	Step        Step
	GatewayBase string
	Setup       *gateway.SetupResult
	Ingest      *gateway.IngestResult
	Query       *gateway.QueryResult
}

// NewState returns the initial session snapshot: step 0 and the default
// gateway base address.
func NewState() State {
	return State{
		Step:        StepSetup,
		GatewayBase: gateway.DefaultBase,
	}
}

// GoToStep returns a snapshot at the requested step, clamped to the
// valid range.
func (s State) GoToStep(step Step) State {
	if step < StepSetup {
		step = StepSetup
	}
	if step > StepResult {
		step = StepResult
	}
	s.Step = step
	return s
}

// Navigate maps a discrete action token to a step transition. Unknown
// tokens return the snapshot unchanged.
func (s State) Navigate(action string) State {
	switch action {
	case ActionBack:
		return s.GoToStep(s.Step - 1)
	case ActionNext:
		return s.GoToStep(s.Step + 1)
	case ActionRestart:
		return s.Reset()
	default:
		return s
	}
}

// Reset discards all stored results and returns to the initial snapshot.
func (s State) Reset() State {
	return NewState()
}

// WithGatewayBase records the normalized gateway address.
func (s State) WithGatewayBase(base string) State {
	s.GatewayBase = gateway.NormalizeBase(base)
	return s
}

// WithSetup stores a setup result.
func (s State) WithSetup(result *gateway.SetupResult) State {
	s.Setup = result
	return s
}

// WithIngest stores an ingestion result.
func (s State) WithIngest(result *gateway.IngestResult) State {
	s.Ingest = result
	return s
}

// WithQuery stores a query result.
func (s State) WithQuery(result *gateway.QueryResult) State {
	s.Query = result
	return s
}

// Configured reports whether the gateway has been set up in this
// session. Ingest and query submissions require it.
func (s State) Configured() bool {
	return s.Setup != nil
}
