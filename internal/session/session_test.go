package session

import (
	"testing"

	"ragdeck/internal/gateway"
)

func TestGoToStepClamps(t *testing.T) {
	t.Parallel()

	s := NewState()
	cases := []struct {
		requested Step
		want      Step
	}{
		{Step(-5), StepSetup},
		{StepSetup, StepSetup},
		{StepIngest, StepIngest},
		{StepQuery, StepQuery},
		{StepResult, StepResult},
		{Step(99), StepResult},
	}
	for _, tc := range cases {
		if got := s.GoToStep(tc.requested).Step; got != tc.want {
			t.Errorf("GoToStep(%d) = %v, want %v", tc.requested, got, tc.want)
		}
	}
}

func TestNavigate(t *testing.T) {
	t.Parallel()

	s := NewState().GoToStep(StepQuery)

	if got := s.Navigate(ActionBack).Step; got != StepIngest {
		t.Errorf("back from Query: got %v, want Ingest", got)
	}
	if got := s.Navigate(ActionNext).Step; got != StepResult {
		t.Errorf("next from Query: got %v, want Result", got)
	}
	if got := NewState().Navigate(ActionBack).Step; got != StepSetup {
		t.Errorf("back from Setup: got %v, want Setup", got)
	}
	if got := s.Navigate("sideways"); got != s {
		t.Errorf("unknown action mutated state: %+v", got)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	t.Parallel()

	s := NewState().
		WithGatewayBase("http://example.com:9000/").
		WithSetup(&gateway.SetupResult{Status: "configured"}).
		WithIngest(&gateway.IngestResult{Chunks: 3}).
		WithQuery(&gateway.QueryResult{Answer: "42"}).
		GoToStep(StepResult)

	reset := s.Navigate(ActionRestart)
	if reset.Step != StepSetup {
		t.Errorf("expected step 0 after restart, got %v", reset.Step)
	}
	if reset.GatewayBase != gateway.DefaultBase {
		t.Errorf("expected default gateway base, got %q", reset.GatewayBase)
	}
	if reset.Setup != nil || reset.Ingest != nil || reset.Query != nil {
		t.Error("expected all stored results cleared after restart")
	}
}

func TestWithGatewayBaseNormalizes(t *testing.T) {
	t.Parallel()

	s := NewState().WithGatewayBase(" http://example.com:9000/ ")
	if s.GatewayBase != "http://example.com:9000" {
		t.Errorf("expected trailing slash stripped, got %q", s.GatewayBase)
	}
}

func TestConfiguredGuard(t *testing.T) {
	t.Parallel()

	s := NewState()
	if s.Configured() {
		t.Error("fresh session must not report configured")
	}
	if !s.WithSetup(&gateway.SetupResult{}).Configured() {
		t.Error("session with setup result must report configured")
	}
}

func TestTransitionsArePure(t *testing.T) {
	t.Parallel()

	original := NewState()
	_ = original.GoToStep(StepResult)
	_ = original.WithSetup(&gateway.SetupResult{})
	if original.Step != StepSetup || original.Setup != nil {
		t.Errorf("transition mutated the receiver: %+v", original)
	}
}
