package turn

import (
	"errors"
	"testing"
)

func TestStepResult(t *testing.T) {
	failure := errors.New("insert failed")

	tests := []struct {
		name       string
		result     StepResult
		wantFailed bool
		wantFatal  bool
	}{
		{"best effort success", BestEffort("persist user message", nil), false, false},
		{"best effort failure never fatal", BestEffort("persist user message", failure), true, false},
		{"critical success", Critical("persist ai message", nil), false, false},
		{"critical failure is fatal", Critical("persist ai message", failure), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Failed(); got != tt.wantFailed {
				t.Errorf("Failed() = %v, want %v", got, tt.wantFailed)
			}
			if got := tt.result.Fatal(); got != tt.wantFatal {
				t.Errorf("Fatal() = %v, want %v", got, tt.wantFatal)
			}
		})
	}
}

func TestStepResultKeepsStepName(t *testing.T) {
	r := BestEffort("update summary", errors.New("timeout"))
	if r.Step != "update summary" {
		t.Errorf("Step = %q, want %q", r.Step, "update summary")
	}
	if r.Severity != SeverityBestEffort {
		t.Errorf("Severity = %q, want %q", r.Severity, SeverityBestEffort)
	}
}
