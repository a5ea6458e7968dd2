// Package turn defines the per-step outcome vocabulary of the conversation
// pipeline. Every persistence step in a turn declares up front whether its
// failure aborts the turn or is logged and swallowed, instead of leaving
// that choice implicit at each call site.
package turn

// Severity states how the pipeline reacts when a step fails.
type Severity string

const (
	// SeverityBestEffort steps never block the turn. Their failures are
	// logged and the pipeline continues.
	SeverityBestEffort Severity = "best_effort"

	// SeverityCritical steps abort the turn on failure.
	SeverityCritical Severity = "critical"
)

// StepResult records the outcome of one pipeline side effect.
type StepResult struct {
	Step     string
	Severity Severity
	Err      error
}

// BestEffort wraps a step outcome whose failure must not block the turn.
func BestEffort(step string, err error) StepResult {
	return StepResult{Step: step, Severity: SeverityBestEffort, Err: err}
}

// Critical wraps a step outcome whose failure aborts the turn.
func Critical(step string, err error) StepResult {
	return StepResult{Step: step, Severity: SeverityCritical, Err: err}
}

// Failed reports whether the step produced an error at all.
func (r StepResult) Failed() bool {
	return r.Err != nil
}

// Fatal reports whether the step's failure must abort the turn.
func (r StepResult) Fatal() bool {
	return r.Severity == SeverityCritical && r.Err != nil
}
