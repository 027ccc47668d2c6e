package materialize

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StepResult records a completed step
type StepResult struct {
	Index    int           `json:"index"`
	Kind     StepKind      `json:"kind"`
	Target   string        `json:"target"`
	Duration time.Duration `json:"duration"`
	// Changed is false when a merge found every directive already in place.
	Changed bool `json:"changed"`
}

// Report describes one execution of a plan
type Report struct {
	RunID     string       `json:"run_id"`
	Plan      string       `json:"plan"`
	Root      string       `json:"root"`
	Started   time.Time    `json:"started"`
	Finished  time.Time    `json:"finished"`
	Total     int          `json:"total"`
	Completed []StepResult `json:"completed"`
	Failure   *StepError   `json:"failure,omitempty"`
}

func newReport(plan *Plan, root string, now time.Time) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Plan:      plan.Name(),
		Root:      root,
		Started:   now,
		Total:     plan.Len(),
		Completed: []StepResult{},
	}
}

// Succeeded reports whether every step completed
func (r *Report) Succeeded() bool {
	return r.Failure == nil && len(r.Completed) == r.Total
}

// Written returns the distinct paths touched by completed file steps, in
// order of first write.
func (r *Report) Written() []string {
	seen := map[string]bool{}
	var paths []string
	for _, c := range r.Completed {
		if c.Kind == KindCommand || !c.Changed || seen[c.Target] {
			continue
		}
		seen[c.Target] = true
		paths = append(paths, c.Target)
	}
	return paths
}

// MarshalJSON implements json.Marshaler
func (e *StepError) MarshalJSON() ([]byte, error) {
	out := struct {
		Index    int      `json:"index"`
		Kind     StepKind `json:"kind"`
		Step     string   `json:"step"`
		Error    string   `json:"error"`
		ExitCode int      `json:"exit_code"`
	}{
		Index:    e.Index,
		Error:    e.Err.Error(),
		ExitCode: ExitCode(e),
	}
	if e.Step != nil {
		out.Kind = e.Step.Kind()
		out.Step = e.Step.String()
	}
	return json.Marshal(out)
}
