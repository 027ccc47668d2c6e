package materialize

import (
	"encoding/json"
	"strings"
)

// StepKind names the primitive a step is carried out with
type StepKind string

// Step kinds
const (
	KindWriteFile StepKind = "write"
	KindAppend    StepKind = "append"
	KindMerge     StepKind = "merge"
	KindCommand   StepKind = "command"
)

// Step is one entry of a Plan
type Step interface {
	Kind() StepKind
	// Target is the root-relative path the step writes to, or the working
	// directory for commands.
	Target() string
	String() string
}

// FileSpec writes Content verbatim to Path, replacing any previous file.
type FileSpec struct {
	Path       string
	Content    string
	Executable bool
}

// Kind implements Step
func (s FileSpec) Kind() StepKind { return KindWriteFile }

// Target implements Step
func (s FileSpec) Target() string { return s.Path }

func (s FileSpec) String() string {
	if s.Executable {
		return "write " + s.Path + " (executable)"
	}
	return "write " + s.Path
}

// AppendSpec appends Block to an existing file at Path.
type AppendSpec struct {
	Path  string
	Block string
}

// Kind implements Step
func (s AppendSpec) Kind() StepKind { return KindAppend }

// Target implements Step
func (s AppendSpec) Target() string { return s.Path }

func (s AppendSpec) String() string {
	return "append " + s.Path
}

// MergeSpec ensures each directive is present in the existing file at Path,
// replacing any prior value for the same key.
type MergeSpec struct {
	Path       string
	Directives []Directive
}

// Kind implements Step
func (s MergeSpec) Kind() StepKind { return KindMerge }

// Target implements Step
func (s MergeSpec) Target() string { return s.Path }

func (s MergeSpec) String() string {
	return "merge " + s.Path
}

// CommandStep runs an external executable synchronously.
type CommandStep struct {
	Executable string
	Args       []string
	// Dir is the working directory relative to the root; empty means the root.
	Dir string
}

// Kind implements Step
func (s CommandStep) Kind() StepKind { return KindCommand }

// Target implements Step
func (s CommandStep) Target() string {
	if s.Dir == "" {
		return "."
	}
	return s.Dir
}

func (s CommandStep) String() string {
	return strings.Join(append([]string{s.Executable}, s.Args...), " ")
}

// Plan is an ordered, immutable sequence of steps.
type Plan struct {
	name  string
	steps []Step
}

// NewPlan returns a plan over a copy of steps
func NewPlan(name string, steps ...Step) *Plan {
	return &Plan{name: name, steps: append([]Step(nil), steps...)}
}

// Name of the plan
func (p *Plan) Name() string {
	return p.name
}

// Len returns the number of steps
func (p *Plan) Len() int {
	return len(p.steps)
}

// Steps returns a copy of the plan's steps
func (p *Plan) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// StepInfo is a printable summary of a step
type StepInfo struct {
	Index       int      `json:"index"`
	Kind        StepKind `json:"kind"`
	Target      string   `json:"target"`
	Description string   `json:"description"`
	Bytes       int      `json:"bytes,omitempty"`
}

// Describe summarizes every step in order
func (p *Plan) Describe() []StepInfo {
	infos := make([]StepInfo, 0, len(p.steps))
	for i, step := range p.steps {
		info := StepInfo{
			Index:       i,
			Kind:        step.Kind(),
			Target:      step.Target(),
			Description: step.String(),
		}
		switch s := step.(type) {
		case FileSpec:
			info.Bytes = len(s.Content)
		case AppendSpec:
			info.Bytes = len(s.Block)
		case MergeSpec:
			info.Bytes = len(RenderDirectives(s.Directives))
		}
		infos = append(infos, info)
	}
	return infos
}

// MarshalJSON implements json.Marshaler
func (p *Plan) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string     `json:"name"`
		Steps []StepInfo `json:"steps"`
	}{p.name, p.Describe()})
}
