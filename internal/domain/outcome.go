package domain

// Outcome is the closed set of event results shared by the prediction
// rules and the ground-truth oracle. Both sides of the boundary speak
// this enum so consistency checks never compare free text.
type Outcome string

const (
	OutcomeShatter      Outcome = "shatter"
	OutcomeBounce       Outcome = "bounce"
	OutcomeNotShattered Outcome = "not_shattered"
	// OutcomeNotApplicable marks a verdict whose test could not be
	// evaluated; it is a neutral result, not an error.
	OutcomeNotApplicable Outcome = "n/a"
)

// Verdict is the result of testing one schema's consistency against
// the oracle. A schema that cannot be tested is vacuously consistent
// with both outcomes set to OutcomeNotApplicable.
type Verdict struct {
	Consistent bool    `json:"consistent"`
	Prediction Outcome `json:"prediction"`
	Reality    Outcome `json:"reality"`
}

// Applicable reports whether the verdict came from an actual test.
func (v Verdict) Applicable() bool {
	return v.Prediction != OutcomeNotApplicable
}

// Trial is the record of a single reasoning cycle: what was predicted,
// what really happened, and what (if anything) was learned from the
// mismatch.
type Trial struct {
	Object     string  `json:"object,omitempty"`
	Tool       string  `json:"tool,omitempty"`
	Target     string  `json:"target,omitempty"`
	Prediction Outcome `json:"prediction"`
	Reality    Outcome `json:"reality"`
	Consistent bool    `json:"consistent"`
	Learning   string  `json:"learning,omitempty"`
}

// ObjectEvent is a parsed single-object event from the perception
// boundary. Object is already normalized to a schema-compatible key.
type ObjectEvent struct {
	Actor  string `json:"actor,omitempty"`
	Action string `json:"action,omitempty"`
	Object string `json:"object"`
	Target string `json:"target,omitempty"`
}

// ToolUseEvent is a parsed tool-use event. Tool and Target are
// normalized raw references; resolution against known schema names
// happens in the reasoning cycle, not here.
type ToolUseEvent struct {
	Actor  string `json:"actor,omitempty"`
	Action string `json:"action,omitempty"`
	Tool   string `json:"tool"`
	Target string `json:"target"`
}
