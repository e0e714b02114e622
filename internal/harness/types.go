package harness

// CodeOK is the outcome code of a step that succeeded.
const CodeOK = "OK"

// TraceEvent records one executed step.
type TraceEvent struct {
	Step   int            `json:"step"`
	Op     string         `json:"op"`
	Args   map[string]any `json:"args"`
	Code   string         `json:"code"`
	SaleID int64          `json:"sale_id,omitempty"`
	Total  *int64         `json:"total,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per flow step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Report is the rendered sale report after the flow.
	Report string `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
