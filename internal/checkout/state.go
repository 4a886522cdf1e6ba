// Package checkout drives the simulated payment flow for a single product.
package checkout

// State is a step of the checkout flow.
type State int

const (
	Idle State = iota
	FormShown
	Submitted
	Processing
	Completed
	Failed
)

var stateNames = [...]string{
	Idle:       "idle",
	FormShown:  "form_shown",
	Submitted:  "submitted",
	Processing: "processing",
	Completed:  "completed",
	Failed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can happen without a new form.
func (s State) Terminal() bool {
	return s == Completed || s == Failed
}
