package ui

import "fmt"

// DisplayState is the phase the analysis view is in. Exactly one state is
// active at a time.
type DisplayState string

const (
	// StateLoading shows progress while fetching and analyzing.
	StateLoading DisplayState = "loading"
	// StateNoProduct means the URL is unsupported or not a product page.
	StateNoProduct DisplayState = "no-product"
	// StateResults renders a finished analysis.
	StateResults DisplayState = "results"
	// StateError reports a failure with a retry hint.
	StateError DisplayState = "error"
)

// transitions lists the legal state changes. Loading is the only entry
// point; results and the two failure states are terminal per analysis.
var transitions = map[DisplayState][]DisplayState{
	StateLoading:   {StateNoProduct, StateResults, StateError, StateLoading},
	StateNoProduct: {StateLoading},
	StateResults:   {StateLoading},
	StateError:     {StateLoading},
}

// View tracks the display state across one or more analyses.
type View struct {
	state DisplayState
}

// NewView starts in the loading state.
func NewView() *View {
	return &View{state: StateLoading}
}

// State returns the current state.
func (v *View) State() DisplayState { return v.state }

// Transition moves to next, rejecting moves the view cannot render (e.g.
// results appearing after the no-product screen without a new load).
func (v *View) Transition(next DisplayState) error {
	for _, allowed := range transitions[v.state] {
		if next == allowed {
			v.state = next
			return nil
		}
	}
	return fmt.Errorf("invalid display transition %s -> %s", v.state, next)
}
