package fastagi

// AGIRequest is what the router and session orchestrator hand to a Handler:
// the variable dump plus whatever the route pattern captured.
type AGIRequest struct {
	Variables AGIVariableDump
	Captures  map[string]string
	Wildcards *string
}
