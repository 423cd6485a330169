package command

import "fmt"

// Verbose logs a message to the Asterisk console. Rendered form:
// `VERBOSE "<msg>"\n`; no verbosity level is sent.
type Verbose struct {
	Message string
}

// Render does not escape embedded quotes in Message; that is
// the caller's responsibility.
func (v Verbose) Render() string {
	return fmt.Sprintf("VERBOSE \"%s\"\n", v.Message)
}

func (Verbose) ParseOk(result string, _ *string) (struct{}, error) {
	if result != "1" {
		return struct{}{}, fmt.Errorf("VERBOSE: unexpected result %q", result)
	}
	return struct{}{}, nil
}
