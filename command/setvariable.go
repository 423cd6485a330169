package command

import "fmt"

// SetVariable sets a channel variable. Rendered form:
// `SET VARIABLE "<name>" "<value>"\n`.
type SetVariable struct {
	Name  string
	Value string
}

// Render does not escape embedded quotes in Name or Value; that is the
// caller's responsibility.
func (s SetVariable) Render() string {
	return fmt.Sprintf("SET VARIABLE \"%s\" \"%s\"\n", s.Name, s.Value)
}

func (SetVariable) ParseOk(result string, _ *string) (struct{}, error) {
	if result != "1" {
		return struct{}{}, fmt.Errorf("SET VARIABLE: unexpected result %q", result)
	}
	return struct{}{}, nil
}
