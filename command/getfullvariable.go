package command

import (
	"fmt"
	"strings"
)

// GetFullVariableResponse is the specialized response to GET FULL VARIABLE,
// shared by both the channel-set and channel-unset renderings.
type GetFullVariableResponse struct {
	// Value is nil when Asterisk could not evaluate the expression
	// (result=0); otherwise it is the opdata with its surrounding
	// parentheses stripped.
	Value *string
}

func parseGetFullVariableOk(result string, opData *string) (GetFullVariableResponse, error) {
	switch result {
	case "1":
		if opData == nil {
			return GetFullVariableResponse{}, fmt.Errorf("GET FULL VARIABLE: result=1 but no operational data")
		}
		trimmed := strings.TrimPrefix(strings.TrimSuffix(*opData, ")"), "(")
		return GetFullVariableResponse{Value: &trimmed}, nil
	case "0":
		return GetFullVariableResponse{Value: nil}, nil
	default:
		return GetFullVariableResponse{}, fmt.Errorf("GET FULL VARIABLE: unexpected result %q", result)
	}
}

// GetFullVariable is the channel-unset rendering of GET FULL VARIABLE.
// The builder-phase pattern represents the optional channel operand as two
// distinct types rather than a single type with a nullable field,
// eliminating "forgot to include the channel" rendering bugs. Go generics
// cannot specialize a method per type argument the way a phantom-typed
// generic parameter could in a language with associated types, so the two
// phases are two concrete named types connected by a one-way WithChannel
// transition.
type GetFullVariable struct {
	Expression string
}

// Render does not escape embedded quotes in Expression; that is the
// caller's responsibility.
func (g GetFullVariable) Render() string {
	return fmt.Sprintf("GET FULL VARIABLE \"%s\"\n", g.Expression)
}

func (GetFullVariable) ParseOk(result string, opData *string) (GetFullVariableResponse, error) {
	return parseGetFullVariableOk(result, opData)
}

// WithChannel transitions to the channel-set rendering. The transition is
// one-way: there is no method to go back to GetFullVariable.
func (g GetFullVariable) WithChannel(channel string) GetFullVariableWithChannel {
	return GetFullVariableWithChannel{Expression: g.Expression, Channel: channel}
}

// GetFullVariableWithChannel is the channel-set rendering of
// GET FULL VARIABLE.
type GetFullVariableWithChannel struct {
	Expression string
	Channel    string
}

// Render does not escape embedded quotes in Expression or Channel;
// that is the caller's responsibility.
func (g GetFullVariableWithChannel) Render() string {
	return fmt.Sprintf("GET FULL VARIABLE \"%s\" \"%s\"\n", g.Expression, g.Channel)
}

func (GetFullVariableWithChannel) ParseOk(result string, opData *string) (GetFullVariableResponse, error) {
	return parseGetFullVariableOk(result, opData)
}
