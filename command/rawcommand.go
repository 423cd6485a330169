package command

import "fmt"

// RawCommand is the escape hatch: an arbitrary literal line, sent verbatim
// and followed by exactly one newline. It performs no quoting and its
// response carries the (result, opdata) pair through unvalidated — callers
// using RawCommand take on the specialization work themselves.
type RawCommand struct {
	Literal string
}

func (r RawCommand) Render() string {
	return fmt.Sprintf("%s\n", r.Literal)
}

// RawResponse carries a RawCommand's (result, opdata) pair verbatim.
type RawResponse struct {
	Result string
	OpData *string
}

func (RawCommand) ParseOk(result string, opData *string) (RawResponse, error) {
	return RawResponse{Result: result, OpData: opData}, nil
}
