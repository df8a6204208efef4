package model

import "fmt"

// InvalidInputError reports malformed optimizer input: non-positive lengths
// or quantities, or an empty part list. It is returned before any
// optimization work starts.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// InfeasiblePartError reports a required part length that exceeds the raw
// stock length. No beam could ever hold such a part, so the request is
// rejected before any generation runs.
type InfeasiblePartError struct {
	Length    float64
	RawLength float64
}

func (e *InfeasiblePartError) Error() string {
	return fmt.Sprintf("infeasible part: length %s exceeds raw stock length %s",
		FormatLength(e.Length), FormatLength(e.RawLength))
}
