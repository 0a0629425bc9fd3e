package models

import "encoding/json"

// OutcomeKind tags the result of validating a submitted word
type OutcomeKind int

const (
	OutcomeAccepted OutcomeKind = iota
	OutcomeRejectedFormat
	OutcomeRejectedChain
	OutcomeRejectedDuplicate
	OutcomeRejectedUnknownWord
)

// String returns the wire name of the outcome kind
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejectedFormat:
		return "rejected_format"
	case OutcomeRejectedChain:
		return "rejected_chain"
	case OutcomeRejectedDuplicate:
		return "rejected_duplicate"
	case OutcomeRejectedUnknownWord:
		return "rejected_unknown_word"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the kind by its wire name
func (k OutcomeKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Outcome is the validator's verdict on a submission. Reason carries a
// human-readable explanation for the presentation layer. The bonus flags
// are pure functions of the candidate word's length.
type Outcome struct {
	Kind         OutcomeKind `json:"kind"`
	Reason       string      `json:"reason"`
	LongWord     bool        `json:"long_word,omitempty"`
	AdvancedWord bool        `json:"advanced_word,omitempty"`
}

// Accepted reports whether the submission passed all checks
func (o Outcome) Accepted() bool {
	return o.Kind == OutcomeAccepted
}
