package domain

// FailureReason classifies why a line could not be turned into a record.
type FailureReason string

const (
	// MissingTimestamp means the line carried no ts: token at all.
	MissingTimestamp FailureReason = "missing_timestamp"

	// MalformedTimestamp means a ts: token was present but its value did
	// not parse as a non-negative integer.
	MalformedTimestamp FailureReason = "malformed_timestamp"
)

// ParseFailure records one rejected input line. Failures are collected for
// operator review, never silently dropped.
type ParseFailure struct {
	SourceLine int           `json:"source_line"`
	Reason     FailureReason `json:"reason"`
}
