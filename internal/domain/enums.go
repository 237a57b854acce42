package domain

// SourceType identifies where a vlad reads its rows from.
type SourceType string

const (
	SourceTypeLocal  SourceType = "local"
	SourceTypeString SourceType = "string"
	SourceTypeS3     SourceType = "s3"
	SourceTypeXLSX   SourceType = "xlsx"
)

// AllowedSourceTypes lists the source types a vladfile may name.
var AllowedSourceTypes = map[SourceType]bool{
	SourceTypeLocal:  true,
	SourceTypeString: true,
	SourceTypeS3:     true,
	SourceTypeXLSX:   true,
}

// FailureScope tells whether a failure came from a field rule or a row rule.
type FailureScope string

const (
	FailureScopeField FailureScope = "field"
	FailureScopeRow   FailureScope = "row"
)

// Outcome is the terminal state a validation run ended in.
type Outcome string

const (
	OutcomePassed            Outcome = "passed"
	OutcomeFailed            Outcome = "failed"
	OutcomeNoFieldnames      Outcome = "no_fieldnames"
	OutcomeMissingValidators Outcome = "missing_validators"
	OutcomeMissingFields     Outcome = "missing_fields"
	OutcomeThresholdExceeded Outcome = "threshold_exceeded"
)
