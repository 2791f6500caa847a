package domain

import (
	"context"
	"errors"
)

// GeneratedCommand is the extracted, sanitized candidate produced from raw
// model output. Values are immutable; a user edit produces a new value.
type GeneratedCommand struct {
	Command     string
	Explanation string
}

// Outcome labels how a query terminated. Every outcome is recorded.
type Outcome string

const (
	OutcomeExecuted      Outcome = "executed"
	OutcomeCancelled     Outcome = "cancelled"
	OutcomeInformational Outcome = "informational"
	OutcomeAbandoned     Outcome = "abandoned"
)

// QueryRequest captures user intent originating from the CLI.
type QueryRequest struct {
	Context       context.Context
	Query         string
	ModelOverride string
	PreviewOnly   bool
	AutoExecute   bool
	Debug         bool
}

// QueryResponse is the canonical response propagated back to the CLI.
type QueryResponse struct {
	Generated    GeneratedCommand
	Query        string
	Outcome      Outcome
	Verification VerificationOutcome
	Severity     SeverityCheck
	Execution    *ExecutionResult
	Message      string // conversational reply on the informational path
	ModelUsed    string
}

// ExecutionResult wraps details from the command executor.
type ExecutionResult struct {
	ExitCode   int
	Stdout     string
	Stderr     string
	DurationMS int64
}

// ErrEmptyCommand indicates the provider answered but nothing executable
// could be extracted; callers surface this as a generation failure.
var ErrEmptyCommand = errors.New("no command could be extracted from model output")

// ErrNotConfigured indicates no provider is configured at all. The pipeline
// never starts; the user is directed to run setup.
var ErrNotConfigured = errors.New("no model configured: run 'nlsh init' first")

// QueryService exposes the use-case boundary for handling a query.
type QueryService interface {
	Run(QueryRequest) (QueryResponse, error)
}
