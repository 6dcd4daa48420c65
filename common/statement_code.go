// Package common provides shared types used across the codebase.
// StatementCode is defined here so the classifier, the command executor and
// telemetry agree on one set of values.
package common

// StatementCode picks the execution path for a statement.
type StatementCode int

const (
	StatementUnknown StatementCode = iota // 0 - means not yet classified
	StatementDML                          // executed and discarded
	StatementDDL                          // executed, then waits for schema agreement
)

// IsSchemaChange returns true if executing the statement must be followed by a
// wait for cluster-wide schema agreement.
func (t StatementCode) IsSchemaChange() bool {
	return t == StatementDDL
}
