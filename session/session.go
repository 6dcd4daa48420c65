// Package session defines the cluster session a command executes against and
// provides a gocql-backed implementation.
package session

import (
	"context"

	"github.com/maxpert/cqlcmd/row"
)

// Session executes fully textual statements against the cluster.
type Session interface {
	// Execute runs the statement and returns its result cursor. Cluster-side
	// rejections and I/O failures are returned as errors.
	Execute(ctx context.Context, statement string) (ResultSet, error)

	// WaitForSchemaAgreement blocks until the schema change produced by the
	// execution that returned rs is visible on every node.
	WaitForSchemaAgreement(ctx context.Context, rs ResultSet) error
}

// ResultSet is a forward-only cursor over the rows of one execution.
type ResultSet interface {
	// Columns returns the result's column names in order. A statement that
	// returns no rows reports zero columns.
	Columns() []string

	// Next advances the cursor. It returns false once rows are exhausted or
	// the cursor failed; Close reports the failure.
	Next() (Row, bool)

	// Close releases the cursor and returns any error hit while reading.
	Close() error
}

// Row is one fixed-length row of a ResultSet.
type Row interface {
	Len() int
	ValueAt(i int) row.Value
	NameAt(i int) string
}
