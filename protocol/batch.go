package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/maxpert/cqlcmd/row"
)

var (
	// ErrEmptyBatch is returned when a batch insert is built from zero rows.
	ErrEmptyBatch = errors.New("protocol: batch insert needs at least one row")

	// ErrEmptyRecord is returned when a row in a batch has no columns.
	ErrEmptyRecord = errors.New("protocol: row needs at least one column")
)

// FormatLiteral renders a value as CQL literal text. Text is wrapped in single
// quotes without escaping embedded quotes. Null renders as null. Everything
// else uses its default textual form.
func FormatLiteral(v row.Value) string {
	switch v.Kind() {
	case row.KindText:
		return "'" + v.String() + "'"
	case row.KindNull:
		return "null"
	}
	return fmt.Sprint(v.Interface())
}

// BuildBatchInsert turns rows into one BEGIN BATCH ... APPLY BATCH; statement
// inserting into table. It does not execute anything.
//
// For every row the first column is always emitted under its name as given.
// Later columns are emitted only when their value is present, and their names
// are lower-cased.
func BuildBatchInsert(table string, rows []row.Record) (string, error) {
	if len(rows) == 0 {
		return "", ErrEmptyBatch
	}

	var sb strings.Builder
	sb.WriteString("BEGIN BATCH ")
	for i, r := range rows {
		if r.Len() == 0 {
			return "", fmt.Errorf("%w: row %d", ErrEmptyRecord, i)
		}
		writeInsert(&sb, table, r)
	}
	sb.WriteString(" APPLY BATCH;")

	return sb.String(), nil
}

func writeInsert(sb *strings.Builder, table string, r row.Record) {
	first := r.At(0)

	// Columns and values come from the same filtered walk so they line up.
	present := make([]row.Entry, 0, r.Len()-1)
	for i := 1; i < r.Len(); i++ {
		if e := r.At(i); !e.Value.IsNull() {
			present = append(present, e)
		}
	}

	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" ( ")
	sb.WriteString(first.Name)
	for _, e := range present {
		sb.WriteString(", ")
		sb.WriteString(strings.ToLower(e.Name))
	}

	sb.WriteString(" ) VALUES ( ")
	sb.WriteString(FormatLiteral(first.Value))
	for _, e := range present {
		sb.WriteString(", ")
		sb.WriteString(FormatLiteral(e.Value))
	}
	sb.WriteString(" ) ")
}
