package session

import (
	"github.com/maxpert/cqlcmd/row"
)

// StaticRow is a materialized Row.
type StaticRow struct {
	names  []string
	values []row.Value
}

// NewStaticRow builds a row from parallel name and value slices.
func NewStaticRow(names []string, values []row.Value) *StaticRow {
	return &StaticRow{names: names, values: values}
}

func (r *StaticRow) Len() int {
	return len(r.values)
}

func (r *StaticRow) ValueAt(i int) row.Value {
	return r.values[i]
}

func (r *StaticRow) NameAt(i int) string {
	return r.names[i]
}

// StaticResult is an in-memory ResultSet. It backs statements that return no
// rows and is handy wherever a cursor has to be faked.
type StaticResult struct {
	columns []string
	rows    [][]row.Value
	pos     int
	err     error
	closed  bool
	drawn   int
}

// NewStaticResult builds a result whose rows all carry the given columns.
// Each row may be shorter or longer than columns; names past the column list
// are reported empty.
func NewStaticResult(columns []string, rows ...[]row.Value) *StaticResult {
	return &StaticResult{columns: columns, rows: rows}
}

// EmptyResult returns a columnless, rowless result.
func EmptyResult() *StaticResult {
	return &StaticResult{}
}

// WithError makes Close report err, as a cursor that failed mid-read would.
func (s *StaticResult) WithError(err error) *StaticResult {
	s.err = err
	return s
}

func (s *StaticResult) Columns() []string {
	return s.columns
}

func (s *StaticResult) Next() (Row, bool) {
	if s.closed || s.pos >= len(s.rows) {
		return nil, false
	}
	values := s.rows[s.pos]
	s.pos++
	s.drawn++

	names := make([]string, len(values))
	for i := range values {
		if i < len(s.columns) {
			names[i] = s.columns[i]
		}
	}
	return NewStaticRow(names, values), true
}

func (s *StaticResult) Close() error {
	s.closed = true
	return s.err
}

// Drawn returns how many rows were read through Next.
func (s *StaticResult) Drawn() int {
	return s.drawn
}

// Closed reports whether Close was called.
func (s *StaticResult) Closed() bool {
	return s.closed
}
