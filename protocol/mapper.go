package protocol

import (
	"github.com/maxpert/cqlcmd/row"
	"github.com/maxpert/cqlcmd/session"
	"github.com/maxpert/cqlcmd/telemetry"
)

// MapRows drains rs into generic records, one per row, columns in index
// order. The cursor is always closed and its error returned unchanged.
//
// A result reporting zero columns maps to nil without reading any row. A
// result with columns but no rows maps to an empty, non-nil slice. Duplicate
// column names collapse into one entry holding the later value.
func MapRows(rs session.ResultSet) ([]row.Record, error) {
	if len(rs.Columns()) == 0 {
		return nil, rs.Close()
	}

	records := []row.Record{}
	for {
		r, ok := rs.Next()
		if !ok {
			break
		}
		records = append(records, MapRow(r))
	}

	if err := rs.Close(); err != nil {
		return nil, err
	}

	telemetry.RowsMappedTotal.Add(float64(len(records)))
	return records, nil
}

// MapRow converts a single cursor row into a record.
func MapRow(r session.Row) row.Record {
	entries := make([]row.Entry, r.Len())
	for i := range entries {
		entries[i] = row.Entry{Name: r.NameAt(i), Value: r.ValueAt(i)}
	}
	return row.New(entries...)
}
