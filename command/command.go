// Package command executes statement text against a session and adapts the
// results into scalars, cursors and generic row records.
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/maxpert/cqlcmd/common"
	"github.com/maxpert/cqlcmd/protocol"
	"github.com/maxpert/cqlcmd/row"
	"github.com/maxpert/cqlcmd/session"
	"github.com/maxpert/cqlcmd/telemetry"
	"github.com/rs/zerolog/log"
)

// NoRowCount is returned by ExecuteNonQuery and the insert operations. The
// cluster does not report affected rows, so it is never a real count.
const NoRowCount = -1

// logStatementLen is how much statement text goes into debug logs
const logStatementLen = 80

// Type describes how the command text is interpreted. Only Text exists.
type Type int

const (
	Text Type = iota
)

func (t Type) String() string {
	if t == Text {
		return "text"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Command is a single statement bound to a session. It is not safe for
// concurrent use.
type Command struct {
	session    session.Session
	text       string
	classifier *protocol.Classifier
	code       common.StatementCode
}

// New returns a command that runs text on s. New does not validate s: a nil
// session fails every execution with InvalidConnectionTypeError. Use
// SetConnection to have a bad session rejected up front.
func New(s session.Session, text string) *Command {
	return &Command{session: s, text: text}
}

// WithClassifier makes the command use a shared, cached classifier.
func (c *Command) WithClassifier(cl *protocol.Classifier) *Command {
	c.classifier = cl
	return c
}

// StatementCode returns the execution path the last ExecuteNonQuery took,
// or StatementUnknown before the first run.
func (c *Command) StatementCode() common.StatementCode {
	return c.code
}

// Text returns the statement text.
func (c *Command) Text() string {
	return c.text
}

// SetText replaces the statement text.
func (c *Command) SetText(text string) {
	c.text = text
}

// Connection returns the bound session.
func (c *Command) Connection() session.Session {
	return c.session
}

// SetConnection binds the command to conn, which must be a session.Session.
// Anything else is rejected here rather than at execution time.
func (c *Command) SetConnection(conn interface{}) error {
	s, ok := conn.(session.Session)
	if !ok || s == nil {
		return &InvalidConnectionTypeError{Type: fmt.Sprintf("%T", conn)}
	}
	c.session = s
	return nil
}

// CommandType always reports Text.
func (c *Command) CommandType() Type {
	return Text
}

// CommandTimeout reports 0: commands wait on the session indefinitely.
func (c *Command) CommandTimeout() time.Duration {
	return 0
}

// SetCommandTimeout is accepted and ignored. Use a context deadline instead.
func (c *Command) SetCommandTimeout(time.Duration) {}

// Cancel is accepted and has no effect. Cancel the context passed to the
// execute call instead.
func (c *Command) Cancel() {}

// Prepare is not supported.
func (c *Command) Prepare() error {
	return &UnsupportedOperationError{Op: "Prepare"}
}

// CreateParameter is not supported.
func (c *Command) CreateParameter() error {
	return &UnsupportedOperationError{Op: "CreateParameter"}
}

// Parameters is not supported.
func (c *Command) Parameters() error {
	return &UnsupportedOperationError{Op: "Parameters"}
}

// ExecuteNonQuery runs the statement and discards its result. Schema changes
// additionally wait for schema agreement before returning.
func (c *Command) ExecuteNonQuery(ctx context.Context) (int, error) {
	done := track("non_query")

	code := c.classifier.Classify(c.text)
	c.code = code
	rs, err := c.execute(ctx, code)
	if err != nil {
		return NoRowCount, done(err)
	}
	if err := rs.Close(); err != nil {
		return NoRowCount, done(err)
	}

	if code.IsSchemaChange() {
		if err := c.session.WaitForSchemaAgreement(ctx, rs); err != nil {
			return NoRowCount, done(err)
		}
	}

	return NoRowCount, done(nil)
}

// ExecuteScalar returns the first column of the first row. A result without
// columns, without rows, or whose first row is empty yields Null. At most one
// row is read.
func (c *Command) ExecuteScalar(ctx context.Context) (row.Value, error) {
	done := track("scalar")

	rs, err := c.execute(ctx, common.StatementDML)
	if err != nil {
		return row.Null(), done(err)
	}

	value := row.Null()
	if len(rs.Columns()) > 0 {
		if r, ok := rs.Next(); ok && r.Len() > 0 {
			value = r.ValueAt(0)
		}
	}

	if err := rs.Close(); err != nil {
		return row.Null(), done(err)
	}
	return value, done(nil)
}

// ExecuteReader returns the raw result cursor. The caller must Close it.
func (c *Command) ExecuteReader(ctx context.Context) (session.ResultSet, error) {
	done := track("reader")

	rs, err := c.execute(ctx, common.StatementDML)
	return rs, done(err)
}

// ExecuteRows returns every result row as a record. A result without
// columns yields nil.
func (c *Command) ExecuteRows(ctx context.Context) ([]row.Record, error) {
	done := track("rows")

	rs, err := c.execute(ctx, common.StatementDML)
	if err != nil {
		return nil, done(err)
	}

	records, err := protocol.MapRows(rs)
	return records, done(err)
}

// ExecuteRow returns the first result row. ok is false when there is none.
func (c *Command) ExecuteRow(ctx context.Context) (rec row.Record, ok bool, err error) {
	records, err := c.ExecuteRows(ctx)
	if err != nil || len(records) == 0 {
		return row.Record{}, false, err
	}
	return records[0], true, nil
}

// ExecuteMaps is ExecuteRows on the dictionary surface. Null maps to nil.
func (c *Command) ExecuteMaps(ctx context.Context) ([]map[string]interface{}, error) {
	records, err := c.ExecuteRows(ctx)
	if err != nil || records == nil {
		return nil, err
	}

	maps := make([]map[string]interface{}, len(records))
	for i, r := range records {
		maps[i] = r.Map()
	}
	return maps, nil
}

// ExecuteMap is ExecuteRow on the dictionary surface. It returns nil when
// there is no row.
func (c *Command) ExecuteMap(ctx context.Context) (map[string]interface{}, error) {
	rec, ok, err := c.ExecuteRow(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return rec.Map(), nil
}

// InsertRow inserts a single record into table.
func (c *Command) InsertRow(ctx context.Context, rec row.Record, table string) (int, error) {
	return c.InsertRows(ctx, []row.Record{rec}, table)
}

// InsertRows inserts records into table as one batch. The batch text becomes
// the command text. Empty input returns without contacting the session.
func (c *Command) InsertRows(ctx context.Context, records []row.Record, table string) (int, error) {
	if len(records) == 0 {
		return NoRowCount, nil
	}

	done := track("insert")

	stmt, err := protocol.BuildBatchInsert(table, records)
	if err != nil {
		return NoRowCount, done(err)
	}
	telemetry.BatchRows.Observe(float64(len(records)))

	c.text = stmt
	rs, err := c.execute(ctx, common.StatementDML)
	if err != nil {
		return NoRowCount, done(err)
	}
	return NoRowCount, done(rs.Close())
}

func (c *Command) execute(ctx context.Context, code common.StatementCode) (session.ResultSet, error) {
	if c.session == nil {
		return nil, &InvalidConnectionTypeError{Type: "<nil>"}
	}

	log.Debug().
		Str("kind", code.String()).
		Str("stmt", protocol.TruncateForLog(c.text, logStatementLen)).
		Msg("Executing statement")

	telemetry.InFlightCommands.Inc()
	defer telemetry.InFlightCommands.Dec()

	return c.session.Execute(ctx, c.text)
}

// track starts timing an operation. The returned func records the outcome
// and hands err back unchanged.
func track(op string) func(error) error {
	start := time.Now()
	return func(err error) error {
		telemetry.CommandDurationSeconds.With(op).Observe(time.Since(start).Seconds())
		telemetry.CommandsTotal.With(op, telemetry.ResultLabel(err)).Inc()
		if err != nil {
			log.Debug().Err(err).Str("op", op).Msg("Command failed")
		}
		return err
	}
}
