package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/maxpert/cqlcmd/encoding"
	"github.com/maxpert/cqlcmd/protocol"
	"github.com/maxpert/cqlcmd/row"
	"github.com/maxpert/cqlcmd/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSession struct {
	executed []string
	result   *session.StaticResult
}

func (r *recordingSession) Execute(_ context.Context, statement string) (session.ResultSet, error) {
	r.executed = append(r.executed, statement)
	if r.result != nil {
		return r.result, nil
	}
	return session.EmptyResult(), nil
}

func (r *recordingSession) WaitForSchemaAgreement(context.Context, session.ResultSet) error {
	return nil
}

func TestRunNonQuery(t *testing.T) {
	s := &recordingSession{}
	var out bytes.Buffer

	err := run(context.Background(), s, nil, runOptions{
		statement: "CREATE TABLE t (id int primary key)",
		mode:      "nonquery",
		format:    encoding.FormatJSON,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ddl ok (-1)\n", out.String())
}

func TestRunNonQueryWithClassifier(t *testing.T) {
	s := &recordingSession{}
	classifier, err := protocol.NewClassifier(4)
	require.NoError(t, err)
	var out bytes.Buffer

	err = run(context.Background(), s, classifier, runOptions{
		statement: "DELETE FROM t WHERE id = 1",
		mode:      "nonquery",
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "dml ok (-1)\n", out.String())
	assert.Equal(t, 1, classifier.Len())
}

func TestRunScalar(t *testing.T) {
	s := &recordingSession{result: session.NewStaticResult([]string{"n"}, []row.Value{row.ValueOf(7)})}
	var out bytes.Buffer

	err := run(context.Background(), s, nil, runOptions{statement: "SELECT n FROM t", mode: "scalar"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out.String())
}

func TestRunRowsJSON(t *testing.T) {
	s := &recordingSession{result: session.NewStaticResult([]string{"id", "name"},
		[]row.Value{row.ValueOf(1), row.Text("a")},
	)}
	var out bytes.Buffer

	err := run(context.Background(), s, nil, runOptions{
		statement: "SELECT * FROM t",
		mode:      "rows",
		format:    encoding.FormatJSON,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "[{\"id\":1,\"name\":\"a\"}]\n", out.String())
}

func TestRunUnknownMode(t *testing.T) {
	err := run(context.Background(), &recordingSession{}, nil, runOptions{statement: "SELECT 1", mode: "stream"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunInsertFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"name":"a"},{"id":2,"name":null}]`), 0o644))

	s := &recordingSession{}
	var out bytes.Buffer
	err := run(context.Background(), s, nil, runOptions{
		insertFile: path,
		table:      "t",
		format:     encoding.FormatJSON,
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"BEGIN BATCH INSERT INTO t ( id, name ) VALUES ( 1, 'a' ) INSERT INTO t ( id ) VALUES ( 2 )  APPLY BATCH;",
	}, s.executed)
	assert.Equal(t, "inserted 2 rows into t\n", out.String())
}

func TestRunInsertRequiresTable(t *testing.T) {
	err := run(context.Background(), &recordingSession{}, nil, runOptions{insertFile: "rows.json"}, &bytes.Buffer{})
	assert.Error(t, err)
}
