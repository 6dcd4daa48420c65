package protocol

import (
	"testing"

	"github.com/maxpert/cqlcmd/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		want      common.StatementCode
	}{
		{"create table with leading spaces", "  create table t (id int primary key)", common.StatementDDL},
		{"create keyspace", "CREATE KEYSPACE ks WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}", common.StatementDDL},
		{"drop table", "DROP TABLE t", common.StatementDDL},
		{"alter table mixed case", "AlTeR TABLE t ADD c text", common.StatementDDL},
		{"leading newline and tab", "\n\t drop index idx", common.StatementDDL},
		{"select", "select * from t", common.StatementDML},
		{"insert", "INSERT INTO t (id) VALUES (1)", common.StatementDML},
		{"update", "UPDATE t SET a = 1 WHERE id = 1", common.StatementDML},
		{"truncate is not ddl", "TRUNCATE t", common.StatementDML},
		{"empty", "", common.StatementDML},
		{"whitespace only", "   ", common.StatementDML},
		{"keyword without trailing space", "CREATE", common.StatementDML},
		{"keyword followed by tab", "CREATE\tTABLE t (id int primary key)", common.StatementDML},
		{"longer word sharing prefix", "DROPPED rows", common.StatementDML},
		{"ddl keyword later in text", "SELECT * FROM t WHERE x = 'CREATE '", common.StatementDML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.statement))
		})
	}
}

func TestClassifierCache(t *testing.T) {
	c, err := NewClassifier(2)
	require.NoError(t, err)

	assert.Equal(t, common.StatementDDL, c.Classify("CREATE TABLE a (id int primary key)"))
	assert.Equal(t, common.StatementDDL, c.Classify("CREATE TABLE a (id int primary key)"))
	assert.Equal(t, 1, c.Len())

	assert.Equal(t, common.StatementDML, c.Classify("SELECT * FROM a"))
	assert.Equal(t, common.StatementDML, c.Classify("SELECT * FROM b"))
	assert.Equal(t, 2, c.Len(), "cache is bounded")
}

func TestClassifierWithoutCache(t *testing.T) {
	c, err := NewClassifier(0)
	require.NoError(t, err)

	assert.Equal(t, common.StatementDDL, c.Classify("drop table t"))
	assert.Equal(t, 0, c.Len())

	var nilClassifier *Classifier
	assert.Equal(t, common.StatementDML, nilClassifier.Classify("select 1"))
}

func TestNewClassifierRejectsNegativeSize(t *testing.T) {
	_, err := NewClassifier(-1)
	assert.Error(t, err)
}

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "select", TruncateForLog("select", 10))
	assert.Equal(t, "sel...", TruncateForLog("select", 3))
}
