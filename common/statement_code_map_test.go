package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelMapConsistency(t *testing.T) {
	// Verify forward and reverse maps are consistent
	for code, label := range codeToLabel {
		gotCode, ok := labelToCode[label]
		assert.True(t, ok, "label %v not in reverse map", label)
		assert.Equal(t, code, gotCode)
	}
	for label, code := range labelToCode {
		gotLabel, ok := codeToLabel[code]
		assert.True(t, ok, "code %v not in forward map", code)
		assert.Equal(t, label, gotLabel)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		code StatementCode
		want string
	}{
		{StatementUnknown, "unknown"},
		{StatementDML, "dml"},
		{StatementDDL, "ddl"},
		{StatementCode(99), "statement(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.String())
		})
	}
}

func TestFromLabel(t *testing.T) {
	code, ok := FromLabel("ddl")
	assert.True(t, ok)
	assert.Equal(t, StatementDDL, code)

	_, ok = FromLabel("DDL")
	assert.False(t, ok)
}

func TestMustFromLabelPanics(t *testing.T) {
	assert.Equal(t, StatementDML, MustFromLabel("dml"))
	assert.Panics(t, func() { MustFromLabel("select") })
}

func TestIsSchemaChange(t *testing.T) {
	assert.True(t, StatementDDL.IsSchemaChange())
	assert.False(t, StatementDML.IsSchemaChange())
	assert.False(t, StatementUnknown.IsSchemaChange())
}
