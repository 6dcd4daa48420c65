package common

import "fmt"

// All conversions between StatementCode and its text label go through this
// file. Labels appear in metrics, logs and admin responses.

var (
	codeToLabel = map[StatementCode]string{
		StatementUnknown: "unknown",
		StatementDML:     "dml",
		StatementDDL:     "ddl",
	}

	labelToCode = map[string]StatementCode{
		"unknown": StatementUnknown,
		"dml":     StatementDML,
		"ddl":     StatementDDL,
	}
)

// String returns the label for the code.
func (t StatementCode) String() string {
	if l, ok := codeToLabel[t]; ok {
		return l
	}
	return fmt.Sprintf("statement(%d)", int(t))
}

// FromLabel converts a label back to a StatementCode.
// Returns false if the label is unknown.
func FromLabel(label string) (StatementCode, bool) {
	code, ok := labelToCode[label]
	return code, ok
}

// MustFromLabel converts a label to a StatementCode.
// Panics on unknown labels.
func MustFromLabel(label string) StatementCode {
	if code, ok := labelToCode[label]; ok {
		return code
	}
	panic(fmt.Sprintf("unknown statement label: %q", label))
}
