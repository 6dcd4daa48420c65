package admin

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// TableFilter restricts which tables the insert endpoint may write to.
// Empty patterns match everything.
type TableFilter struct {
	tableGlobs    []glob.Glob
	keyspaceGlobs []glob.Glob
}

// NewTableFilter compiles table and keyspace glob patterns
func NewTableFilter(tablePatterns, keyspacePatterns []string) (*TableFilter, error) {
	filter := &TableFilter{
		tableGlobs:    make([]glob.Glob, 0, len(tablePatterns)),
		keyspaceGlobs: make([]glob.Glob, 0, len(keyspacePatterns)),
	}

	for _, pattern := range tablePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid table pattern %q: %w", pattern, err)
		}
		filter.tableGlobs = append(filter.tableGlobs, g)
	}

	for _, pattern := range keyspacePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid keyspace pattern %q: %w", pattern, err)
		}
		filter.keyspaceGlobs = append(filter.keyspaceGlobs, g)
	}

	return filter, nil
}

// Allow reports whether target ("table" or "keyspace.table") may be written.
// An unqualified table has the session's default keyspace, matched as "".
func (f *TableFilter) Allow(target string) bool {
	if f == nil {
		return true
	}

	keyspace, table := "", target
	if i := strings.IndexByte(target, '.'); i >= 0 {
		keyspace, table = target[:i], target[i+1:]
	}

	return matchAny(f.keyspaceGlobs, keyspace) && matchAny(f.tableGlobs, table)
}

func matchAny(globs []glob.Glob, s string) bool {
	if len(globs) == 0 {
		return true
	}
	for _, g := range globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}
