package protocol

import (
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/maxpert/cqlcmd/common"
	"github.com/maxpert/cqlcmd/telemetry"
)

// Leading tokens that change schema. The trailing space is part of the match:
// "CREATE\tTABLE" or "DROPPED" do not qualify.
var schemaChangePrefixes = []string{"CREATE ", "DROP ", "ALTER "}

// TruncateForLog returns the first n chars of a statement for logging
func TruncateForLog(statement string, n int) string {
	if len(statement) <= n {
		return statement
	}
	return statement[:n] + "..."
}

// Classify picks the execution path for a single, non-batch statement by
// looking at its leading keyword only. The text is not parsed.
func Classify(statement string) common.StatementCode {
	s := strings.ToUpper(strings.TrimLeftFunc(statement, unicode.IsSpace))
	for _, prefix := range schemaChangePrefixes {
		if strings.HasPrefix(s, prefix) {
			return common.StatementDDL
		}
	}
	return common.StatementDML
}

type cachedClassification struct {
	statement string
	code      common.StatementCode
}

// Classifier memoizes Classify for statements that are executed repeatedly.
// It is safe for concurrent use.
type Classifier struct {
	cache *lru.Cache[uint64, cachedClassification]
}

// NewClassifier returns a classifier with an LRU cache of cacheSize entries.
// A cacheSize of 0 disables caching.
func NewClassifier(cacheSize int) (*Classifier, error) {
	if cacheSize == 0 {
		return &Classifier{}, nil
	}

	cache, err := lru.New[uint64, cachedClassification](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Classifier{cache: cache}, nil
}

// Classify returns the statement's execution path.
func (c *Classifier) Classify(statement string) common.StatementCode {
	if c == nil || c.cache == nil {
		return record(Classify(statement))
	}

	key := xxhash.Sum64String(statement)
	if cached, ok := c.cache.Get(key); ok && cached.statement == statement {
		telemetry.ClassifierCacheHitsTotal.Inc()
		return record(cached.code)
	}

	code := Classify(statement)
	c.cache.Add(key, cachedClassification{statement: statement, code: code})
	return record(code)
}

// Len returns the number of cached statements.
func (c *Classifier) Len() int {
	if c == nil || c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

func record(code common.StatementCode) common.StatementCode {
	telemetry.StatementsClassifiedTotal.With(code.String()).Inc()
	return code
}
