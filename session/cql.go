package session

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/gocql/gocql"
	"github.com/maxpert/cqlcmd/cfg"
	"github.com/maxpert/cqlcmd/row"
	"github.com/maxpert/cqlcmd/telemetry"
	"github.com/rs/zerolog/log"
)

// keyspaceSetupTimeout bounds the system-keyspace session used to create the
// configured keyspace.
const keyspaceSetupTimeout = 20 * time.Second

// CQLSession is a Session backed by a gocql cluster session.
type CQLSession struct {
	session *gocql.Session
}

// NewClusterConfig maps configuration onto a gocql cluster config. It does
// not touch the network.
func NewClusterConfig(c cfg.ClusterConfiguration) (*gocql.ClusterConfig, error) {
	consistency, err := gocql.ParseConsistencyWrapper(c.Consistency)
	if err != nil {
		return nil, fmt.Errorf("invalid consistency %q: %w", c.Consistency, err)
	}

	cluster := gocql.NewCluster(c.Hosts...)
	cluster.Port = c.Port
	cluster.Keyspace = c.Keyspace
	cluster.Consistency = consistency
	cluster.QueryObserver = observer{}
	if c.TimeoutMS > 0 {
		cluster.Timeout = time.Duration(c.TimeoutMS) * time.Millisecond
	}
	if c.ConnectTimeoutMS > 0 {
		cluster.ConnectTimeout = time.Duration(c.ConnectTimeoutMS) * time.Millisecond
	}
	setClusterConfig(c, cluster)

	return cluster, nil
}

// apply connection-level settings shared by every session we open
func setClusterConfig(c cfg.ClusterConfiguration, cluster *gocql.ClusterConfig) {
	cluster.DisableInitialHostLookup = c.DisableInitialHostLookup

	if c.SSL.Enabled {
		cluster.SslOpts = &gocql.SslOptions{
			CaPath:                 c.SSL.CAPath,
			EnableHostVerification: c.SSL.HostVerification,
		}
	}
	if c.Auth.Enabled {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: c.Auth.Username,
			Password: c.Auth.Password,
		}
	}
}

// createKeyspace creates the configured keyspace if it doesn't exist.
func createKeyspace(c cfg.ClusterConfiguration) error {
	cluster := gocql.NewCluster(c.Hosts...)
	cluster.Port = c.Port
	cluster.Keyspace = "system"
	cluster.Timeout = keyspaceSetupTimeout
	setClusterConfig(c, cluster)

	session, err := cluster.CreateSession()
	if err != nil {
		return err
	}
	defer session.Close()

	return session.Query(createKeyspaceStatement(c.Keyspace, c.ReplicationFactor)).Exec()
}

func createKeyspaceStatement(keyspace string, replicationFactor int) string {
	return fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS %s
		 WITH replication = {
			 'class' : 'SimpleStrategy',
			 'replication_factor' : %d
		 }`,
		keyspace, replicationFactor)
}

// Open connects to the cluster described by c.
func Open(c cfg.ClusterConfiguration) (*CQLSession, error) {
	cluster, err := NewClusterConfig(c)
	if err != nil {
		return nil, err
	}

	if c.CreateKeyspace {
		if err := createKeyspace(c); err != nil {
			return nil, fmt.Errorf("failed to create keyspace %s: %w", c.Keyspace, err)
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %v: %w", c.Hosts, err)
	}

	log.Info().
		Strs("hosts", c.Hosts).
		Str("keyspace", c.Keyspace).
		Str("consistency", c.Consistency).
		Msg("Connected to cluster")

	return &CQLSession{session: session}, nil
}

// Execute runs statement as a simple, unprepared query.
func (s *CQLSession) Execute(ctx context.Context, statement string) (ResultSet, error) {
	iter := s.session.Query(statement).WithContext(ctx).Iter()

	cols := iter.Columns()
	if len(cols) == 0 {
		// Nothing to read; Close surfaces server-side errors.
		if err := iter.Close(); err != nil {
			return nil, err
		}
		return EmptyResult(), nil
	}

	return newIterResult(iter, cols), nil
}

// WaitForSchemaAgreement blocks until all reachable nodes report the same
// schema version.
func (s *CQLSession) WaitForSchemaAgreement(ctx context.Context, _ ResultSet) error {
	start := time.Now()
	err := s.session.AwaitSchemaAgreement(ctx)
	telemetry.SchemaAgreementWaitSeconds.Observe(time.Since(start).Seconds())
	return err
}

// Close releases every connection held by the session.
func (s *CQLSession) Close() {
	s.session.Close()
}

// iterResult adapts a gocql iterator to ResultSet. Every column is scanned
// into a **T so a CQL null comes back as a nil pointer.
type iterResult struct {
	iter  *gocql.Iter
	names []string
	types []reflect.Type
}

func newIterResult(iter *gocql.Iter, cols []gocql.ColumnInfo) *iterResult {
	names := make([]string, len(cols))
	types := make([]reflect.Type, len(cols))
	for i, col := range cols {
		names[i] = col.Name
		types[i] = reflect.TypeOf(col.TypeInfo.New())
	}
	return &iterResult{iter: iter, names: names, types: types}
}

func (r *iterResult) Columns() []string {
	return r.names
}

func (r *iterResult) Next() (Row, bool) {
	dest := make([]interface{}, len(r.types))
	for i, t := range r.types {
		dest[i] = reflect.New(t).Interface()
	}
	if !r.iter.Scan(dest...) {
		return nil, false
	}

	values := make([]row.Value, len(dest))
	for i, d := range dest {
		values[i] = row.ValueOf(d)
	}
	return NewStaticRow(r.names, values), true
}

func (r *iterResult) Close() error {
	return r.iter.Close()
}

// observer feeds driver-level query stats into telemetry.
type observer struct{}

func (observer) ObserveQuery(_ context.Context, q gocql.ObservedQuery) {
	telemetry.QueriesObservedTotal.With(telemetry.ResultLabel(q.Err)).Inc()
	telemetry.QueryLatencySeconds.With(q.Keyspace).Observe(q.End.Sub(q.Start).Seconds())
}
