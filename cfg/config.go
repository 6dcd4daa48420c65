package cfg

import (
	"flag"
	"fmt"
	"hash/fnv"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/denisbrodbeck/machineid"
	"github.com/rs/zerolog/log"
)

// SSLConfiguration controls TLS towards cluster nodes
type SSLConfiguration struct {
	Enabled          bool   `toml:"enabled"`
	CAPath           string `toml:"ca_path"`
	HostVerification bool   `toml:"host_verification"`
}

// AuthConfiguration controls password authentication
type AuthConfiguration struct {
	Enabled  bool   `toml:"enabled"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// ClusterConfiguration describes how the session reaches the cluster
type ClusterConfiguration struct {
	Hosts                    []string          `toml:"hosts"`
	Port                     int               `toml:"port"`
	Keyspace                 string            `toml:"keyspace"`
	Consistency              string            `toml:"consistency"`
	TimeoutMS                int               `toml:"timeout_ms"`         // Per-query timeout enforced by the driver
	ConnectTimeoutMS         int               `toml:"connect_timeout_ms"` // Initial dial timeout
	DisableInitialHostLookup bool              `toml:"disable_initial_host_lookup"`
	CreateKeyspace           bool              `toml:"create_keyspace"` // Create keyspace with SimpleStrategy if missing
	ReplicationFactor        int               `toml:"replication_factor"`
	SSL                      SSLConfiguration  `toml:"ssl"`
	Auth                     AuthConfiguration `toml:"auth"`
}

// CommandConfiguration controls the command adapter
type CommandConfiguration struct {
	// TimeoutSeconds is accepted for compatibility and never enforced;
	// commands wait on the session indefinitely.
	TimeoutSeconds      int  `toml:"timeout_seconds"`
	ClassifierCacheSize int  `toml:"classifier_cache_size"` // 0 disables the cache
	LogStatements       bool `toml:"log_statements"`
}

// LoggingConfiguration controls logging behavior
type LoggingConfiguration struct {
	Verbose bool   `toml:"verbose"`
	Format  string `toml:"format"` // "console" or "json"
}

// PrometheusConfiguration for metrics
type PrometheusConfiguration struct {
	Enabled bool `toml:"enabled"`
}

// AdminConfiguration for the HTTP admin surface
type AdminConfiguration struct {
	Enabled     bool   `toml:"enabled"`
	BindAddress string `toml:"bind_address"`
	Port        int    `toml:"port"`
	Secret      string `toml:"secret"` // Empty disables authentication

	// Glob patterns limiting the insert endpoint; empty allows everything
	InsertTables    []string `toml:"insert_tables"`
	InsertKeyspaces []string `toml:"insert_keyspaces"`
}

// Configuration is the main configuration structure
type Configuration struct {
	ClientID uint64 `toml:"client_id"`

	Cluster    ClusterConfiguration    `toml:"cluster"`
	Command    CommandConfiguration    `toml:"command"`
	Logging    LoggingConfiguration    `toml:"logging"`
	Prometheus PrometheusConfiguration `toml:"prometheus"`
	Admin      AdminConfiguration      `toml:"admin"`
}

// Command line flags
var (
	ConfigPathFlag = flag.String("config", "config.toml", "Path to configuration file")
	HostsFlag      = flag.String("hosts", "", "Comma-separated cluster hosts (overrides config)")
	KeyspaceFlag   = flag.String("keyspace", "", "Keyspace (overrides config)")
	AdminPortFlag  = flag.Int("admin-port", 0, "Admin HTTP port (overrides config)")
)

// Default configuration
var Config = &Configuration{
	ClientID: 0, // Auto-generate

	Cluster: ClusterConfiguration{
		Hosts:             []string{"127.0.0.1"},
		Port:              9042,
		Consistency:       "QUORUM",
		TimeoutMS:         600,
		ConnectTimeoutMS:  5000,
		ReplicationFactor: 1,
		SSL: SSLConfiguration{
			HostVerification: true,
		},
	},

	Command: CommandConfiguration{
		TimeoutSeconds:      0,
		ClassifierCacheSize: 1024,
	},

	Logging: LoggingConfiguration{
		Verbose: false,
		Format:  "console",
	},

	Prometheus: PrometheusConfiguration{
		Enabled: true,
	},

	Admin: AdminConfiguration{
		Enabled:     false,
		BindAddress: "127.0.0.1",
		Port:        8080,
	},
}

// Load loads configuration from file and applies CLI overrides
func Load(configPath string) error {
	// Load from file if it exists
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			log.Info().Str("path", configPath).Msg("Loading configuration")
			if _, err := toml.DecodeFile(configPath, Config); err != nil {
				return fmt.Errorf("failed to decode config: %w", err)
			}
		} else {
			log.Warn().Str("path", configPath).Msg("Config file not found, using defaults")
		}
	}

	// Apply CLI overrides
	if *HostsFlag != "" {
		Config.Cluster.Hosts = splitHosts(*HostsFlag)
	}
	if *KeyspaceFlag != "" {
		Config.Cluster.Keyspace = *KeyspaceFlag
	}
	if *AdminPortFlag != 0 {
		Config.Admin.Port = *AdminPortFlag
	}

	// Auto-generate client ID if not set
	if Config.ClientID == 0 {
		var err error
		Config.ClientID, err = generateClientID()
		if err != nil {
			return fmt.Errorf("failed to generate client ID: %w", err)
		}
		log.Info().Uint64("client_id", Config.ClientID).Msg("Auto-generated client ID")
	}

	return nil
}

func splitHosts(s string) []string {
	var hosts []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// generateClientID creates a stable client ID based on machine ID
func generateClientID() (uint64, error) {
	id, err := machineid.ProtectedID("cqlcmd")
	if err != nil {
		return 0, err
	}

	h := fnv.New64a()
	h.Write([]byte(id))
	return h.Sum64(), nil
}

// validConsistency lists the consistency names the driver understands
var validConsistency = map[string]bool{
	"ANY": true, "ONE": true, "TWO": true, "THREE": true,
	"QUORUM": true, "ALL": true, "LOCAL_QUORUM": true,
	"EACH_QUORUM": true, "LOCAL_ONE": true,
}

// Validate checks configuration for errors
func Validate() error {
	if len(Config.Cluster.Hosts) == 0 {
		return fmt.Errorf("at least one cluster host is required")
	}

	if Config.Cluster.Port < 1 || Config.Cluster.Port > 65535 {
		return fmt.Errorf("invalid cluster port: %d", Config.Cluster.Port)
	}

	if !validConsistency[strings.ToUpper(Config.Cluster.Consistency)] {
		return fmt.Errorf("invalid consistency: %s", Config.Cluster.Consistency)
	}

	if Config.Cluster.TimeoutMS < 0 {
		return fmt.Errorf("cluster timeout must be >= 0")
	}

	if Config.Cluster.ConnectTimeoutMS < 0 {
		return fmt.Errorf("cluster connect timeout must be >= 0")
	}

	if Config.Cluster.CreateKeyspace {
		if Config.Cluster.Keyspace == "" {
			return fmt.Errorf("create_keyspace requires a keyspace")
		}
		if Config.Cluster.ReplicationFactor < 1 {
			return fmt.Errorf("replication factor must be >= 1")
		}
	}

	if Config.Cluster.Auth.Enabled && Config.Cluster.Auth.Username == "" {
		return fmt.Errorf("auth enabled without a username")
	}

	if Config.Command.TimeoutSeconds < 0 {
		return fmt.Errorf("command timeout must be >= 0")
	}

	if Config.Command.ClassifierCacheSize < 0 {
		return fmt.Errorf("classifier cache size must be >= 0")
	}

	if Config.Logging.Format != "console" && Config.Logging.Format != "json" {
		return fmt.Errorf("invalid logging format: %s", Config.Logging.Format)
	}

	if Config.Admin.Enabled && (Config.Admin.Port < 1 || Config.Admin.Port > 65535) {
		return fmt.Errorf("invalid admin port: %d", Config.Admin.Port)
	}

	return nil
}

// IsAdminAuthEnabled reports whether admin requests must carry the secret
func IsAdminAuthEnabled() bool {
	return Config.Admin.Secret != ""
}
