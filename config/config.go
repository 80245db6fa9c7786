package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "FEECHART"

type Config struct {
	// Address the http api listens on, e.g. `127.0.0.1:8089`.
	ListenAddress string `mapstructure:"listenAddress" json:"listenAddress"`

	// If set, the http api is served over tls with a certificate obtained
	// for this domain.
	CertmagicDomain string `mapstructure:"certmagicDomain" json:"certmagicDomain"`

	// Postgres database url. If set, forwards are mirrored into the
	// database and charts are built from the mirror.
	DatabaseUrl string `mapstructure:"databaseUrl" json:"databaseUrl"`

	// Apply the database migrations on startup.
	AutoMigrateDb bool `mapstructure:"autoMigrateDb" json:"autoMigrateDb"`

	// Interval between forwarding history synchronizations to the mirror.
	HistorySyncInterval time.Duration `mapstructure:"historySyncInterval" json:"historySyncInterval"`

	Log LogConfig `mapstructure:"log" json:"log"`

	Nodes []*NodeConfig `mapstructure:"nodes" json:"nodes"`
}

type LogConfig struct {
	// One of debug, info, warn, error.
	Level string `mapstructure:"level" json:"level"`

	// Either json or console.
	Format string `mapstructure:"format" json:"format"`

	// Optional file to write logs to. Logs go to stderr if empty.
	File string `mapstructure:"file" json:"file"`
}

type NodeConfig struct {
	// Name of the node. If empty, the node's alias will be taken instead.
	Name string `mapstructure:"name" json:"name,omitempty"`

	// Tokens used to authenticate to the api. These tokens must be unique for
	// each configured node, so it's obvious which node a request is meant
	// for.
	Tokens []string `mapstructure:"tokens" json:"tokens"`

	// Set this field to connect to an LND node.
	Lnd *LndConfig `mapstructure:"lnd" json:"lnd,omitempty"`

	// Set this field to connect to a CLN node.
	Cln *ClnConfig `mapstructure:"cln" json:"cln,omitempty"`
}

type LndConfig struct {
	// Address to the grpc api.
	Address string `mapstructure:"address" json:"address"`

	// tls cert for the grpc api. Can either be a file path or the cert
	// contents. Typically stored in `lnd-dir/tls.cert`.
	Cert string `mapstructure:"cert" json:"cert"`

	// macaroon to use. Can either be a file path or the hex encoded macaroon.
	// A readonly macaroon is sufficient.
	Macaroon string `mapstructure:"macaroon" json:"macaroon"`
}

type ClnConfig struct {
	// File path to the cln lightning-rpc socket file. Find the path in
	// cln-dir/mainnet/lightning-rpc
	SocketPath string `mapstructure:"socketPath" json:"socketPath"`
}

// Load reads the configuration from the file at path, if any, with
// environment variables prefixed FEECHART_ taking precedence. The nodes can
// be passed as a json array in FEECHART_NODES.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("listenAddress", "127.0.0.1:8089")
	v.SetDefault("historySyncInterval", 5*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if nodes := os.Getenv(envPrefix + "_NODES"); nodes != "" {
		c.Nodes = nil
		if err := json.Unmarshal([]byte(nodes), &c.Nodes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s_NODES: %w", envPrefix, err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	for _, node := range c.Nodes {
		if node.Lnd != nil {
			node.Lnd.resolveFiles()
		}
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if len(c.Nodes) == 0 {
		return fmt.Errorf("no nodes supplied")
	}

	tokens := make(map[string]struct{})
	names := make(map[string]struct{})
	for i, node := range c.Nodes {
		if node == nil {
			return fmt.Errorf("node %d is empty", i)
		}

		if node.Lnd == nil && node.Cln == nil {
			return fmt.Errorf("node %d has to be either cln or lnd", i)
		}

		if node.Lnd != nil && node.Cln != nil {
			return fmt.Errorf("node %d cannot be both cln and lnd", i)
		}

		if node.Name != "" {
			if _, exists := names[node.Name]; exists {
				return fmt.Errorf("cannot have multiple nodes with the name %s", node.Name)
			}
			names[node.Name] = struct{}{}
		}

		for _, token := range node.Tokens {
			if _, exists := tokens[token]; exists {
				return fmt.Errorf("cannot have multiple nodes with the same token")
			}
			tokens[token] = struct{}{}
		}
	}

	return nil
}

// resolveFiles replaces cert and macaroon paths with their contents. Values
// that are not readable files are assumed to be the contents already.
func (c *LndConfig) resolveFiles() {
	if tlsCert, err := os.ReadFile(c.Cert); err == nil {
		c.Cert = string(tlsCert)
	}
	if macaroon, err := os.ReadFile(c.Macaroon); err == nil {
		c.Macaroon = hex.EncodeToString(macaroon)
	}
}
