// Package config loads bugscope settings from defaults, a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// DefaultAddress is where the pipeline serves its websocket.
const DefaultAddress = "ws://localhost:7500"

// EnvPrefix prefixes environment overrides, e.g. BUGSCOPE_SERVER_ADDRESS.
const EnvPrefix = "BUGSCOPE_"

// DefaultPaths are tried in order when no config file is given.
var DefaultPaths = []string{"./bugscope.toml", "$HOME/.bugscope.toml"}

// Config represents the application configuration.
type Config struct {
	Server struct {
		Address          string        `koanf:"address"`
		HandshakeTimeout time.Duration `koanf:"handshake_timeout"`
	} `koanf:"server"`

	Session struct {
		Reconnect         bool          `koanf:"reconnect"`
		ReconnectInterval time.Duration `koanf:"reconnect_interval"`
		Record            string        `koanf:"record"`
	} `koanf:"session"`

	UI struct {
		Plain    bool `koanf:"plain"`
		Expanded bool `koanf:"expanded"`
	} `koanf:"ui"`

	Log struct {
		Level string `koanf:"level"`
		File  string `koanf:"file"`
	} `koanf:"log"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.address":             DefaultAddress,
		"server.handshake_timeout":   "10s",
		"session.reconnect":          false,
		"session.reconnect_interval": "2s",
		"session.record":             "",
		"ui.plain":                   false,
		"ui.expanded":                false,
		"log.level":                  "info",
		"log.file":                   "",
	}
}

// Load builds the configuration. An explicit configPath must exist; otherwise
// the first existing file in DefaultPaths is used, if any. A file that exists
// but does not parse is an error either way.
func Load(configPath string) (*Config, error) {
	var k = koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		for _, path := range DefaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err != nil {
				continue
			}

			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading config %s: %w", path, err)
			}

			break
		}
	}

	// Only the first underscore separates section from key:
	// BUGSCOPE_SESSION_RECONNECT_INTERVAL -> session.reconnect_interval.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration.
func Validate(config *Config) error {
	var errs []error

	address, err := url.Parse(config.Server.Address)

	switch {
	case config.Server.Address == "":
		errs = append(errs, errors.New("server address is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("server address: %w", err))
	case address.Scheme != "ws" && address.Scheme != "wss":
		errs = append(errs, fmt.Errorf("server address %q must use ws or wss", config.Server.Address))
	case address.Host == "":
		errs = append(errs, fmt.Errorf("server address %q has no host", config.Server.Address))
	}

	if config.Server.HandshakeTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server handshake_timeout must be positive, got %s", config.Server.HandshakeTimeout))
	}

	if config.Session.ReconnectInterval <= 0 {
		errs = append(errs, fmt.Errorf("session reconnect_interval must be positive, got %s", config.Session.ReconnectInterval))
	}

	if _, err := zerolog.ParseLevel(config.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}

	return errors.Join(errs...)
}

const sampleConfig = `# bugscope configuration

[server]
# websocket endpoint of the bug-injection pipeline
address = "ws://localhost:7500"
handshake_timeout = "10s"

[session]
reconnect = false
reconnect_interval = "2s"
# record every received message to this JSONL file
record = ""

[ui]
# plain text output even on a terminal
plain = false
# open every stage panel on start
expanded = false

[log]
level = "info"
# log file; the dashboard discards logs when empty
file = ""
`

// InitConfig writes a sample configuration file.
func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	return os.WriteFile(configPath, []byte(sampleConfig), 0o644)
}
