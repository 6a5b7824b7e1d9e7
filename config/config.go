package config

import (
	"github.com/lambda-feedback/harbor-shim/runtime"
	"github.com/lambda-feedback/harbor-shim/util/conf"
)

type AuthConfig struct {
	// Key is the api key clients must send in the api-key header.
	// Authorization is disabled if empty.
	Key string `conf:"key"`
}

type Config struct {
	// LogLevel is the log level for the application
	LogLevel string `conf:"log_level"`

	// LogFormat is the log format for the application
	LogFormat string `conf:"log_format"`

	// Auth is the authorization configuration of the http handler
	Auth AuthConfig `conf:"auth"`

	// Runtime is the runtime configuration
	Runtime runtime.Config `conf:"runtime"`
}

// DefaultConfig holds the configuration defaults, keyed
// by their delimited config path.
var DefaultConfig = conf.DefaultConfig{
	"log_level":           "info",
	"log_format":          "production",
	"runtime.command":     "./target/release/harbor",
	"runtime.streams":     "capture",
	"runtime.max_workers": 0,
}
