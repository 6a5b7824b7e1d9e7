package standalone

import (
	"github.com/lambda-feedback/harbor-shim/internal/server"
	"github.com/lambda-feedback/harbor-shim/util/conf"
)

type Config struct {
	// HttpConfig represents the configuration for the HTTP server.
	HttpConfig server.HttpConfig `conf:",squash"`
}

// DefaultConfig holds the defaults of the http server config.
var DefaultConfig = conf.DefaultConfig{
	"host": "localhost",
	"port": 8080,
	"h2c":  false,
}
