// Package caisse defines the global logger and the registry of Prometheus
// collectors exposed by the different layers of the runtime.
package caisse

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// EnvLogLevel is the name of the environment variable to change the logging
// level.
const EnvLogLevel = "CAISSE_LLVL"

const defaultLevel = zerolog.NoLevel

func init() {
	switch os.Getenv(EnvLogLevel) {
	case "error":
		Logger = Logger.Level(zerolog.ErrorLevel)
	case "warn":
		Logger = Logger.Level(zerolog.WarnLevel)
	case "info":
		Logger = Logger.Level(zerolog.InfoLevel)
	case "debug":
		Logger = Logger.Level(zerolog.DebugLevel)
	case "trace":
		Logger = Logger.Level(zerolog.TraceLevel)
	}
}

var logout = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance. By default, it does not
// print anything but the level can be raised through the CAISSE_LLVL
// environment variable.
var Logger = zerolog.New(logout).Level(defaultLevel).
	With().Timestamp().Logger().
	With().Caller().Logger()

// PromCollectors exposes the Prometheus collectors created by the runtime so
// that a program can register them to an existing registry.
var PromCollectors []prometheus.Collector
