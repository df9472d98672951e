package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the process-wide logger. Components take children of it so every
// line carries the component that wrote it.
var Logger *log.Logger

var levels = map[string]log.Level{
	"debug":   log.DebugLevel,
	"info":    log.InfoLevel,
	"warn":    log.WarnLevel,
	"warning": log.WarnLevel,
	"error":   log.ErrorLevel,
	"fatal":   log.FatalLevel,
}

// Initialize writes to stderr at LOG_LEVEL
func Initialize(logLevel string) {
	InitializeWithWriter(os.Stderr, logLevel)
}

// InitializeWithWriter is Initialize with a custom destination, used by tests.
// Unknown levels fall back to info.
func InitializeWithWriter(w io.Writer, logLevel string) {
	level, ok := levels[strings.ToLower(strings.TrimSpace(logLevel))]
	if !ok {
		level = log.InfoLevel
	}

	Logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportCaller:    true,
		ReportTimestamp: true,
	})
	Logger.Debug("Logger initialized", "level", level.String())
}

// Get returns the global logger, initializing it at info on first use
func Get() *log.Logger {
	if Logger == nil {
		Initialize("info")
	}
	return Logger
}

// WithContext returns a child carrying fields
func WithContext(fields ...any) *log.Logger {
	return Get().With(fields...)
}

// Service is the child used by internal/services, e.g. Service("opportunity")
func Service(serviceName string) *log.Logger {
	return WithContext("component", "service", "service", serviceName)
}

// Repository is the child used by the postgres repositories
func Repository(repoName string) *log.Logger {
	return WithContext("component", "repository", "repository", repoName)
}

func Database() *log.Logger {
	return WithContext("component", "database")
}

func Migration() *log.Logger {
	return WithContext("component", "migration")
}

// HTTP is used by the request middleware and the response helpers
func HTTP() *log.Logger {
	return WithContext("component", "http")
}

// Auth is used by bearer token verification
func Auth() *log.Logger {
	return WithContext("component", "auth")
}
