// Package logger configure the application's logging,
// monitoring, and observability.
//
// It uses *ZeroLog* for logging and integrates with
// *New Relic* to instrument the codebase, forwarding logs,
// metrics, and traces for debugging
package logger

import (
	"io"
	"os"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/deppfellow/contactbook/internal/config"
)

// LoggerService owns the optional New Relic application.
//
// When no license key is configured the service still exists, but
// GetApplication returns nil and every New Relic hook in the codebase turns
// into a no-op.
type LoggerService struct {
	nrApp *newrelic.Application
}

// NewLoggerService starts the New Relic agent if cfg asks for it.
//
// A failing agent start is not fatal: the service keeps running without APM
// and the failure is reported on stderr, since no logger exists yet.
func NewLoggerService(cfg *config.ObservabilityConfig) *LoggerService {
	service := &LoggerService{}

	if !cfg.NewRelicEnabled() {
		return service
	}

	options := []newrelic.ConfigOption{
		newrelic.ConfigAppName(cfg.ServiceName),
		newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(cfg.NewRelic.AppLogForwardingEnabled),
		newrelic.ConfigDistributedTracerEnabled(cfg.NewRelic.DistributedTracingEnabled),
	}
	if cfg.NewRelic.DebugLogging {
		options = append(options, newrelic.ConfigDebugLogger(os.Stdout))
	}

	app, err := newrelic.NewApplication(options...)
	if err != nil {
		_, _ = io.WriteString(os.Stderr, "failed to start new relic agent: "+err.Error()+"\n")
		return service
	}

	service.nrApp = app
	return service
}

// GetApplication returns the New Relic application, or nil when APM is off.
func (ls *LoggerService) GetApplication() *newrelic.Application {
	if ls == nil {
		return nil
	}
	return ls.nrApp
}

// Shutdown flushes pending New Relic data, waiting at most timeout.
func (ls *LoggerService) Shutdown(timeout time.Duration) {
	if ls.GetApplication() != nil {
		ls.nrApp.Shutdown(timeout)
	}
}

// NewLogger builds a logger writing to out, without New Relic log
// forwarding. The CLI commands log to stderr so stdout carries only data.
func NewLogger(cfg *config.ObservabilityConfig, out io.Writer) zerolog.Logger {
	return newLogger(cfg, nil, out)
}

// NewLoggerWithService builds the application logger.
//
// Output format:
//   - production, or format "json": JSON lines on stdout, forwarded to New
//     Relic through zerologWriter when an application is running.
//   - otherwise: human-friendly console output.
func NewLoggerWithService(cfg *config.ObservabilityConfig, ls *LoggerService) zerolog.Logger {
	return newLogger(cfg, ls, os.Stdout)
}

func newLogger(cfg *config.ObservabilityConfig, ls *LoggerService, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	// Render pkg/errors stack traces when an event calls .Stack().
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339

	var writer io.Writer
	switch {
	case cfg.Logging.Format == "console" && !cfg.IsProduction():
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	case ls.GetApplication() != nil:
		writer = zerologWriter.New(out, ls.GetApplication())
	default:
		writer = out
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
}

// WithTraceContext adds New Relic trace and span ids to a logger so log
// lines can be correlated with the transaction they belong to.
func WithTraceContext(logger zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return logger
	}

	metadata := txn.GetTraceMetadata()
	return logger.With().
		Str("trace.id", metadata.TraceID).
		Str("span.id", metadata.SpanID).
		Logger()
}

// Fatal is a helper for start-up failures before the HTTP server runs.
func Fatal(logger *zerolog.Logger, err error, msg string) {
	logger.Fatal().Stack().Err(errors.WithStack(err)).Msg(msg)
}
