package providers

import (
	"io"
	"os"

	"github.com/samber/do/v2"

	"github.com/bookverseapp/bookverse/internal/config"
	"github.com/bookverseapp/bookverse/internal/logger"
	"github.com/bookverseapp/bookverse/internal/validation"
)

// LogSink selects where the logger writes.
type LogSink int

const (
	// SinkStderr writes to standard error. Used by one-shot commands.
	SinkStderr LogSink = iota
	// SinkFile appends to the configured log file. Used while the
	// dashboard owns the terminal.
	SinkFile
)

// ProvideConfig provides the client configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	flags := do.MustInvoke[config.Flags](i)
	return config.Load(flags)
}

// LoggerHandle wraps the logger with the file it writes to, if any.
type LoggerHandle struct {
	*logger.Logger
	file io.Closer
}

// Shutdown implements do.Shutdownable.
func (h *LoggerHandle) Shutdown() error {
	if h.file == nil {
		return nil
	}
	return h.file.Close()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*LoggerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	sink := do.MustInvoke[LogSink](i)

	logCfg := logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	}

	handle := &LoggerHandle{}
	if sink == SinkFile {
		log, file, err := logger.OpenFile(cfg.Logger.File, logCfg)
		if err != nil {
			return nil, err
		}
		handle.Logger, handle.file = log, file
	} else {
		logCfg.Writer = os.Stderr
		handle.Logger = logger.New(logCfg)
	}

	handle.Debug("Starting BookVerse",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"api_url", cfg.API.BaseURL,
	)

	return handle, nil
}

// ProvideValidator provides the shared input validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
