package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/GoSim-25-26J-441/issue-tracker/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	global *zap.Logger

	// Swapped in tests.
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// New builds the service logger. Production writes JSON to stdout; any other
// environment gets a colored console encoder. Every entry carries the service
// name and version.
func New(app config.AppConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(app.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", app.LogLevel, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.StacktraceKey = ""

	var enc zapcore.Encoder
	if app.Environment == "production" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(stdout)), level)
	return zap.New(core,
		zap.ErrorOutput(zapcore.Lock(zapcore.AddSync(stderr))),
		zap.Fields(
			zap.String("service", app.ServiceName),
			zap.String("version", app.Version),
		),
	), nil
}

// Init builds the logger and installs it as the process-wide logger
func Init(app config.AppConfig) error {
	lg, err := New(app)
	if err != nil {
		return err
	}

	mu.Lock()
	global = lg
	mu.Unlock()
	return nil
}

// GetLogger returns the process-wide logger, or a no-op logger before Init
func GetLogger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()

	if global == nil {
		return zap.NewNop()
	}
	return global
}

// Sync flushes any buffered log entries
func Sync() error {
	return GetLogger().Sync()
}
