package mapper

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the mapper package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})

	return logger
}

// SetLogger configures the mapper package's logger.
// This must be called before any mapper operations.
func SetLogger(l *zap.Logger) {
	logger = l
}
