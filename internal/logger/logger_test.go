package logger

import (
	"testing"

	"github.com/deppfellow/go-calendar/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	assert.Equal(t, tracelog.LogLevelDebug, GetPgxTraceLogLevel(zerolog.DebugLevel))
	assert.Equal(t, tracelog.LogLevelInfo, GetPgxTraceLogLevel(zerolog.InfoLevel))
	assert.Equal(t, tracelog.LogLevelNone, GetPgxTraceLogLevel(zerolog.Disabled))
}

func TestLoggerServiceWithoutLicense(t *testing.T) {
	svc := NewLoggerService(config.DefaultObservabilityConfig())
	assert.Nil(t, svc.GetApplication())
	svc.Shutdown()

	var nilService *LoggerService
	assert.Nil(t, nilService.GetApplication())
}

func TestNewLoggerLevel(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	l := NewLogger(cfg)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
}
