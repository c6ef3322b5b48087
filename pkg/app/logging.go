package app

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig controls where and how diagnostics are logged
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// SetLogDefaults registers the logging defaults on v
func SetLogDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warning")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("output.format", "table")
}

// LoadLogConfig reads the log section of v
func LoadLogConfig(v *viper.Viper) (*LogConfig, error) {
	if v == nil {
		v = viper.GetViper()
	}
	SetLogDefaults(v)
	var settings struct {
		Log LogConfig `mapstructure:"log"`
	}
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling log config: %w", err)
	}
	return &settings.Log, nil
}

// ConfigureLogging applies cfg to logger. verbose lowers the level to debug and quiet raises it
// to error; both override the configured level. The returned closer releases the log file, if any.
func ConfigureLogging(logger *logrus.Logger, cfg *LogConfig, verbose, quiet bool) (io.Closer, error) {
	if cfg == nil {
		cfg = &LogConfig{Level: "warning", Format: "text"}
	}

	level := logrus.WarnLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, NewError(ErrCodeInvalidInput, "invalid log level", err)
		}
		level = parsed
	}
	switch {
	case quiet:
		level = logrus.ErrorLevel
	case verbose:
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, NewError(ErrCodeInvalidInput, fmt.Sprintf("unsupported log format: %s", cfg.Format), nil)
	}

	if cfg.File == "" {
		logger.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	logger.SetOutput(file)
	return file, nil
}
