package config

import "go.uber.org/zap"

// NewLogger builds the console logger used by the toolkit. Debug level is
// enabled when cfg.Debug is set; a nil cfg yields an Info-level logger.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	level := zap.InfoLevel
	if cfg != nil && cfg.Debug {
		level = zap.DebugLevel
	}
	c := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return c.Build()
}

// InstallLogger builds a logger with NewLogger and replaces the zap globals.
// The returned function restores the previous globals.
func InstallLogger(cfg *Config) (func(), error) {
	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	return zap.ReplaceGlobals(logger), nil
}
