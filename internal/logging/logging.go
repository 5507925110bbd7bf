// Package logging configures the process-wide zap logger.
package logging

import "go.uber.org/zap"

// New builds a console-encoded SugaredLogger. Debug mode switches to the
// development config with debug-level output; otherwise info and above.
func New(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
