package utils

import "go.uber.org/zap"

// Logger is the shared structured logger. InitLogger must run before anything
// else touches it; until then it is a no-op logger so tests stay quiet.
var Logger = zap.NewNop().Sugar()

// InitLogger builds the production zap logger and installs it as Logger.
func InitLogger(development bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	Logger = l.Sugar()
	return nil
}
