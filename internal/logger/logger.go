package logger

import "go.uber.org/zap"

var Log *zap.SugaredLogger

// Init sets up the process-wide logger. Development mode gives console
// output for local runs; anything else gets production JSON.
func Init(env string) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = l.Sugar()
}

func init() {
	// Tests and library users get a working logger without calling Init.
	Log = zap.NewNop().Sugar()
}
