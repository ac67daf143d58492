package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/questevent/questevent-api/internal/config"
)

// Init builds the global zap logger for env and returns its level so it can be
// changed at runtime. When conf.File is set, entries are also written as JSON to a
// size-rotated file.
func Init(env string, conf *config.LogConfig) (zap.AtomicLevel, error) {
	var zapConf zap.Config
	if env == "production" {
		zapConf = zap.NewProductionConfig()
	} else {
		zapConf = zap.NewDevelopmentConfig()
	}

	if conf != nil && conf.Level != "" {
		level, err := zapcore.ParseLevel(conf.Level)
		if err != nil {
			return zap.AtomicLevel{}, fmt.Errorf("zapcore.ParseLevel -> %w", err)
		}
		zapConf.Level.SetLevel(level)
	}

	l, err := zapConf.Build()
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("zapConf.Build -> %w", err)
	}

	if conf != nil && conf.File != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    conf.MaxSizeMB,
			MaxBackups: conf.MaxBackups,
			Compress:   true,
		})
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			sink,
			zapConf.Level,
		)
		l = l.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore)
		}))
	}

	zap.ReplaceGlobals(l)

	return zapConf.Level, nil
}

// SetLevel applies a level name from a reloaded config.
func SetLevel(level zap.AtomicLevel, name string) error {
	parsed, err := zapcore.ParseLevel(name)
	if err != nil {
		return err
	}

	level.SetLevel(parsed)

	return nil
}
