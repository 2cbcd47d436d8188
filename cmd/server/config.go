package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lychee-technology/formbuilder"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "FORMBUILDER"

// loadConfig reads formbuilder.yaml from the working directory or ./config,
// then FORMBUILDER_* environment variables, on top of DefaultConfig. An
// explicit path must exist.
func loadConfig(v *viper.Viper, path string) (*formbuilder.Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("formbuilder")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, formbuilder.DefaultConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	config := &formbuilder.Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *formbuilder.Config) {
	v.SetDefault("builder.defaultTitle", d.Builder.DefaultTitle)
	v.SetDefault("builder.defaultFieldLabel", d.Builder.DefaultFieldLabel)
	v.SetDefault("builder.defaultOptions", d.Builder.DefaultOptions)
	v.SetDefault("builder.defaultMaxStars", d.Builder.DefaultMaxStars)
	v.SetDefault("builder.defaultAcceptedFileTypes", d.Builder.DefaultAcceptedFileTypes)
	v.SetDefault("builder.defaultTimeSettings.startTime", d.Builder.DefaultTimeSettings.StartTime)
	v.SetDefault("builder.defaultTimeSettings.endTime", d.Builder.DefaultTimeSettings.EndTime)
	v.SetDefault("builder.defaultTimeSettings.interval", d.Builder.DefaultTimeSettings.Interval)

	v.SetDefault("session.maxSessions", d.Session.MaxSessions)
	v.SetDefault("session.historyLimit", d.Session.HistoryLimit)
	v.SetDefault("session.idleTTL", d.Session.IdleTTL)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.readTimeout", d.Server.ReadTimeout)
	v.SetDefault("server.writeTimeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdownTimeout", d.Server.ShutdownTimeout)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// newLogger builds the process logger from the logging section.
func newLogger(cfg formbuilder.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
