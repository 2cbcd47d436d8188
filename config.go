package formbuilder

import (
	"slices"
	"time"
)

// Config consolidates settings of the builder core and its binaries
type Config struct {
	Builder BuilderConfig `json:"builder" mapstructure:"builder"`
	Session SessionConfig `json:"session" mapstructure:"session"`
	Server  ServerConfig  `json:"server" mapstructure:"server"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// BuilderConfig contains the defaults applied to new schemas and fields
type BuilderConfig struct {
	DefaultTitle             string             `json:"defaultTitle" mapstructure:"defaultTitle"`
	DefaultFieldLabel        string             `json:"defaultFieldLabel" mapstructure:"defaultFieldLabel"`
	DefaultOptions           []string           `json:"defaultOptions" mapstructure:"defaultOptions"`
	DefaultMaxStars          int                `json:"defaultMaxStars" mapstructure:"defaultMaxStars"`
	DefaultAcceptedFileTypes []string           `json:"defaultAcceptedFileTypes" mapstructure:"defaultAcceptedFileTypes"`
	DefaultTimeSettings      TimeSettingsConfig `json:"defaultTimeSettings" mapstructure:"defaultTimeSettings"`
}

// TimeSettingsConfig is the textual form of the timeslot defaults
type TimeSettingsConfig struct {
	StartTime string `json:"startTime" mapstructure:"startTime"`
	EndTime   string `json:"endTime" mapstructure:"endTime"`
	Interval  int    `json:"interval" mapstructure:"interval"`
}

// SessionConfig contains in-memory editing session settings
type SessionConfig struct {
	MaxSessions  int           `json:"maxSessions" mapstructure:"maxSessions"`
	HistoryLimit int           `json:"historyLimit" mapstructure:"historyLimit"`
	IdleTTL      time.Duration `json:"idleTTL" mapstructure:"idleTTL"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port            string        `json:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `json:"readTimeout" mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `json:"writeTimeout" mapstructure:"writeTimeout"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" mapstructure:"shutdownTimeout"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Builder: BuilderConfig{
			DefaultTitle:             "New form",
			DefaultFieldLabel:        "New field",
			DefaultOptions:           []string{"Option 1"},
			DefaultMaxStars:          5,
			DefaultAcceptedFileTypes: []string{".pdf", ".doc", ".docx"},
			DefaultTimeSettings: TimeSettingsConfig{
				StartTime: "09:00",
				EndTime:   "18:00",
				Interval:  30,
			},
		},
		Session: SessionConfig{
			MaxSessions:  1000,
			HistoryLimit: 50,
			IdleTTL:      2 * time.Hour,
		},
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Builder.DefaultOptions) == 0 {
		return &ConfigError{Field: "builder.defaultOptions", Message: "must contain at least one option"}
	}

	if c.Builder.DefaultMaxStars <= 0 {
		return &ConfigError{Field: "builder.defaultMaxStars", Message: "must be greater than 0"}
	}

	if _, err := ParseClock(c.Builder.DefaultTimeSettings.StartTime); err != nil {
		return &ConfigError{Field: "builder.defaultTimeSettings.startTime", Message: "must be a HH:MM time of day"}
	}

	if _, err := ParseClock(c.Builder.DefaultTimeSettings.EndTime); err != nil {
		return &ConfigError{Field: "builder.defaultTimeSettings.endTime", Message: "must be a HH:MM time of day"}
	}

	if c.Builder.DefaultTimeSettings.Interval <= 0 {
		return &ConfigError{Field: "builder.defaultTimeSettings.interval", Message: "must be greater than 0"}
	}

	if c.Session.MaxSessions <= 0 {
		return &ConfigError{Field: "session.maxSessions", Message: "must be greater than 0"}
	}

	if c.Session.HistoryLimit < 0 {
		return &ConfigError{Field: "session.historyLimit", Message: "must not be negative"}
	}

	if c.Server.Port == "" {
		return &ConfigError{Field: "server.port", Message: "must not be empty"}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: "must be one of debug, info, warn, error"}
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be json or console"}
	}

	return nil
}

// FieldDefaults returns the configuration a new field of type t starts with,
// honouring the configured overrides. It returns nil for an unsupported type.
// The configuration must have passed Validate.
func (b BuilderConfig) FieldDefaults(t FieldType) FieldConfig {
	switch t {
	case FieldTypeSingleSelect:
		return SelectConfig{Options: slices.Clone(b.DefaultOptions)}
	case FieldTypeRating:
		return RatingConfig{MaxStars: b.DefaultMaxStars}
	case FieldTypeFile:
		return FileConfig{AcceptedFileTypes: slices.Clone(b.DefaultAcceptedFileTypes)}
	case FieldTypeTimeslot:
		return TimeslotConfig{
			StartTime:     MustParseClock(b.DefaultTimeSettings.StartTime),
			EndTime:       MustParseClock(b.DefaultTimeSettings.EndTime),
			Interval:      b.DefaultTimeSettings.Interval,
			ExcludedTimes: []string{},
		}
	}
	return DefaultFieldConfig(t)
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	return "config validation error for field '" + e.Field + "': " + e.Message
}
