// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration. Fields are populated by
// viper from defaults, an optional YAML file, and VIO_* environment
// variables, in that order of precedence.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Capture    CaptureConfig    `mapstructure:"capture" yaml:"capture"`
	Perception PerceptionConfig `mapstructure:"perception" yaml:"perception"`
	Inference  InferenceConfig  `mapstructure:"inference" yaml:"inference"`
	History    HistoryConfig    `mapstructure:"history" yaml:"history"`
	Oracle     OracleConfig     `mapstructure:"oracle" yaml:"oracle"`
	Agent      AgentConfig      `mapstructure:"agent" yaml:"agent"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// CaptureConfig selects which display is observed and how long a grab may take.
type CaptureConfig struct {
	// Display matches a DisplayInfo id or name. Empty selects the display
	// whose origin is (0,0), falling back to the first enumerated.
	Display string        `mapstructure:"display" yaml:"display"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// PerceptionConfig tunes the decode and deduplication stages.
type PerceptionConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
	IOUThreshold        float64 `mapstructure:"iou_threshold" yaml:"iou_threshold"`
	ModelInputSize      int     `mapstructure:"model_input_size" yaml:"model_input_size"`

	// ClassAwareNMS restricts suppression to candidates of the same class.
	// The observed detector behavior is cross-class suppression, so this
	// defaults to false.
	ClassAwareNMS bool `mapstructure:"class_aware_nms" yaml:"class_aware_nms"`

	// Labels maps class indices to UI-category names. Indices absent from the
	// map render as a generated "class_<id>" placeholder.
	Labels map[int]string `mapstructure:"labels" yaml:"labels"`
}

// InferenceConfig describes the external detection backend. An empty endpoint
// disables the detector: every cycle then yields an empty element list.
type InferenceConfig struct {
	Endpoint   string        `mapstructure:"endpoint" yaml:"endpoint"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
}

// HistoryConfig tunes the stagnation monitor and transcript rendering.
type HistoryConfig struct {
	StagnationThreshold int `mapstructure:"stagnation_threshold" yaml:"stagnation_threshold"`
	RecentCount         int `mapstructure:"recent_count" yaml:"recent_count"`
}

// OracleConfig configures the external reasoning oracle client.
type OracleConfig struct {
	Model       string        `mapstructure:"model" yaml:"model"`
	APIKey      string        `mapstructure:"api_key" yaml:"-"`
	Endpoint    string        `mapstructure:"endpoint" yaml:"endpoint"`
	APITimeout  time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxRetries  int           `mapstructure:"max_retries" yaml:"max_retries"`
}

// AgentConfig bounds the observe/act loop.
type AgentConfig struct {
	MaxSteps int `mapstructure:"max_steps" yaml:"max_steps"`

	// CycleInterval is the minimum spacing between observation cycles.
	CycleInterval time.Duration `mapstructure:"cycle_interval" yaml:"cycle_interval"`
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with our own defaults, but fail loudly if it does.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "vio")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Capture --
	v.SetDefault("capture.display", "")
	v.SetDefault("capture.timeout", "5s")

	// -- Perception --
	v.SetDefault("perception.confidence_threshold", 0.45)
	v.SetDefault("perception.iou_threshold", 0.45)
	v.SetDefault("perception.model_input_size", 640)
	v.SetDefault("perception.class_aware_nms", false)

	// -- Inference --
	v.SetDefault("inference.endpoint", "")
	v.SetDefault("inference.timeout", "30s")
	v.SetDefault("inference.max_retries", 2)

	// -- History --
	v.SetDefault("history.stagnation_threshold", 3)
	v.SetDefault("history.recent_count", 5)

	// -- Oracle --
	v.SetDefault("oracle.model", "gemini-2.5-flash")
	v.SetDefault("oracle.endpoint", "")
	v.SetDefault("oracle.api_timeout", "90s")
	v.SetDefault("oracle.temperature", 0.2)
	v.SetDefault("oracle.max_retries", 3)

	// -- Agent --
	v.SetDefault("agent.max_steps", 50)
	v.SetDefault("agent.cycle_interval", "250ms")
}

// BindEnv wires the VIO_* environment variables into the viper instance.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("VIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("oracle.api_key", "VIO_ORACLE_API_KEY")
}

// NewConfigFromViper creates a validated configuration from a viper instance.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Perception.ConfidenceThreshold < 0 || c.Perception.ConfidenceThreshold > 1 {
		return fmt.Errorf("perception.confidence_threshold must be within [0, 1]")
	}
	if c.Perception.IOUThreshold < 0 || c.Perception.IOUThreshold > 1 {
		return fmt.Errorf("perception.iou_threshold must be within [0, 1]")
	}
	if c.Perception.ModelInputSize <= 0 {
		return fmt.Errorf("perception.model_input_size must be a positive integer")
	}
	if c.History.StagnationThreshold < 2 {
		return fmt.Errorf("history.stagnation_threshold must be at least 2")
	}
	if c.History.RecentCount <= 0 {
		return fmt.Errorf("history.recent_count must be a positive integer")
	}
	if c.Agent.MaxSteps <= 0 {
		return fmt.Errorf("agent.max_steps must be a positive integer")
	}
	return nil
}
