package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "icdmap/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Input   InputConfig   `yaml:"input" envconfig:"INPUT"`
	Metrics MetricsConfig `yaml:"metrics" envconfig:"METRICS"`
	Tracing TracingConfig `yaml:"tracing" envconfig:"TRACING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration.
// Relative directories are resolved against BaseDir; an empty BaseDir means the executable's directory.
type PathsConfig struct {
	BaseDir   string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// InputConfig controls how the input directory is read
type InputConfig struct {
	Extension string `yaml:"extension" envconfig:"EXTENSION" validate:"required,startswith=."`
	// Encodings overrides the per-mode encoding policy when non-empty
	Encodings []string `yaml:"encodings" envconfig:"ENCODINGS" validate:"dive,required"`
	// SortFiles sorts input files by name instead of keeping the directory's listing order
	SortFiles bool `yaml:"sort_files" envconfig:"SORT_FILES"`
}

// MetricsConfig controls the Prometheus textfile written after each run
type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled" envconfig:"ENABLED"`
	TextfilePath string `yaml:"textfile_path" envconfig:"TEXTFILE_PATH" validate:"required_if=Enabled true"`
}

// TracingConfig controls OpenTelemetry spans around file processing
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" envconfig:"ENABLED"`
	Exporter    string  `yaml:"exporter" envconfig:"EXPORTER" validate:"oneof=stdout none"`
	FilePath    string  `yaml:"file_path" envconfig:"FILE_PATH"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Load builds the configuration from defaults, an optional YAML file and ICDMAP_* environment
// variables, in increasing order of precedence, then validates it.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file. An empty path skips the file.
// Failures are CONFIG errors naming the source that failed.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config from file %s", configFile), err)
		}
	}

	// Fields carry no default tags, so only variables that are set override the file.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from "+EnvPrefix+"_* environment", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		return path
	}

	locations := []string{
		"icdmap.yaml",
		"configs/icdmap.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogsDir + "/" + LogFile,
		},
		Paths: PathsConfig{
			DataDir:   DefaultDataDir,
			OutputDir: DefaultOutputDir,
			LogsDir:   DefaultLogsDir,
		},
		Input: InputConfig{
			Extension: DefaultInputExtension,
		},
		Metrics: MetricsConfig{
			Enabled:      false,
			TextfilePath: DefaultOutputDir + "/" + MetricsTextfile,
		},
		Tracing: TracingConfig{
			Enabled:     false,
			Exporter:    "stdout",
			SampleRatio: 1.0,
		},
	}
}
