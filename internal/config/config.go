package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/pdf-formmap/internal/formmap"
	"github.com/a3tai/pdf-formmap/internal/geometry"
	"github.com/a3tai/pdf-formmap/internal/overlay"
	"github.com/a3tai/pdf-formmap/internal/publish"
)

const (
	// Output formats
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"

	DefaultLogLevel = "info"
	DefaultBucket   = "field_mappings"
	DefaultRegion   = "us-east-1"

	// EnvPrefix prefixes every environment override, e.g. FORMMAP_S3_BUCKET.
	EnvPrefix = "FORMMAP"
	// ConfigName is the file looked up in the working directory when no
	// --config is given.
	ConfigName = "formmap"
)

// Geometry holds the rectangle filter and label search of the geometry scan.
type Geometry struct {
	MinWidth     float64
	MinHeight    float64
	MaxHeight    float64
	CheckboxSize float64
	LeftReach    float64
	RowTolerance float64
}

// Stream holds the thresholds of the content-stream scan.
type Stream struct {
	MinWidth     float64
	MinHeight    float64
	BorderWidth  float64
	BorderHeight float64
	CheckboxSize float64
	LeftReach    float64
	LeftOverlap  float64
	RowTolerance float64
	AboveReach   float64
	AboveSlack   float64
}

// Preview holds overlay rendering settings shared by preview and fill.
type Preview struct {
	Font              string
	FontSize          float64
	Truncate          int
	TruncateMultiline int
	TruncateLabeled   int
	WrapMargin        float64
	PadLeft           float64
}

// S3 addresses the bucket mappings are published to.
type S3 struct {
	Endpoint   string
	Region     string
	AccessKey  string
	SecretKey  string
	Bucket     string
	Attempts   int
	RetryDelay time.Duration
}

// Config holds all configuration for the formmap tools
type Config struct {
	LogLevel string
	Output   string

	Geometry Geometry
	Stream   Stream
	Preview  Preview
	S3       S3
}

// DefaultConfig returns the thresholds tuned for the T661.
func DefaultConfig() *Config {
	g := formmap.DefaultGeometryConfig()
	s := formmap.DefaultStreamConfig()
	p := overlay.DefaultPreviewOptions()
	f := overlay.DefaultFillOptions()

	return &Config{
		LogLevel: DefaultLogLevel,
		Output:   OutputText,
		Geometry: Geometry{
			MinWidth:     g.Window.MinWidth,
			MinHeight:    g.Window.MinHeight,
			MaxHeight:    g.Window.MaxHeight,
			CheckboxSize: g.CheckboxSize,
			LeftReach:    g.Envelope.LeftReach,
			RowTolerance: g.Envelope.RowTolerance,
		},
		Stream: Stream{
			MinWidth:     s.Window.MinWidth,
			MinHeight:    s.Window.MinHeight,
			BorderWidth:  s.Window.BorderWidth,
			BorderHeight: s.Window.BorderHeight,
			CheckboxSize: s.CheckboxSize,
			LeftReach:    s.Envelope.LeftReach,
			LeftOverlap:  s.Envelope.LeftOverlap,
			RowTolerance: s.Envelope.RowTolerance,
			AboveReach:   s.Envelope.AboveReach,
			AboveSlack:   s.Envelope.AboveSlack,
		},
		Preview: Preview{
			Font:              p.Font,
			FontSize:          p.DefaultFontSize,
			Truncate:          p.Truncate,
			TruncateMultiline: p.TruncateMultiline,
			TruncateLabeled:   p.TruncateLabeled,
			WrapMargin:        f.WrapMargin,
			PadLeft:           f.PadLeft,
		},
		S3: S3{
			Region:     DefaultRegion,
			Bucket:     DefaultBucket,
			Attempts:   publish.DefaultAttempts,
			RetryDelay: publish.DefaultDelay,
		},
	}
}

// Load reads defaults, then the config file, then FORMMAP_* environment
// variables, then any flags changed on the command line. An empty cfgFile
// looks for ./formmap.yaml and ignores its absence.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	setupViperEnvironment(v, cfg)
	if err := readConfigFile(v, cfgFile); err != nil {
		return nil, err
	}
	if err := bindFlagsToViper(v, flags); err != nil {
		return nil, err
	}
	populateConfigFromViper(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("output", cfg.Output)

	v.SetDefault("geometry.min_width", cfg.Geometry.MinWidth)
	v.SetDefault("geometry.min_height", cfg.Geometry.MinHeight)
	v.SetDefault("geometry.max_height", cfg.Geometry.MaxHeight)
	v.SetDefault("geometry.checkbox_size", cfg.Geometry.CheckboxSize)
	v.SetDefault("geometry.left_reach", cfg.Geometry.LeftReach)
	v.SetDefault("geometry.row_tolerance", cfg.Geometry.RowTolerance)

	v.SetDefault("stream.min_width", cfg.Stream.MinWidth)
	v.SetDefault("stream.min_height", cfg.Stream.MinHeight)
	v.SetDefault("stream.border_width", cfg.Stream.BorderWidth)
	v.SetDefault("stream.border_height", cfg.Stream.BorderHeight)
	v.SetDefault("stream.checkbox_size", cfg.Stream.CheckboxSize)
	v.SetDefault("stream.left_reach", cfg.Stream.LeftReach)
	v.SetDefault("stream.left_overlap", cfg.Stream.LeftOverlap)
	v.SetDefault("stream.row_tolerance", cfg.Stream.RowTolerance)
	v.SetDefault("stream.above_reach", cfg.Stream.AboveReach)
	v.SetDefault("stream.above_slack", cfg.Stream.AboveSlack)

	v.SetDefault("preview.font", cfg.Preview.Font)
	v.SetDefault("preview.font_size", cfg.Preview.FontSize)
	v.SetDefault("preview.truncate", cfg.Preview.Truncate)
	v.SetDefault("preview.truncate_multiline", cfg.Preview.TruncateMultiline)
	v.SetDefault("preview.truncate_labeled", cfg.Preview.TruncateLabeled)
	v.SetDefault("preview.wrap_margin", cfg.Preview.WrapMargin)
	v.SetDefault("preview.pad_left", cfg.Preview.PadLeft)

	v.SetDefault("s3.endpoint", cfg.S3.Endpoint)
	v.SetDefault("s3.region", cfg.S3.Region)
	v.SetDefault("s3.access_key", cfg.S3.AccessKey)
	v.SetDefault("s3.secret_key", cfg.S3.SecretKey)
	v.SetDefault("s3.bucket", cfg.S3.Bucket)
	v.SetDefault("s3.attempts", cfg.S3.Attempts)
	v.SetDefault("s3.retry_delay", cfg.S3.RetryDelay)
}

func readConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
		return nil
	}

	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"log-level": "log_level",
	"output":    "output",
	"bucket":    "s3.bucket",
	"endpoint":  "s3.endpoint",
	"region":    "s3.region",
}

// bindFlagsToViper binds whichever known flags the set defines.
func bindFlagsToViper(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.LogLevel = strings.ToLower(v.GetString("log_level"))
	cfg.Output = strings.ToLower(v.GetString("output"))

	cfg.Geometry = Geometry{
		MinWidth:     v.GetFloat64("geometry.min_width"),
		MinHeight:    v.GetFloat64("geometry.min_height"),
		MaxHeight:    v.GetFloat64("geometry.max_height"),
		CheckboxSize: v.GetFloat64("geometry.checkbox_size"),
		LeftReach:    v.GetFloat64("geometry.left_reach"),
		RowTolerance: v.GetFloat64("geometry.row_tolerance"),
	}
	cfg.Stream = Stream{
		MinWidth:     v.GetFloat64("stream.min_width"),
		MinHeight:    v.GetFloat64("stream.min_height"),
		BorderWidth:  v.GetFloat64("stream.border_width"),
		BorderHeight: v.GetFloat64("stream.border_height"),
		CheckboxSize: v.GetFloat64("stream.checkbox_size"),
		LeftReach:    v.GetFloat64("stream.left_reach"),
		LeftOverlap:  v.GetFloat64("stream.left_overlap"),
		RowTolerance: v.GetFloat64("stream.row_tolerance"),
		AboveReach:   v.GetFloat64("stream.above_reach"),
		AboveSlack:   v.GetFloat64("stream.above_slack"),
	}
	cfg.Preview = Preview{
		Font:              v.GetString("preview.font"),
		FontSize:          v.GetFloat64("preview.font_size"),
		Truncate:          v.GetInt("preview.truncate"),
		TruncateMultiline: v.GetInt("preview.truncate_multiline"),
		TruncateLabeled:   v.GetInt("preview.truncate_labeled"),
		WrapMargin:        v.GetFloat64("preview.wrap_margin"),
		PadLeft:           v.GetFloat64("preview.pad_left"),
	}
	cfg.S3 = S3{
		Endpoint:   v.GetString("s3.endpoint"),
		Region:     v.GetString("s3.region"),
		AccessKey:  v.GetString("s3.access_key"),
		SecretKey:  v.GetString("s3.secret_key"),
		Bucket:     v.GetString("s3.bucket"),
		Attempts:   v.GetInt("s3.attempts"),
		RetryDelay: v.GetDuration("s3.retry_delay"),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, yaml)", c.Output)
	}

	positive := []struct {
		key   string
		value float64
	}{
		{"geometry.min_width", c.Geometry.MinWidth},
		{"geometry.min_height", c.Geometry.MinHeight},
		{"geometry.max_height", c.Geometry.MaxHeight},
		{"geometry.checkbox_size", c.Geometry.CheckboxSize},
		{"geometry.left_reach", c.Geometry.LeftReach},
		{"geometry.row_tolerance", c.Geometry.RowTolerance},
		{"stream.min_width", c.Stream.MinWidth},
		{"stream.min_height", c.Stream.MinHeight},
		{"stream.border_width", c.Stream.BorderWidth},
		{"stream.border_height", c.Stream.BorderHeight},
		{"stream.checkbox_size", c.Stream.CheckboxSize},
		{"stream.left_reach", c.Stream.LeftReach},
		{"stream.row_tolerance", c.Stream.RowTolerance},
		{"preview.font_size", c.Preview.FontSize},
		{"preview.truncate", float64(c.Preview.Truncate)},
		{"preview.truncate_multiline", float64(c.Preview.TruncateMultiline)},
		{"preview.truncate_labeled", float64(c.Preview.TruncateLabeled)},
		{"s3.attempts", float64(c.S3.Attempts)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive", p.key)
		}
	}

	nonNegative := []struct {
		key   string
		value float64
	}{
		{"stream.left_overlap", c.Stream.LeftOverlap},
		{"stream.above_reach", c.Stream.AboveReach},
		{"stream.above_slack", c.Stream.AboveSlack},
		{"preview.wrap_margin", c.Preview.WrapMargin},
		{"preview.pad_left", c.Preview.PadLeft},
		{"s3.retry_delay", float64(c.S3.RetryDelay)},
	}
	for _, p := range nonNegative {
		if p.value < 0 {
			return fmt.Errorf("%s cannot be negative", p.key)
		}
	}

	if c.Geometry.MinHeight >= c.Geometry.MaxHeight {
		return errors.New("geometry.min_height must be below geometry.max_height")
	}
	if c.Preview.Font == "" {
		return errors.New("preview.font cannot be empty")
	}
	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// GeometryConfig converts the geometry keys into scanner thresholds.
func (c *Config) GeometryConfig() formmap.GeometryConfig {
	out := formmap.DefaultGeometryConfig()
	out.Window = geometry.SizeWindow{
		MinWidth:  c.Geometry.MinWidth,
		MinHeight: c.Geometry.MinHeight,
		MaxHeight: c.Geometry.MaxHeight,
	}
	out.CheckboxSize = c.Geometry.CheckboxSize
	out.Envelope.LeftReach = c.Geometry.LeftReach
	out.Envelope.RowTolerance = c.Geometry.RowTolerance
	return out
}

// StreamConfig converts the stream keys into scanner thresholds.
func (c *Config) StreamConfig() formmap.StreamConfig {
	out := formmap.DefaultStreamConfig()
	out.Window = geometry.SizeWindow{
		MinWidth:     c.Stream.MinWidth,
		MinHeight:    c.Stream.MinHeight,
		BorderWidth:  c.Stream.BorderWidth,
		BorderHeight: c.Stream.BorderHeight,
	}
	out.CheckboxSize = c.Stream.CheckboxSize
	out.Envelope.LeftReach = c.Stream.LeftReach
	out.Envelope.LeftOverlap = c.Stream.LeftOverlap
	out.Envelope.RowTolerance = c.Stream.RowTolerance
	out.Envelope.AboveReach = c.Stream.AboveReach
	out.Envelope.AboveSlack = c.Stream.AboveSlack
	return out
}

// PreviewOptions returns preview settings; callers set Pages, Template and
// Labeled per run.
func (c *Config) PreviewOptions() overlay.PreviewOptions {
	out := overlay.DefaultPreviewOptions()
	out.Font = c.Preview.Font
	out.DefaultFontSize = c.Preview.FontSize
	out.Truncate = c.Preview.Truncate
	out.TruncateMultiline = c.Preview.TruncateMultiline
	out.TruncateLabeled = c.Preview.TruncateLabeled
	return out
}

// FillOptions returns narrative fill settings.
func (c *Config) FillOptions() overlay.FillOptions {
	out := overlay.DefaultFillOptions()
	out.Font = c.Preview.Font
	out.WrapMargin = c.Preview.WrapMargin
	out.PadLeft = c.Preview.PadLeft
	return out
}

// S3Config returns the object store connection settings.
func (c *Config) S3Config() publish.S3Config {
	return publish.S3Config{
		Endpoint:  c.S3.Endpoint,
		Region:    c.S3.Region,
		AccessKey: c.S3.AccessKey,
		SecretKey: c.S3.SecretKey,
	}
}

// PublishOptions returns retry settings for publishing.
func (c *Config) PublishOptions() publish.Options {
	out := publish.DefaultOptions()
	out.Attempts = uint(c.S3.Attempts)
	out.Delay = c.S3.RetryDelay
	return out
}

// String returns a string representation of the configuration. Secrets are
// never printed.
func (c *Config) String() string {
	return fmt.Sprintf("Config{LogLevel: %s, Output: %s, S3: {Endpoint: %s, Region: %s, Bucket: %s}}",
		c.LogLevel, c.Output, c.S3.Endpoint, c.S3.Region, c.S3.Bucket)
}
