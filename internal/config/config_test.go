package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/a3tai/pdf-formmap/internal/formmap"
	"github.com/a3tai/pdf-formmap/internal/overlay"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, OutputText, cfg.Output)

	assert.Equal(t, 8.0, cfg.Geometry.MinWidth)
	assert.Equal(t, 50.0, cfg.Geometry.MaxHeight)
	assert.Equal(t, 200.0, cfg.Geometry.LeftReach)
	assert.Equal(t, 10.0, cfg.Geometry.RowTolerance)

	assert.Equal(t, 500.0, cfg.Stream.BorderWidth)
	assert.Equal(t, 700.0, cfg.Stream.BorderHeight)
	assert.Equal(t, 300.0, cfg.Stream.LeftReach)
	assert.Equal(t, 50.0, cfg.Stream.LeftOverlap)
	assert.Equal(t, 20.0, cfg.Stream.RowTolerance)
	assert.Equal(t, 100.0, cfg.Stream.AboveReach)

	assert.Equal(t, "Helvetica", cfg.Preview.Font)
	assert.Equal(t, 80, cfg.Preview.Truncate)
	assert.Equal(t, 200, cfg.Preview.TruncateMultiline)

	assert.Equal(t, "field_mappings", cfg.S3.Bucket)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, 3, cfg.S3.Attempts)
	assert.Equal(t, time.Second, cfg.S3.RetryDelay)

	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfigRoundTripsScannerDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, formmap.DefaultGeometryConfig(), cfg.GeometryConfig())
	assert.Equal(t, formmap.DefaultStreamConfig(), cfg.StreamConfig())
	assert.Equal(t, overlay.DefaultPreviewOptions(), cfg.PreviewOptions())
	assert.Equal(t, overlay.DefaultFillOptions(), cfg.FillOptions())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid default", modify: func(*Config) {}},
		{name: "debug level", modify: func(c *Config) { c.LogLevel = "debug" }},
		{name: "yaml output", modify: func(c *Config) { c.Output = OutputYAML }},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: "invalid log level",
		},
		{
			name:    "unknown output",
			modify:  func(c *Config) { c.Output = "xml" },
			wantErr: "invalid output format",
		},
		{
			name:    "zero min width",
			modify:  func(c *Config) { c.Geometry.MinWidth = 0 },
			wantErr: "geometry.min_width must be positive",
		},
		{
			name:    "negative stream reach",
			modify:  func(c *Config) { c.Stream.LeftReach = -1 },
			wantErr: "stream.left_reach must be positive",
		},
		{
			name:    "negative overlap",
			modify:  func(c *Config) { c.Stream.LeftOverlap = -5 },
			wantErr: "stream.left_overlap cannot be negative",
		},
		{
			name:   "zero above reach disables fallback",
			modify: func(c *Config) { c.Stream.AboveReach = 0 },
		},
		{
			name:    "inverted height window",
			modify:  func(c *Config) { c.Geometry.MinHeight = 60 },
			wantErr: "must be below",
		},
		{
			name:    "zero attempts",
			modify:  func(c *Config) { c.S3.Attempts = 0 },
			wantErr: "s3.attempts must be positive",
		},
		{
			name:    "empty font",
			modify:  func(c *Config) { c.Preview.Font = "" },
			wantErr: "preview.font",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfigConversions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Geometry.LeftReach = 150
	cfg.Stream.AboveReach = 0
	cfg.Preview.Font = "Courier"
	cfg.S3.Attempts = 5
	cfg.S3.RetryDelay = 250 * time.Millisecond
	cfg.S3.Endpoint = "http://localhost:9000"

	assert.Equal(t, 150.0, cfg.GeometryConfig().Envelope.LeftReach)
	assert.Zero(t, cfg.StreamConfig().Envelope.AboveReach)
	assert.Equal(t, "Courier", cfg.PreviewOptions().Font)
	assert.Equal(t, "Courier", cfg.FillOptions().Font)

	opts := cfg.PublishOptions()
	assert.Equal(t, uint(5), opts.Attempts)
	assert.Equal(t, 250*time.Millisecond, opts.Delay)
	assert.True(t, opts.Schema)

	assert.Equal(t, "http://localhost:9000", cfg.S3Config().Endpoint)
}

func TestIsDebug(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.IsDebug())
	cfg.LogLevel = "debug"
	assert.True(t, cfg.IsDebug())
}

func TestConfigStringHidesSecrets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.S3.AccessKey = "AKIAEXAMPLE"
	cfg.S3.SecretKey = "super-secret"

	s := cfg.String()
	assert.Contains(t, s, "field_mappings")
	assert.NotContains(t, s, "AKIAEXAMPLE")
	assert.NotContains(t, s, "super-secret")
}
