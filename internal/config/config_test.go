package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default BinSize is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.BinSize != 1 {
			t.Errorf("expected BinSize to be 1, got %d", cfg.BinSize)
		}
	})

	t.Run("default IncludeZeroes is false", func(t *testing.T) {
		t.Parallel()
		if cfg.IncludeZeroes {
			t.Error("expected IncludeZeroes to be false")
		}
	})

	t.Run("default LogFormat is text", func(t *testing.T) {
		t.Parallel()
		if cfg.LogFormat != LogFormatText {
			t.Errorf("expected LogFormat to be %q, got %q", LogFormatText, cfg.LogFormat)
		}
	})

	t.Run("default DBDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir to be %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("history is off by default", func(t *testing.T) {
		t.Parallel()
		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false")
		}
	})
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Root = "/data"
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "valid configuration passes",
			modify:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "missing root is rejected",
			modify:  func(c *Config) { c.Root = "" },
			wantErr: ErrNoRoot,
		},
		{
			name:    "bin size zero is rejected",
			modify:  func(c *Config) { c.BinSize = 0 },
			wantErr: ErrInvalidBinSize,
		},
		{
			name:    "negative bin size is rejected",
			modify:  func(c *Config) { c.BinSize = -4 },
			wantErr: ErrInvalidBinSize,
		},
		{
			name: "json and markdown together are rejected",
			modify: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "unknown log format is rejected",
			modify:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: ErrInvalidLogFormat,
		},
		{
			name:    "json log format is accepted",
			modify:  func(c *Config) { c.LogFormat = LogFormatJSON },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.modify(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestFileApply tests merging of config file values into a Config.
func TestFileApply(t *testing.T) {
	t.Parallel()

	binSize := 5
	yes := true
	none := func(string) bool { return false }

	t.Run("fills values whose flags were not set", func(t *testing.T) {
		t.Parallel()

		f := &File{BinSize: &binSize, IncludeZeroes: &yes, Save: &yes, Format: FormatMarkdown, Exclude: []string{"*.log"}}
		cfg := NewConfig()
		cfg.Exclude = []string{"vendor/"}

		if err := f.Apply(cfg, none); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.BinSize != 5 || !cfg.IncludeZeroes || !cfg.SaveToDB || !cfg.MarkdownReport {
			t.Errorf("file values not applied: %+v", cfg)
		}
		if strings.Join(cfg.Exclude, ",") != "vendor/,*.log" {
			t.Errorf("expected patterns to be appended, got %v", cfg.Exclude)
		}
	})

	t.Run("explicit flags win over the file", func(t *testing.T) {
		t.Parallel()

		f := &File{BinSize: &binSize, Format: FormatJSON}
		cfg := NewConfig()
		cfg.BinSize = 3
		cfg.MarkdownReport = true

		changed := func(flag string) bool { return flag == "bin-size" || flag == "markdown" }
		if err := f.Apply(cfg, changed); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.BinSize != 3 {
			t.Errorf("expected flag bin size 3 to win, got %d", cfg.BinSize)
		}
		if cfg.JSONReport {
			t.Error("expected file format to be ignored when a format flag is set")
		}
	})

	t.Run("table format keeps the default output", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := (&File{Format: FormatTable}).Apply(cfg, none); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.JSONReport || cfg.MarkdownReport {
			t.Error("expected table format to select neither json nor markdown")
		}
	})

	t.Run("unknown format is rejected", func(t *testing.T) {
		t.Parallel()

		err := (&File{Format: "html"}).Apply(NewConfig(), none)
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("expected ErrInvalidFormat, got %v", err)
		}
	})

	t.Run("file bin size zero is caught by Validate", func(t *testing.T) {
		t.Parallel()

		zero := 0
		cfg := NewConfig()
		cfg.Root = "/data"
		if err := (&File{BinSize: &zero}).Apply(cfg, none); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !errors.Is(cfg.Validate(), ErrInvalidBinSize) {
			t.Error("expected Validate to reject bin size 0 from the file")
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.wordhist")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".wordhist")
		content := `bin_size: 10
include_zeroes: true
format: json
save: false
exclude:
  - "build/"
  - "*.log"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.BinSize == nil || *cfg.BinSize != 10 {
			t.Errorf("expected bin size 10, got %v", cfg.BinSize)
		}
		if cfg.IncludeZeroes == nil || !*cfg.IncludeZeroes {
			t.Error("expected include_zeroes true")
		}
		if cfg.Save == nil || *cfg.Save {
			t.Error("expected save to be explicitly false")
		}
		if cfg.Format != FormatJSON {
			t.Errorf("expected format json, got %q", cfg.Format)
		}
		if len(cfg.Exclude) != 2 {
			t.Errorf("expected 2 exclude patterns, got %d", len(cfg.Exclude))
		}
	})

	t.Run("empty file yields an empty config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".wordhist")
		if err := os.WriteFile(configPath, nil, 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BinSize != nil || cfg.Format != "" {
			t.Errorf("expected empty config, got %+v", cfg)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".wordhist")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for unknown keys", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".wordhist")
		if err := os.WriteFile(configPath, []byte("binsize: 3\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for misspelled key")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("bin_size: 2\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	t.Run("XDGDataDir ends with the app name", func(t *testing.T) {
		t.Parallel()
		if filepath.Base(XDGDataDir()) != AppName {
			t.Errorf("unexpected XDG data dir %q", XDGDataDir())
		}
	})

	t.Run("XDGConfigDir ends with the app name", func(t *testing.T) {
		t.Parallel()
		if filepath.Base(XDGConfigDir()) != AppName {
			t.Errorf("unexpected XDG config dir %q", XDGConfigDir())
		}
	})
}
