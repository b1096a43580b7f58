package config

import "fmt"

// Report formats accepted in the config file.
const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// File represents the structure of the .wordhist configuration file.
// Pointer fields distinguish "not set" from the zero value.
type File struct {
	// BinSize is the default histogram bin width.
	BinSize *int `yaml:"bin_size,omitempty"`

	// IncludeZeroes is the default zero-fill policy.
	IncludeZeroes *bool `yaml:"include_zeroes,omitempty"`

	// Format is the default report format: table, markdown or json.
	Format string `yaml:"format,omitempty"`

	// Save stores every run in the history database.
	Save *bool `yaml:"save,omitempty"`

	// Exclude holds gitignore-style patterns appended to the CLI patterns.
	Exclude []string `yaml:"exclude,omitempty"`
}

// Apply copies the file's values into c. A value is copied only when the
// matching CLI flag was not set explicitly; changed reports that, by flag
// name. Exclude patterns are always appended.
func (f *File) Apply(c *Config, changed func(flag string) bool) error {
	if f.BinSize != nil && !changed("bin-size") {
		c.BinSize = *f.BinSize
	}

	if f.IncludeZeroes != nil && !changed("with-zeroes") {
		c.IncludeZeroes = *f.IncludeZeroes
	}

	if f.Save != nil && !changed("save") {
		c.SaveToDB = *f.Save
	}

	if f.Format != "" && !changed("json") && !changed("markdown") {
		switch f.Format {
		case FormatTable:
		case FormatMarkdown:
			c.MarkdownReport = true
		case FormatJSON:
			c.JSONReport = true
		default:
			return fmt.Errorf("%w: %q", ErrInvalidFormat, f.Format)
		}
	}

	c.Exclude = append(c.Exclude, f.Exclude...)

	return nil
}
