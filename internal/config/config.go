// Package config reads the brcmiovar configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/loopholelabs/logging/types"
)

// DefaultPath is the configuration file read when none is specified.
const DefaultPath = "/etc/brcmiovar.hcl"

// A Config is the contents of a configuration file. Every attribute is
// optional; zero values select the built-in defaults.
type Config struct {
	// GetBufferLen overrides the minimum buffer length requested from
	// firmware when reading an iovar.
	GetBufferLen int `hcl:"get_buffer_len,optional"`

	// Timeout bounds each request, as a Go duration string. Empty or "0"
	// waits forever.
	Timeout string `hcl:"timeout,optional"`

	// LogLevel is one of "info", "debug" or "trace".
	LogLevel string `hcl:"log_level,optional"`
}

// Read reads the configuration file at path. A missing file is only an
// error if required is set.
func Read(path string, required bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}

		return nil, err
	}

	c := new(Config)
	if err := c.Decode(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// Decode parses HCL data into c and validates it.
func (c *Config) Decode(data []byte) error {
	file, diag := hclsyntax.ParseConfig(data, "", hcl.Pos{Line: 1, Column: 1})
	if diag.HasErrors() {
		return diag
	}

	diag = gohcl.DecodeBody(file.Body, nil, c)
	if diag.HasErrors() {
		return diag
	}

	if c.GetBufferLen < 0 {
		return fmt.Errorf("get_buffer_len must not be negative: %d", c.GetBufferLen)
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// TimeoutDuration parses the Timeout attribute.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative: %s", d)
	}

	return d, nil
}

// Level parses the LogLevel attribute. An empty level is info.
func (c *Config) Level() (types.Level, error) {
	switch c.LogLevel {
	case "", "info":
		return types.InfoLevel, nil
	case "debug":
		return types.DebugLevel, nil
	case "trace":
		return types.TraceLevel, nil
	default:
		return 0, fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
}
