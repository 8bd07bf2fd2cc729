package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateTarget(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTools() error {
	if c.Tools.ProbeTimeout <= 0 {
		return errors.New("tools.probe_timeout must be a positive number of seconds")
	}
	if c.Tools.ConvertTimeout <= 0 {
		return errors.New("tools.convert_timeout must be a positive number of seconds")
	}
	return nil
}

func (c *Config) validateTarget() error {
	if c.Target.SampleRate <= 0 {
		return errors.New("target.sample_rate must be positive")
	}
	switch c.Target.BitDepth {
	case 16, 32:
	default:
		return fmt.Errorf("target.bit_depth %d is unsupported (use 16 or 32)", c.Target.BitDepth)
	}
	return nil
}

func (c *Config) validateOutput() error {
	name := c.Output.LogFileName
	if name == "" {
		return errors.New("output.log_file_name must be set")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("output.log_file_name %q must be a bare file name", name)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is invalid (use debug, info, warn, or error)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is invalid (use console or json)", c.Logging.Format)
	}
	return nil
}
