package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"sampleprep/internal/config"
	"sampleprep/internal/logging"
	"sampleprep/internal/media/ffprobe"
	"sampleprep/internal/transcode"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) buildLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

func (c *commandContext) newProber(cfg *config.Config) ffprobe.Prober {
	return ffprobe.Prober{
		Binary:  cfg.Tools.FFprobeBinary,
		Timeout: cfg.ProbeTimeout(),
	}
}

func (c *commandContext) newTranscoder(cfg *config.Config) transcode.FFmpeg {
	return transcode.FFmpeg{
		Binary:  cfg.Tools.FFmpegBinary,
		Timeout: cfg.ConvertTimeout(),
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
