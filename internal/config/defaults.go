package config

const (
	defaultFFprobeBinary  = "ffprobe"
	defaultFFmpegBinary   = "ffmpeg"
	defaultProbeTimeout   = 5
	defaultConvertTimeout = 30
	defaultSampleRate     = 44100
	defaultBitDepth       = 16
	defaultLogFileName    = "processing_log.txt"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			FFprobeBinary:  defaultFFprobeBinary,
			FFmpegBinary:   defaultFFmpegBinary,
			ProbeTimeout:   defaultProbeTimeout,
			ConvertTimeout: defaultConvertTimeout,
		},
		Target: Target{
			SampleRate: defaultSampleRate,
			BitDepth:   defaultBitDepth,
		},
		Output: Output{
			LogFileName: defaultLogFileName,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
