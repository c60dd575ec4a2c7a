package config

const (
	defaultConfigPath          = "~/.config/subclip/config.toml"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultEndEarly            = 0.3
	defaultMinLength           = 1.0
	defaultClipsSuffix         = " clips"
	defaultBetweensSuffix      = " betweens"
	defaultTwitterVideoBitrate = "1024k"
	defaultTwitterAudioRate    = 44100
	defaultTwitterFrameRate    = 30
	defaultTranslateProvider   = "gemini"
	defaultTranslateBatchSize  = 50
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Split: Split{
			EndEarly:       defaultEndEarly,
			MinLength:      defaultMinLength,
			ClipsSuffix:    defaultClipsSuffix,
			BetweensSuffix: defaultBetweensSuffix,
		},
		Twitter: Twitter{
			VideoBitrate: defaultTwitterVideoBitrate,
			AudioRate:    defaultTwitterAudioRate,
			FrameRate:    defaultTwitterFrameRate,
		},
		Translate: Translate{
			Provider:  defaultTranslateProvider,
			BatchSize: defaultTranslateBatchSize,
		},
	}
}
