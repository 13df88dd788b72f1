package config

const (
	defaultPacksRoot            = "~/.claude/hooks/peon-ping/packs"
	defaultCacheDir             = "~/.cache/voiceforge"
	defaultLogDir               = "~/.local/share/voiceforge/logs"
	defaultTTSURL               = "http://127.0.0.1:8080"
	defaultTTSTimeoutSeconds    = 300
	defaultTTSHealthSeconds     = 3
	defaultTTSFormat            = "wav"
	defaultSeparatorCommand     = "vocalsep"
	defaultSeparatorModel       = "model_bs_roformer_ep_317_sdr_12.9755.ckpt"
	defaultSeparatorTimeoutSecs = 900
	defaultASRCommand           = "qwen3-asr"
	defaultASRModel             = "Qwen/Qwen3-ASR-0.6B"
	defaultASRTimeoutSecs       = 600
	defaultPackVersion          = "1.0.0"
	defaultPackAuthor           = "voice-clone-generator"
	defaultPackLicense          = "personal-use"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// TTSURLEnvVar overrides the synthesis endpoint base URL when set.
const TTSURLEnvVar = "VOICEFORGE_TTS_URL"

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PacksRoot: defaultPacksRoot,
			CacheDir:  defaultCacheDir,
			LogDir:    defaultLogDir,
		},
		TTS: TTS{
			URL:                  defaultTTSURL,
			TimeoutSeconds:       defaultTTSTimeoutSeconds,
			HealthTimeoutSeconds: defaultTTSHealthSeconds,
			Format:               defaultTTSFormat,
		},
		Separator: Separator{
			Command:        defaultSeparatorCommand,
			Model:          defaultSeparatorModel,
			TimeoutSeconds: defaultSeparatorTimeoutSecs,
		},
		ASR: ASR{
			Command:        defaultASRCommand,
			Model:          defaultASRModel,
			TimeoutSeconds: defaultASRTimeoutSecs,
		},
		Pack: Pack{
			Version: defaultPackVersion,
			Author:  defaultPackAuthor,
			License: defaultPackLicense,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
