package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTTS(); err != nil {
		return err
	}
	c.normalizeCommands()
	c.normalizeHistory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.PacksRoot, err = expandPath(c.Paths.PacksRoot); err != nil {
		return fmt.Errorf("paths.packs_root: %w", err)
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTTS() error {
	if value, ok := os.LookupEnv(TTSURLEnvVar); ok && strings.TrimSpace(value) != "" {
		c.TTS.URL = value
	}
	c.TTS.URL = strings.TrimRight(strings.TrimSpace(c.TTS.URL), "/")
	if c.TTS.URL == "" {
		c.TTS.URL = defaultTTSURL
	}
	c.TTS.Format = strings.ToLower(strings.TrimSpace(c.TTS.Format))
	if c.TTS.Format == "" {
		c.TTS.Format = defaultTTSFormat
	}
	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultTTSTimeoutSeconds
	}
	if c.TTS.HealthTimeoutSeconds <= 0 {
		c.TTS.HealthTimeoutSeconds = defaultTTSHealthSeconds
	}
	return nil
}

func (c *Config) normalizeCommands() {
	c.Separator.Command = strings.TrimSpace(c.Separator.Command)
	if c.Separator.Command == "" {
		c.Separator.Command = defaultSeparatorCommand
	}
	if c.Separator.TimeoutSeconds <= 0 {
		c.Separator.TimeoutSeconds = defaultSeparatorTimeoutSecs
	}
	c.ASR.Command = strings.TrimSpace(c.ASR.Command)
	if c.ASR.Command == "" {
		c.ASR.Command = defaultASRCommand
	}
	c.ASR.Model = strings.TrimSpace(c.ASR.Model)
	if c.ASR.Model == "" {
		c.ASR.Model = defaultASRModel
	}
	if c.ASR.TimeoutSeconds <= 0 {
		c.ASR.TimeoutSeconds = defaultASRTimeoutSecs
	}
}

func (c *Config) normalizeHistory() {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.CacheDir, "history.db")
		return
	}
	if expanded, err := expandPath(c.History.Path); err == nil {
		c.History.Path = expanded
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
