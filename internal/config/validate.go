package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

const MinSecretKeyLength = 32

var (
	ErrInsecureSecretKey = errors.New("secret key is a known placeholder")
	ErrShortSecretKey    = fmt.Errorf("secret key must be at least %d characters", MinSecretKeyLength)

	insecureSecretKeys = []string{
		"change_me_in_production",
		"replace_with_at_least_32_random_characters",
	}
	supportedBackends  = []string{"sqlite", "redis", "memory"}
	supportedLanguages = []string{"bn", "en"}
	supportedLogFormat = []string{"text", "json", "logfmt"}
)

// Validate checks business rules after loading; Load calls it.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got %d)", c.Server.Port)
	}
	if _, err := c.Server.Location(); err != nil {
		return fmt.Errorf("server.timezone: %w", err)
	}
	c.Server.DefaultLanguage = strings.ToLower(strings.TrimSpace(c.Server.DefaultLanguage))
	if !slices.Contains(supportedLanguages, c.Server.DefaultLanguage) {
		return fmt.Errorf("server.default_language must be one of %v (got %q)", supportedLanguages, c.Server.DefaultLanguage)
	}

	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if !slices.Contains(supportedBackends, c.Storage.Backend) {
		return fmt.Errorf("storage.backend must be one of %v (got %q)", supportedBackends, c.Storage.Backend)
	}
	if c.Storage.Backend == "sqlite" && strings.TrimSpace(c.Storage.DBPath) == "" {
		return errors.New("storage.db_path is required for the sqlite backend")
	}
	if strings.TrimSpace(c.Storage.StateKey) == "" {
		return errors.New("storage.state_key must not be empty")
	}

	if err := ValidateSecretKey(c.Auth.SecretKey, true); err != nil {
		return fmt.Errorf("auth.secret_key: %w", err)
	}
	if c.Auth.LoginEnabled() && c.Auth.LoginMaxAttempts < 1 {
		return fmt.Errorf("auth.login_max_attempts must be >= 1 (got %d)", c.Auth.LoginMaxAttempts)
	}

	if err := c.Label.validate(); err != nil {
		return fmt.Errorf("label: %w", err)
	}
	if c.Dictation.SilenceTimeout <= 0 {
		return fmt.Errorf("dictation.silence_timeout must be > 0 (got %s)", c.Dictation.SilenceTimeout)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if !slices.Contains(supportedLogFormat, c.Log.Format) {
		return fmt.Errorf("log.format must be one of %v (got %q)", supportedLogFormat, c.Log.Format)
	}
	return nil
}

// ValidateSecretKey rejects placeholders and short keys. An empty key is
// accepted only when allowEmpty is set; the server then signs with a
// per-process key.
func ValidateSecretKey(secret string, allowEmpty bool) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		if allowEmpty {
			return nil
		}
		return errors.New("secret key is required")
	}
	if slices.Contains(insecureSecretKeys, secret) {
		return ErrInsecureSecretKey
	}
	if len(secret) < MinSecretKeyLength {
		return ErrShortSecretKey
	}
	return nil
}

func (l LabelConfig) validate() error {
	if strings.TrimSpace(l.SerialPrefix) == "" {
		return errors.New("serial_prefix must not be empty")
	}
	if l.LabelCount < 1 {
		return fmt.Errorf("label_count must be >= 1 (got %d)", l.LabelCount)
	}
	for name, value := range map[string]int{
		"drops":          l.Drops,
		"shake_count":    l.ShakeCount,
		"interval":       l.Interval,
		"duration_days":  l.DurationDays,
		"follow_up_days": l.FollowUpDays,
	} {
		if value < 0 {
			return fmt.Errorf("%s must be >= 0 (got %d)", name, value)
		}
	}
	return nil
}
