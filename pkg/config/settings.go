package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	KeyLoginURL       = "RETS_LOGIN_URL"
	KeyUserAgent      = "RETS_USER_AGENT"
	KeyVersion        = "RETS_VERSION"
	KeyAuth           = "RETS_AUTH"
	KeyTimeoutSeconds = "RETS_TIMEOUT_SECONDS"
	KeyLogLevel       = "RETS_LOG_LEVEL"
	KeyDBDriver       = "RETS_DB_DRIVER"
	KeyDBDSN          = "RETS_DB_DSN"
	KeyDBRetries      = "RETS_DB_RETRIES"
	KeyObjectDir      = "RETS_OBJECT_DIR"
	KeyObjectTypes    = "RETS_OBJECT_TYPES"
)

const (
	DefaultAuth           = "digest"
	DefaultTimeoutSeconds = 60
	DefaultLogLevel       = "info"
	DefaultDBDriver       = "sqlite"
	DefaultDBDSN          = "~/.retsctl.db"
	DefaultDBRetries      = 1
	DefaultObjectDir      = "."
	DefaultObjectTypes    = "HrPhoto"
)

var ErrMissingLoginURL = errors.New("no login url configured, set " + KeyLoginURL)

// Settings are the values retsctl runs with. The mapstructure tags match
// the keys so viper can decode flags and environment into the same struct.
type Settings struct {
	LoginURL    string   `mapstructure:"RETS_LOGIN_URL"`
	UserAgent   string   `mapstructure:"RETS_USER_AGENT"`
	RETSVersion string   `mapstructure:"RETS_VERSION"`
	Auth        string   `mapstructure:"RETS_AUTH"`
	Timeout     int      `mapstructure:"RETS_TIMEOUT_SECONDS"`
	LogLevel    string   `mapstructure:"RETS_LOG_LEVEL"`
	DBDriver    string   `mapstructure:"RETS_DB_DRIVER"`
	DBDSN       string   `mapstructure:"RETS_DB_DSN"`
	DBRetries   int      `mapstructure:"RETS_DB_RETRIES"`
	ObjectDir   string   `mapstructure:"RETS_OBJECT_DIR"`
	ObjectTypes []string `mapstructure:"RETS_OBJECT_TYPES"`
}

// LoadSettings reads every setting from c, filling in defaults.
func LoadSettings(c Configer) Settings {
	return Settings{
		LoginURL:    c.GetKey(KeyLoginURL),
		UserAgent:   c.GetKey(KeyUserAgent),
		RETSVersion: c.GetKey(KeyVersion),
		Auth:        c.GetKeyWithDefault(KeyAuth, DefaultAuth),
		Timeout:     c.GetIntKeyWithDefault(KeyTimeoutSeconds, DefaultTimeoutSeconds),
		LogLevel:    c.GetKeyWithDefault(KeyLogLevel, DefaultLogLevel),
		DBDriver:    c.GetKeyWithDefault(KeyDBDriver, DefaultDBDriver),
		DBDSN:       c.GetKeyWithDefault(KeyDBDSN, DefaultDBDSN),
		DBRetries:   c.GetIntKeyWithDefault(KeyDBRetries, DefaultDBRetries),
		ObjectDir:   c.GetKeyWithDefault(KeyObjectDir, DefaultObjectDir),
		ObjectTypes: splitList(c.GetKeyWithDefault(KeyObjectTypes, DefaultObjectTypes)),
	}
}

// AsMap returns the settings keyed by their config keys.
func (s Settings) AsMap() map[string]any {
	return map[string]any{
		KeyLoginURL:       s.LoginURL,
		KeyUserAgent:      s.UserAgent,
		KeyVersion:        s.RETSVersion,
		KeyAuth:           s.Auth,
		KeyTimeoutSeconds: s.Timeout,
		KeyLogLevel:       s.LogLevel,
		KeyDBDriver:       s.DBDriver,
		KeyDBDSN:          s.DBDSN,
		KeyDBRetries:      s.DBRetries,
		KeyObjectDir:      s.ObjectDir,
		KeyObjectTypes:    s.ObjectTypes,
	}
}

// TimeoutDuration is Timeout in seconds as a duration.
func (s Settings) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

func splitList(s string) []string {
	var list []string
	for _, entry := range strings.Split(s, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			list = append(list, entry)
		}
	}

	return list
}

// Validate checks the settings a session can't start without.
func (s Settings) Validate() error {
	if s.LoginURL == "" {
		return ErrMissingLoginURL
	}

	switch s.Auth {
	case "basic", "digest":
	default:
		return errors.Errorf("%s must be basic or digest, got %q", KeyAuth, s.Auth)
	}

	return nil
}
