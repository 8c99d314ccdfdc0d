package config

import (
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/subosito/gotenv"
)

// DotenvConfig loads a dotenv file into the environment and then reads keys
// from the environment, so variables already set win over the file.
type DotenvConfig struct {
	lookup
	DotenvPath string
}

func NewDotenvConfig(path string) *DotenvConfig {
	return &DotenvConfig{lookup: lookup{get: os.Getenv}, DotenvPath: path}
}

func (c *DotenvConfig) LoadFromPath(path string) error {
	c.DotenvPath = path
	return c.Load()
}

// Load reads DotenvPath. A missing file is not an error, settings can come
// from the environment alone.
func (c *DotenvConfig) Load() error {
	path, err := homedir.Expand(c.DotenvPath)
	if err != nil {
		return errors.Wrapf(err, "bad dotenv path %s", c.DotenvPath)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := gotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed loading %s", path)
	}

	return nil
}

func (c *DotenvConfig) GetKey(key string) string {
	return os.Getenv(key)
}
