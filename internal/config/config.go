// Package config reads the converter settings from the environment and an optional .env file
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/robotomize/gocyconv"
	"github.com/robotomize/gocyconv/label"
	"github.com/spf13/viper"
)

const (
	KeyAPIKey         = "EXCHANGE_API_KEY"
	KeyBase           = "GOCYCONV_BASE"
	KeyEndpoint       = "GOCYCONV_ENDPOINT"
	KeyFallback       = "GOCYCONV_FALLBACK"
	KeyRetryNum       = "GOCYCONV_RETRY_NUM"
	KeyRetryDuration  = "GOCYCONV_RETRY_DURATION"
	KeyRequestTimeout = "GOCYCONV_REQUEST_TIMEOUT"
)

const defaultEnvFile = ".env"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	APIKey         string
	Base           label.Symbol
	Endpoint       *url.URL
	Fallback       bool
	RetryNum       uint64
	RetryDuration  time.Duration
	RequestTimeout time.Duration
}

// Load reads the settings. Environment variables take precedence over the env files, which take precedence
// over defaults. Without files a .env in the working directory is read when it exists
func Load(files ...string) (Config, error) {
	v := viper.New()

	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyBase, gocyconv.DefaultBase.String())
	v.SetDefault(KeyEndpoint, "")
	v.SetDefault(KeyFallback, false)
	v.SetDefault(KeyRetryNum, gocyconv.DefaultRetryNum)
	v.SetDefault(KeyRetryDuration, gocyconv.DefaultRetryDuration)
	v.SetDefault(KeyRequestTimeout, gocyconv.DefaultRequestTimeout)

	env, err := readEnvFiles(files)
	if err != nil {
		return Config{}, err
	}

	for key, value := range env {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	var cfg Config

	cfg.APIKey = v.GetString(KeyAPIKey)

	cfg.Base, err = label.Parse(v.GetString(KeyBase))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, KeyBase, err)
	}

	if raw := v.GetString(KeyEndpoint); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Config{}, fmt.Errorf("%w: %s: %q is not an absolute url", ErrInvalidConfig, KeyEndpoint, raw)
		}
		cfg.Endpoint = u
	}

	cfg.Fallback = v.GetBool(KeyFallback)
	cfg.RetryNum = v.GetUint64(KeyRetryNum)

	cfg.RetryDuration = v.GetDuration(KeyRetryDuration)
	if cfg.RetryDuration <= 0 {
		return Config{}, fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyRetryDuration)
	}

	cfg.RequestTimeout = v.GetDuration(KeyRequestTimeout)
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyRequestTimeout)
	}

	return cfg, nil
}

// Options converts the settings to store options
func (c Config) Options() []gocyconv.Option {
	opts := []gocyconv.Option{
		gocyconv.WithBase(c.Base),
		gocyconv.WithRetryNum(c.RetryNum),
		gocyconv.WithRetryDuration(c.RetryDuration),
		gocyconv.WithRequestTimeout(c.RequestTimeout),
	}

	if c.APIKey != "" {
		opts = append(opts, gocyconv.WithAPIKey(c.APIKey))
	}

	if c.Endpoint != nil {
		opts = append(opts, gocyconv.WithEndpoint(*c.Endpoint))
	}

	if c.Fallback {
		opts = append(opts, gocyconv.WithFallbackSources())
	}

	return opts
}

// readEnvFiles does not touch the process environment
func readEnvFiles(files []string) (map[string]string, error) {
	if len(files) == 0 {
		env, err := godotenv.Read(defaultEnvFile)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, fmt.Errorf("read %s: %w", defaultEnvFile, err)
		}
		return env, nil
	}

	env, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("read env files: %w", err)
	}

	return env, nil
}
