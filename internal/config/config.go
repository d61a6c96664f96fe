// Package config loads the settings of the httpc command: built-in defaults,
// then an optional YAML file, then HTTPC_ environment variables.
package config

import (
	"http-engine/application/http"
	"http-engine/application/http/actor/client"
	"http-engine/transport"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "HTTPC"

type Config struct {
	Request Request `yaml:"request"`
	Socket  Socket  `yaml:"socket"`
	TLS     TLS     `yaml:"tls"`
}

type Request struct {
	ConnectTimeout  time.Duration `yaml:"connect_timeout" split_words:"true"`
	TransferTimeout time.Duration `yaml:"transfer_timeout" split_words:"true"`
	FollowRedirects bool          `yaml:"follow_redirects" split_words:"true"`
	MaxRedirects    int           `yaml:"max_redirects" split_words:"true"`
	Compress        bool          `yaml:"compress" split_words:"true"`
	UserAgent       string        `yaml:"user_agent" split_words:"true"`
}

type Socket struct {
	PollInterval  time.Duration `yaml:"poll_interval" split_words:"true"`
	MaxLineLength uint          `yaml:"max_line_length" split_words:"true"`
}

type TLS struct {
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" split_words:"true"`
}

func DefaultConfig() *Config {
	return &Config{
		Request: Request{
			ConnectTimeout:  http.DefaultConnectTimeout,
			TransferTimeout: http.DefaultTransferTimeout,
			FollowRedirects: true,
			MaxRedirects:    http.DefaultMaxRedirects,
			Compress:        true,
			UserAgent:       client.DefaultUserAgent,
		},
		Socket: Socket{
			PollInterval:  transport.DefaultSocketOptions.PollInterval,
			MaxLineLength: transport.DefaultSocketOptions.MaxLineLength,
		},
	}
}

// Load reads the YAML file at path over the defaults, if path is not empty,
// and applies the environment on top. Variables are the field names split
// into words under the HTTPC_ prefix, e.g. HTTPC_INSECURE_SKIP_VERIFY.
// Unprefixed names are ignored.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading config file")
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parsing config file")
		}
	}

	// Only variables which are set override what is loaded so far.
	if err := envconfig.Process(EnvPrefix, &cfg.Request); err != nil {
		return nil, errors.Wrap(err, "loading environment")
	}
	if err := envconfig.Process(EnvPrefix, &cfg.Socket); err != nil {
		return nil, errors.Wrap(err, "loading environment")
	}
	if err := envconfig.Process(EnvPrefix, &cfg.TLS); err != nil {
		return nil, errors.Wrap(err, "loading environment")
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Request.MaxRedirects < 0 {
		return errors.New("request.max_redirects must not be negative")
	}
	if cfg.Request.UserAgent == "" {
		return errors.New("request.user_agent is required")
	}
	if cfg.Socket.PollInterval <= 0 {
		return errors.New("socket.poll_interval must be positive")
	}
	return nil
}

// RequestArgs returns the arguments of a request to url with the configured defaults.
func (c *Config) RequestArgs(url string, verb http.Verb) *http.RequestArgs {
	args := http.NewRequestArgs(url, verb)
	args.ConnectTimeout = c.Request.ConnectTimeout
	args.TransferTimeout = c.Request.TransferTimeout
	args.FollowRedirects = c.Request.FollowRedirects
	args.MaxRedirects = c.Request.MaxRedirects
	args.Compress = c.Request.Compress
	return args
}

func (c *Config) SocketOptions() transport.SocketOptions {
	opts := transport.DefaultSocketOptions
	opts.PollInterval = c.Socket.PollInterval
	opts.MaxLineLength = c.Socket.MaxLineLength
	return opts
}
