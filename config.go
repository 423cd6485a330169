package fastagi

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the server's ambient settings. None of it is intrinsic to
// the wire protocol itself, but every embedding application needs a logger
// and a read buffer size, so the framework offers a small functional-options
// surface instead of making callers hand-roll one.
type Config struct {
	Logger         *zap.Logger
	ReadBufferSize int
}

// Option configures a Config.
type Option func(*Config)

// WithLogger attaches a logger. The default is a no-op logger so embedding
// applications opt in explicitly.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithReadBufferSize overrides the per-connection scratch read buffer
// (≈2 KiB is the default).
func WithReadBufferSize(size int) Option {
	return func(c *Config) { c.ReadBufferSize = size }
}

func defaultConfig() *Config {
	return &Config{
		Logger:         zap.NewNop(),
		ReadBufferSize: defaultReadBufferSize,
	}
}

// NewConfig builds a Config from the given options, applied in order over
// the default.
func NewConfig(opts ...Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// envPrefix namespaces every environment variable LoadConfigFromEnv reads.
const envPrefix = "FASTAGI"

// LoadConfigFromEnv builds a Config from environment variables
// (FASTAGI_READ_BUFFER_SIZE) using viper, the configuration pattern used
// throughout the retrieved corpus's AGI/ARI-adjacent services for small
// service configuration. It builds a production zap logger unconditionally;
// callers wanting a different logger should use NewConfig with WithLogger
// instead.
func LoadConfigFromEnv() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetDefault("read_buffer_size", defaultReadBufferSize)

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("fastagi: building production logger: %w", err)
	}

	return &Config{
		Logger:         logger,
		ReadBufferSize: v.GetInt("read_buffer_size"),
	}, nil
}
