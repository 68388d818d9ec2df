package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode   string `mapstructure:"mode" validate:"oneof=debug release test"`
	Port   int    `mapstructure:"port" validate:"min=1,max=65535"`
	Key    string `mapstructure:"key" validate:"required,alphanum"`
	Secret string `mapstructure:"secret" validate:"required"`

	ReadLimit        int64         `mapstructure:"read_limit" validate:"min=512"`
	PingPeriod       time.Duration `mapstructure:"ping_period" validate:"gt=0,ltfield=HeartbeatTimeout"`
	HeartbeatTimeout time.Duration `mapstructure:"heartbeat_timeout" validate:"gt=0"`
	ReapInterval     time.Duration `mapstructure:"reap_interval" validate:"gte=0"`
	SendBuffer       int           `mapstructure:"send_buffer" validate:"min=1"`
	MaxIDAttempts    int           `mapstructure:"max_id_attempts" validate:"min=1"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`

	AllowedOrigins []string `mapstructure:"allowed_origins"`
	ICEServers     []string `mapstructure:"ice_servers" validate:"dive,required"`

	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst      int     `mapstructure:"rate_burst" validate:"gte=0"`
	SlowPeerPolicy string  `mapstructure:"slow_peer_policy" validate:"oneof=drop kick"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 9000)
	v.SetDefault("key", "pinto")
	v.SetDefault("secret", "pinto-dev-secret")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "27s")
	v.SetDefault("heartbeat_timeout", "60s")
	v.SetDefault("reap_interval", "10s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("max_id_attempts", 8)
	v.SetDefault("shutdown_timeout", "5s")
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("ice_servers", []string{"stun:stun.l.google.com:19302"})
	v.SetDefault("rate_limit", 20)
	v.SetDefault("rate_burst", 40)
	v.SetDefault("slow_peer_policy", "drop")
}

// Load reads config/config.<CONFIG_ENV>.yaml, then the environment.
// PORT and KEY are honoured bare; everything else as PINTO_<KEY>.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("module", "config").Msg("failed to read .env")
	}

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("pinto")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("port", "PINTO_PORT", "PORT")
	_ = v.BindEnv("key", "PINTO_KEY", "KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("key", cfg.Key).Msg("config ready")
	return &cfg, nil
}
