package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := load(viper.New())
	req.NoError(err)

	req.Equal(9000, cfg.Port)
	req.Equal("pinto", cfg.Key)
	req.Equal(60*time.Second, cfg.HeartbeatTimeout)
	req.Equal(27*time.Second, cfg.PingPeriod)
	req.Equal([]string{"stun:stun.l.google.com:19302"}, cfg.ICEServers)
	req.Empty(cfg.AllowedOrigins)
	req.Equal("drop", cfg.SlowPeerPolicy)
}

func TestLoad_EnvOverrides(t *testing.T) {
	req := require.New(t)
	t.Setenv("PORT", "7000")
	t.Setenv("KEY", "peerjs")
	t.Setenv("PINTO_SLOW_PEER_POLICY", "kick")
	t.Setenv("PINTO_HEARTBEAT_TIMEOUT", "90s")

	cfg, err := load(viper.New())
	req.NoError(err)

	req.Equal(7000, cfg.Port)
	req.Equal("peerjs", cfg.Key)
	req.Equal("kick", cfg.SlowPeerPolicy)
	req.Equal(90*time.Second, cfg.HeartbeatTimeout)
}

func TestLoad_File(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "config.test.yaml")
	req.NoError(os.WriteFile(file, []byte(`
mode: test
port: 9100
allowed_origins:
  - https://www.pintopinto.org
  - http://localhost:5000
ping_period: 5s
heartbeat_timeout: 15s
`), 0o600))

	v := viper.New()
	v.SetConfigFile(file)
	req.NoError(v.ReadInConfig())

	cfg, err := load(v)
	req.NoError(err)
	req.Equal("test", cfg.Mode)
	req.Equal(9100, cfg.Port)
	req.Equal([]string{"https://www.pintopinto.org", "http://localhost:5000"}, cfg.AllowedOrigins)
	req.Equal(5*time.Second, cfg.PingPeriod)
}

func TestLoad_Invalid(t *testing.T) {
	req := require.New(t)

	t.Setenv("PINTO_SLOW_PEER_POLICY", "ignore")
	_, err := load(viper.New())
	req.ErrorContains(err, "invalid config")

	t.Setenv("PINTO_SLOW_PEER_POLICY", "drop")
	t.Setenv("PINTO_PING_PERIOD", "2m")
	_, err = load(viper.New())
	req.ErrorContains(err, "PingPeriod")
}
