package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bombarena/pkg/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "tcp", cfg.Transport.Proto)
	assert.Equal(t, ":9000", cfg.Transport.Addr)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "", cfg.DB.Path)
	assert.Equal(t, 30*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, 2*time.Second, cfg.Game.Fuse)

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, core.DefaultRules(), rules)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bombarena.json")
	cfg := `{
		"log": { "level": "debug", "format": "json" },
		"transport": { "proto": "kcp", "addr": ":7777" },
		"game": {
			"fuse": "3s",
			"player": { "blastRadius": 2, "speed": 120 },
			"drops": { "none": 0.25, "bombCapacity": 0.25, "radius": 0.25, "speed": 0.25 }
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", got.Log.Level)
	assert.Equal(t, "json", got.Log.Format)
	assert.Equal(t, "kcp", got.Transport.Proto)

	rules, err := got.Rules()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, rules.Fuse)
	assert.Equal(t, 2, rules.Stats.BlastRadius)
	assert.Equal(t, 120.0, rules.Stats.Speed)
	assert.Equal(t, 0.25, rules.Drops[0].Probability)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("BOMBARENA_GAME_CRATES_MAX", "12")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 12, cfg.Game.Crates.Max)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/bombarena.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "读取配置文件失败")
}

func TestLoad_InvalidDropTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"game":{"drops":{"none":0.9}}}`), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, core.ErrInvalidDropTable)
}

func TestLoad_InvalidTransport(t *testing.T) {
	t.Setenv("BOMBARENA_TRANSPORT_PROTO", "udp")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_RandSeeded(t *testing.T) {
	cfg := &Config{Game: GameConfig{Seed: 42}}
	assert.Equal(t, cfg.Rand().Float64(), cfg.Rand().Float64())
}
