package config

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"bombarena/pkg/core"

	"github.com/spf13/viper"
)

// Config 服务端与对局的全部配置
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Transport TransportConfig `mapstructure:"transport"`
	DB        DBConfig        `mapstructure:"db"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Game      GameConfig      `mapstructure:"game"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HTTPConfig struct {
	Port      int     `mapstructure:"port"`
	RateLimit float64 `mapstructure:"rateLimit"` // 每个 WebSocket 连接每秒消息数
	Burst     int     `mapstructure:"burst"`
}

type TransportConfig struct {
	Proto string `mapstructure:"proto"` // tcp 或 kcp
	Addr  string `mapstructure:"addr"`
}

// DBConfig driver 为 sqlite 或 postgres；sqlite 的 path 为空时使用内存库
type DBConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type GameConfig struct {
	TileSize          int           `mapstructure:"tileSize"`
	Fuse              time.Duration `mapstructure:"fuse"`
	OwnerPoll         time.Duration `mapstructure:"ownerPoll"`
	ExplosionDuration time.Duration `mapstructure:"explosionDuration"`
	DeathPoseDelay    time.Duration `mapstructure:"deathPoseDelay"`
	DeathRemoveDelay  time.Duration `mapstructure:"deathRemoveDelay"`
	Seed              int64         `mapstructure:"seed"` // 0 表示按时间取种子
	Crates            CrateConfig   `mapstructure:"crates"`
	Player            PlayerConfig  `mapstructure:"player"`
	Drops             DropConfig    `mapstructure:"drops"`
}

type CrateConfig struct {
	Max         int     `mapstructure:"max"`
	Probability float64 `mapstructure:"probability"`
}

type PlayerConfig struct {
	Speed        float64 `mapstructure:"speed"`
	SpeedStep    float64 `mapstructure:"speedStep"`
	BombCapacity int     `mapstructure:"bombCapacity"`
	BlastRadius  int     `mapstructure:"blastRadius"`
}

type DropConfig struct {
	None         float64 `mapstructure:"none"`
	BombCapacity float64 `mapstructure:"bombCapacity"`
	Radius       float64 `mapstructure:"radius"`
	Speed        float64 `mapstructure:"speed"`
}

// EnvPrefix 环境变量前缀，如 BOMBARENA_LOG_LEVEL
const EnvPrefix = "BOMBARENA"

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("http.port", 3000)
	v.SetDefault("http.rateLimit", 20)
	v.SetDefault("http.burst", 40)

	v.SetDefault("transport.proto", "tcp")
	v.SetDefault("transport.addr", ":9000")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "")
	v.SetDefault("db.dsn", "")

	v.SetDefault("jwt.secret", "bombarena-dev-secret")
	v.SetDefault("jwt.ttl", "30m")

	v.SetDefault("game.tileSize", core.DefaultTileSize)
	v.SetDefault("game.fuse", core.DefaultFuse.String())
	v.SetDefault("game.ownerPoll", core.DefaultOwnerPoll.String())
	v.SetDefault("game.explosionDuration", core.DefaultExplosionDuration.String())
	v.SetDefault("game.deathPoseDelay", core.DefaultDeathPoseDelay.String())
	v.SetDefault("game.deathRemoveDelay", core.DefaultDeathRemoveDelay.String())
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.crates.max", core.DefaultCrateMax)
	v.SetDefault("game.crates.probability", core.DefaultCrateChance)
	v.SetDefault("game.player.speed", core.DefaultPlayerSpeed)
	v.SetDefault("game.player.speedStep", core.DefaultSpeedStep)
	v.SetDefault("game.player.bombCapacity", core.DefaultBombCapacity)
	v.SetDefault("game.player.blastRadius", core.DefaultBlastRadius)

	for _, e := range core.DefaultDrops {
		v.SetDefault("game.drops."+dropKey(e.Kind), e.Probability)
	}
}

func dropKey(kind core.DropKind) string {
	switch kind {
	case core.DropBombCapacity:
		return "bombCapacity"
	case core.DropRadius:
		return "radius"
	case core.DropSpeed:
		return "speed"
	}
	return "none"
}

// Load 读取配置：默认值 -> 可选配置文件（path 为空时跳过）-> 环境变量。
// 同时兼容 PORT 和 JWT_SECRET
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("http.port", EnvPrefix+"_HTTP_PORT", "PORT"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("jwt.secret", EnvPrefix+"_JWT_SECRET", "JWT_SECRET"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var ErrInvalidConfig = errors.New("配置无效")

// Validate 校验服务端配置和对局规则
func (c *Config) Validate() error {
	switch c.Transport.Proto {
	case "tcp", "kcp":
	default:
		return fmt.Errorf("%w: 未知传输协议 %q", ErrInvalidConfig, c.Transport.Proto)
	}
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: 未知数据库驱动 %q", ErrInvalidConfig, c.DB.Driver)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: 端口 %d", ErrInvalidConfig, c.HTTP.Port)
	}
	if c.JWT.Secret == "" || c.JWT.TTL <= 0 {
		return fmt.Errorf("%w: jwt", ErrInvalidConfig)
	}
	_, err := c.Rules()
	return err
}

// Rules 将对局配置转换为 core.Rules，配置错误时直接失败
func (c *Config) Rules() (core.Rules, error) {
	g := c.Game
	stats, err := core.NewStats(g.Player.BombCapacity, g.Player.BlastRadius, g.Player.Speed)
	if err != nil {
		return core.Rules{}, err
	}
	rules := core.Rules{
		TileSize:          g.TileSize,
		Fuse:              g.Fuse,
		OwnerPoll:         g.OwnerPoll,
		ExplosionDuration: g.ExplosionDuration,
		DeathPoseDelay:    g.DeathPoseDelay,
		DeathRemoveDelay:  g.DeathRemoveDelay,
		CrateMax:          g.Crates.Max,
		CrateProbability:  g.Crates.Probability,
		Stats:             stats,
		SpeedStep:         g.Player.SpeedStep,
		Drops: []core.DropEntry{
			{Kind: core.DropNone, Probability: g.Drops.None},
			{Kind: core.DropBombCapacity, Probability: g.Drops.BombCapacity},
			{Kind: core.DropRadius, Probability: g.Drops.Radius},
			{Kind: core.DropSpeed, Probability: g.Drops.Speed},
		},
	}
	if err := rules.Validate(); err != nil {
		return core.Rules{}, err
	}
	return rules, nil
}

// Rand 对局随机源；Seed 为 0 时按当前时间
func (c *Config) Rand() *rand.Rand {
	seed := c.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
