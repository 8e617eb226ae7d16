package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig HTTP/WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	DefaultGoal       int `yaml:"default_goal"`       // 默认胜利分数
	ShutdownWait      int `yaml:"shutdown_wait"`      // 优雅关闭等待（秒）
	ShutdownCheckTick int `yaml:"shutdown_check_tick"` // 关闭时轮询间隔（秒）
}

// CatalogConfig 卡牌目录配置
type CatalogConfig struct {
	CardsFile string `yaml:"cards_file"` // 卡牌 JSON 文件路径
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig 连接速率限制配置
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	BanDuration  int `yaml:"ban_duration"` // 封禁时长（分钟）
}

// ShutdownWaitDuration 返回优雅关闭等待时长
func (c *GameConfig) ShutdownWaitDuration() time.Duration {
	return time.Duration(c.ShutdownWait) * time.Second
}

// ShutdownCheckTickDuration 返回关闭轮询间隔
func (c *GameConfig) ShutdownCheckTickDuration() time.Duration {
	return time.Duration(c.ShutdownCheckTick) * time.Second
}

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Minute
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// 设置默认值
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 1780
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 1024
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.DefaultGoal == 0 {
		cfg.Game.DefaultGoal = 10
	}
	if cfg.Game.ShutdownWait == 0 {
		cfg.Game.ShutdownWait = 60
	}
	if cfg.Game.ShutdownCheckTick == 0 {
		cfg.Game.ShutdownCheckTick = 5
	}
	if cfg.Catalog.CardsFile == "" {
		cfg.Catalog.CardsFile = "configs/cards.json"
	}
	if cfg.Security.RateLimit.MaxPerSecond == 0 {
		cfg.Security.RateLimit.MaxPerSecond = 5
	}
	if cfg.Security.RateLimit.MaxPerMinute == 0 {
		cfg.Security.RateLimit.MaxPerMinute = 60
	}
	if cfg.Security.RateLimit.BanDuration == 0 {
		cfg.Security.RateLimit.BanDuration = 10
	}

	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           1780,
			MaxConnections: 1024,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Game: GameConfig{
			DefaultGoal:       10,
			ShutdownWait:      60,
			ShutdownCheckTick: 5,
		},
		Catalog: CatalogConfig{
			CardsFile: "configs/cards.json",
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				MaxPerSecond: 5,
				MaxPerMinute: 60,
				BanDuration:  10,
			},
		},
	}
}
