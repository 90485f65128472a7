package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `yaml:"env" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Storage    Storage `yaml:"storage"`
	Session    Session `yaml:"session"`
	Metrics    Metrics `yaml:"metrics"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

// Storage selects the persistence collaborator. Driver is one of
// "file", "postgres", "redis".
type Storage struct {
	Driver      string `yaml:"driver" env-default:"file"`
	Path        string `yaml:"path" env-default:"./data/state.json"`
	PostgresDSN string `yaml:"postgres_dsn" env:"POSTGRES_DSN"`
	RedisAddr   string `yaml:"redis_addr" env-default:"localhost:6379"`
}

// Session carries the closed taxonomies: the ordered category list
// (drives slot sorting and category validation) and the role ranking
// (drives provider sort order only).
type Session struct {
	Categories []string `yaml:"categories" env-required:"true"`
	Roles      []string `yaml:"roles"`
}

type Metrics struct {
	Enabled     bool   `yaml:"enabled" env-default:"true"`
	Path        string `yaml:"path" env-default:"/metrics"`
	ServiceName string `yaml:"service_name" env-default:"gira-service"`
}

func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	return &cfg
}
