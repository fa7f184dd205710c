package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrPasswordNotConfigured = errors.New("SitePassword must be configured in the config file or as environment variable")

type Config struct {
	Debug      bool   `yaml:"Debug" env:"DEBUG"`
	Port       string `yaml:"Port" env:"PORT"`
	MetricPort string `yaml:"MetricPort" env:"METRIC_PORT"`
	Domain     string `yaml:"Domain" env:"DOMAIN"`
	StaticDir  string `yaml:"StaticDir" env:"STATIC_DIR"`

	// TrustedProxies адреса или CIDR обратных прокси, которым разрешено
	// передавать адрес клиента в X-Forwarded-For. Пусто: берётся адрес соединения.
	TrustedProxies []string `yaml:"TrustedProxies" env:"TRUSTED_PROXIES" envSeparator:","`

	SitePassword       string        `yaml:"SitePassword" env:"SitePassword"`
	SessionIdleTimeout time.Duration `yaml:"SessionIdleTimeout" env:"SESSION_IDLE_TIMEOUT"`

	Database DatabaseConfig `yaml:"ConnectionStrings"`
	Redis    RedisConfig    `yaml:"Redis"`
}

// TrustedProxyNets разбирает TrustedProxies. Одиночный адрес становится сетью /32 или /128.
func (c *Config) TrustedProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(c.TrustedProxies))

	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		if !strings.Contains(raw, "/") {
			ip := net.ParseIP(raw)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", raw)
			}

			bits := 128
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 32
			}

			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}

		_, ipNet, err := net.ParseCIDR(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
		}

		nets = append(nets, ipNet)
	}

	return nets, nil
}

type DatabaseConfig struct {
	// DefaultConnection имеет приоритет над URL
	DefaultConnection string `yaml:"DefaultConnection" env:"ConnectionStrings__DefaultConnection"`
	URL               string `yaml:"-" env:"DATABASE_URL"`
}

// ConnectionString возвращает строку подключения в формате pgx.
// Пустая строка означает хранение комнат в памяти.
func (d *DatabaseConfig) ConnectionString() (string, error) {
	raw := d.DefaultConnection
	if raw == "" {
		raw = d.URL
	}

	if raw == "" {
		return "", nil
	}

	return ToKeyValueDSN(raw)
}

type RedisConfig struct {
	Addr     string `yaml:"Addr" env:"REDIS_ADDR"`
	Password string `yaml:"Password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"DB" env:"REDIS_DB"`
}

func (r *RedisConfig) Enabled() bool {
	return r.Addr != ""
}

func defaults() Config {
	return Config{
		Port:               "3000",
		MetricPort:         "9090",
		Domain:             "http://localhost:3000",
		StaticDir:          "web",
		SessionIdleTimeout: 24 * time.Hour,
	}
}

// New собирает конфигурацию: значения по умолчанию, затем YAML-файл path
// (если задан), затем .env и переменные окружения.
func New(path string) (*Config, error) {
	c := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// .env не обязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if c.SitePassword == "" {
		return nil, ErrPasswordNotConfigured
	}

	if c.SessionIdleTimeout <= 0 {
		return nil, fmt.Errorf("session idle timeout must be positive, got %s", c.SessionIdleTimeout)
	}

	if _, err := c.TrustedProxyNets(); err != nil {
		return nil, err
	}

	return &c, nil
}
