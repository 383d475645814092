// Package config загрузка конфигурации сервиса из TOML файла
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
)

// Config корневая конфигурация сервиса
type Config struct {
	Server              ServerConfig       `toml:"server"`
	Database            DatabaseConfig     `toml:"database"`
	Logs                LogsConfig         `toml:"logs"`
	Metrics             MetricsConfig      `toml:"metrics"`
	CatalogService      IntegrationConfig  `toml:"catalog_service"`
	AvailabilityService IntegrationConfig  `toml:"availability_service"`
	Notifier            NotifierConfig     `toml:"notifier"`
	Policy              PolicyConfig       `toml:"policy"`
}

// ServerConfig настройки HTTP сервера (секунды)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // seconds
}

// DSN собирает строку подключения lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// IntegrationConfig настройки HTTP клиента интеграции
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // seconds
}

// NotifierConfig настройки публикации событий
type NotifierConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"` // amqp://...
	Exchange string `toml:"exchange"`
}

// PolicyConfig дефолтные значения политики бронирования
// Используются, когда ни каталог услуг, ни override ментора не задают значение
type PolicyConfig struct {
	MinLeadHours             int  `toml:"min_lead_hours"`
	MaxAdvanceDays           int  `toml:"max_advance_days"`
	MaxReschedules           int  `toml:"max_reschedules"`
	CancellationWindowHours  int  `toml:"cancellation_window_hours"`
	LateCancelAsNoShow       bool `toml:"late_cancel_as_no_show"`
	DuplicateCooldownMinutes int  `toml:"duplicate_cooldown_minutes"`
	StrictCompletion         bool `toml:"strict_completion"`
}

// Defaults возвращает BookingPolicy из секции [policy]
func (p PolicyConfig) Defaults() domain.BookingPolicy {
	return domain.BookingPolicy{
		MinLeadHours:             p.MinLeadHours,
		MaxAdvanceDays:           p.MaxAdvanceDays,
		MaxReschedules:           p.MaxReschedules,
		CancellationWindowHours:  p.CancellationWindowHours,
		LateCancelAsNoShow:       p.LateCancelAsNoShow,
		DuplicateCooldownMinutes: p.DuplicateCooldownMinutes,
		StrictCompletion:         p.StrictCompletion,
	}
}

// Load читает конфигурацию из TOML файла и применяет дефолты
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
		Policy: PolicyConfig{
			MinLeadHours:             domain.DefaultMinLeadHours,
			MaxAdvanceDays:           domain.DefaultMaxAdvanceDays,
			MaxReschedules:           domain.DefaultMaxReschedules,
			CancellationWindowHours:  domain.DefaultCancellationWindowHours,
			DuplicateCooldownMinutes: domain.DefaultDuplicateCooldownMinutes,
			StrictCompletion:         true,
		},
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %q: %w", path, err)
	}

	return cfg, nil
}
