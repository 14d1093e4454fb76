package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Database
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EmailConfig struct {
	SMTPHost    string `mapstructure:"smtp_host"`
	SMTPPort    int    `mapstructure:"smtp_port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// WayForPayConfig holds WayForPay merchant credentials. The secret key signs
// outgoing payment forms and verifies incoming webhook signatures.
type WayForPayConfig struct {
	MerchantAccount string `mapstructure:"merchant_account"`
	MerchantDomain  string `mapstructure:"merchant_domain"`
	SecretKey       string `mapstructure:"secret_key"`
	APIURL          string `mapstructure:"api_url"`
}

type FondyConfig struct {
	MerchantID string `mapstructure:"merchant_id"`
	SecretKey  string `mapstructure:"secret_key"`
	APIURL     string `mapstructure:"api_url"`
}

type PaymentConfig struct {
	DefaultProvider string          `mapstructure:"default_provider"`
	WayForPay       WayForPayConfig `mapstructure:"wayforpay"`
	Fondy           FondyConfig     `mapstructure:"fondy"`
}

// SubscriptionConfig controls the expiration scheduler.
// GracePeriodDays only applies to auto-renew subscriptions: they stay active
// that many days past the billing date so an out-of-band billing retry can
// still succeed.
type SubscriptionConfig struct {
	GracePeriodDays     int `mapstructure:"grace_period_days"`
	ExpireIntervalHours int `mapstructure:"expire_interval_hours"`
	ReminderDays        int `mapstructure:"reminder_days"`
}

type AppConfig struct {
	Timezone string `mapstructure:"timezone"`
}
