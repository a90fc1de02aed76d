package conf

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

const defaultMaxAttempts = 1000

var (
	configValidator = newConfigValidator()
	numberRegex     = regexp.MustCompile(`^\d+$`)
)

type Config struct {
	HTTPServConf HttpServConf `json:"httpServer" validate:"required"`
	DBConf       DbConf       `json:"dataBase" validate:"required"`
	DrawConf     DrawConf     `json:"draw"`
	MetricsConf  MetricsConf  `json:"metrics"`
}

type HttpServConf struct {
	Host    string `json:"host" env:"HTTP_HOST" validate:"required"`
	Port    string `json:"port" env:"HTTP_PORT" validate:"required,is-number"`
	BaseURL string `json:"baseURL" env:"HTTP_BASE_URL"`
}

// GetAddress возвращает строку host:port для запуска HTTP-сервера.
func (s *HttpServConf) GetAddress() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type DbConf struct {
	Host     string `json:"host" env:"DB_HOST" validate:"required"`
	Port     string `json:"port" env:"DB_PORT" validate:"required,is-number"`
	User     string `json:"user" env:"DB_USER" validate:"required"`
	Password string `json:"password" env:"DB_PASSWORD" validate:"required"`
	Name     string `json:"name" env:"DB_NAME" validate:"required"`
	MaxConns int    `json:"maxConns" env:"DB_MAX_CONNS" validate:"min=0"`
	SSLMode  string `json:"sslMode" env:"DB_SSLMODE"`
}

// ConnString собирает DSN для pgx; логин и пароль экранируются.
func (c *DbConf) ConnString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

// DrawConf задаёт параметры жеребьёвки.
type DrawConf struct {
	// MaxAttempts бюджет перемешиваний на каждый уровень ограничений.
	MaxAttempts int `json:"maxAttempts" env:"DRAW_MAX_ATTEMPTS" validate:"min=1"`
}

type MetricsConf struct {
	Enabled   bool   `json:"enabled" env:"METRICS_ENABLED"`
	Namespace string `json:"namespace" env:"METRICS_NAMESPACE"`
}

// Load читает файл конфигурации, применяет значения из окружения и валидирует структуру.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}

	// Незаданные переменные окружения оставляют значения из файла.
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("could not apply env overrides: %w", err)
	}

	if cfg.DrawConf.MaxAttempts == 0 {
		cfg.DrawConf.MaxAttempts = defaultMaxAttempts
	}

	if err := configValidator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad работает как Load, но паникует при ошибке; используется при старте процесса.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// newConfigValidator настраивает валидатор и регистрирует пользовательские проверки.
func newConfigValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("is-number", func(fl validator.FieldLevel) bool {
		return numberRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic("failed to register is-number validation: " + err.Error())
	}
	return v
}
