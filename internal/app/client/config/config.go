package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultLogLevel      = "info"
	defaultEnv           = "local"
	defaultConfigDir     = ".coachfit"
)

type Config struct {
	Env           string `mapstructure:"app_env"`
	ServerAddress string `mapstructure:"server_address"`
	LogLevel      string `mapstructure:"log_level"`
	ConfigDir     string `mapstructure:"config_dir"`
	TokenPath     string `mapstructure:"token_path"`
	QueueDBPath   string `mapstructure:"queue_db_path"`

	// Очередь отложенных действий
	MaxRetries int `mapstructure:"queue_max_retries"`

	// Realtime-канал
	ReconnectBase    time.Duration `mapstructure:"reconnect_base"`
	MaxReconnects    int           `mapstructure:"max_reconnects"`
	KeepaliveEvery   time.Duration `mapstructure:"keepalive_every"`
	NetProbeInterval time.Duration `mapstructure:"net_probe_interval"`

	EnableTLS  bool   `mapstructure:"enable_tls"`
	CACertPath string `mapstructure:"ca_cert_path"`
}

// MustLoad загружает конфигурацию клиента
func MustLoad() *Config {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Пробуем найти .env в родительской директории
		envPath = "../.env"
	}

	// Загружаем .env файл если существует
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	// Устанавливаем значения по умолчанию
	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("QUEUE_MAX_RETRIES", 3)
	viper.SetDefault("RECONNECT_BASE_MS", 1000)
	viper.SetDefault("MAX_RECONNECTS", 5)
	viper.SetDefault("KEEPALIVE_SECONDS", 30)
	viper.SetDefault("NET_PROBE_SECONDS", 10)
	viper.SetDefault("ENABLE_TLS", false)

	// Получаем домашнюю директорию пользователя
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	// Вычисляем пути для хранения данных
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	// Создаем директории если их нет
	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("Ошибка создания директории конфигурации: %v\n", err)
	}

	tokenPath := filepath.Join(configDir, "token")
	queueDBPath := filepath.Join(configDir, "queue.db")

	config := &Config{
		Env:              viper.GetString("APP_ENV"),
		ServerAddress:    viper.GetString("SERVER_ADDRESS"),
		LogLevel:         viper.GetString("LOG_LEVEL"),
		ConfigDir:        configDir,
		TokenPath:        tokenPath,
		QueueDBPath:      queueDBPath,
		MaxRetries:       viper.GetInt("QUEUE_MAX_RETRIES"),
		ReconnectBase:    time.Duration(viper.GetInt("RECONNECT_BASE_MS")) * time.Millisecond,
		MaxReconnects:    viper.GetInt("MAX_RECONNECTS"),
		KeepaliveEvery:   time.Duration(viper.GetInt("KEEPALIVE_SECONDS")) * time.Second,
		NetProbeInterval: time.Duration(viper.GetInt("NET_PROBE_SECONDS")) * time.Second,
		EnableTLS:        viper.GetBool("ENABLE_TLS"),
		CACertPath:       viper.GetString("CA_CERT_PATH"),
	}

	// Валидация конфигурации
	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}

	return config
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address не может быть пустым")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("queue_max_retries должен быть положительным")
	}
	if c.ReconnectBase <= 0 {
		return fmt.Errorf("reconnect_base должен быть положительным")
	}
	return nil
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsDev проверяет, dev ли окружение
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
