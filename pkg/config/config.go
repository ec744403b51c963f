package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gethubai/openai-brain/pkg/settings"
)

// AppConfig — корневая структура конфигурации dev-инструментов.
// Она зеркалит структуру config.yaml.
//
// Сам brain получает settings.ProviderSettings от хоста на каждый вызов;
// файл конфигурации нужен только локальному dev-серверу и TUI-клиенту.
type AppConfig struct {
	Provider settings.ProviderSettings `yaml:"provider"`
	Server   ServerConfig              `yaml:"server"`
	Journal  JournalConfig             `yaml:"journal"`
	Archive  ArchiveConfig             `yaml:"archive"`
}

// ServerConfig — настройки локального dev-сервера.
type ServerConfig struct {
	Addr string `yaml:"addr"` // Например ":8080"
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *ServerConfig) GetDefaults() ServerConfig {
	result := *c

	if result.Addr == "" {
		result.Addr = ":8080"
	}

	return result
}

// JournalConfig — настройки sqlite журнала вызовов.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // Путь к .db файлу
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *JournalConfig) GetDefaults() JournalConfig {
	result := *c

	if result.Path == "" {
		result.Path = "openai-brain.db"
	}

	return result
}

// ArchiveConfig — настройки S3-архива сгенерированных изображений.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey string `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL    bool   `yaml:"use_ssl"`
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	// 4. Парсим YAML в структуру
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	// 5. Применяем дефолты
	cfg.Provider = cfg.Provider.GetDefaults()
	cfg.Server = cfg.Server.GetDefaults()
	cfg.Journal = cfg.Journal.GetDefaults()

	// 6. Валидируем критические настройки
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if c.Archive.Enabled {
		if c.Archive.Bucket == "" {
			return fmt.Errorf("archive.bucket is required when archive is enabled")
		}
		if c.Archive.Endpoint == "" {
			return fmt.Errorf("archive.endpoint is required when archive is enabled")
		}
	}
	return nil
}
