// Package config читает конфигурацию сервисов из переменных окружения.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Значения по умолчанию.
const (
	DefaultAPIPort            = "8080"
	DefaultCatalogRefreshCron = "*/5 * * * *"
	DefaultSessionLimit       = 1000
)

// Config — конфигурация modeler-api.
type Config struct {
	// APIPort — порт HTTP сервера (API_PORT).
	APIPort string

	// DBURL — строка подключения к PostgreSQL (DB_URL).
	// Пусто — каталог не хранится в базе, импорт flows недоступен.
	DBURL string

	// CatalogFile — путь к YAML каталогу (CATALOG_FILE).
	CatalogFile string

	// CatalogRefreshCron — расписание перезагрузки каталога из PostgreSQL
	// (CATALOG_REFRESH_CRON).
	CatalogRefreshCron string

	// AMQPURL — адрес RabbitMQ (AMQP_URL). Пусто — события отключены.
	AMQPURL string

	// SessionLimit — максимальное число открытых сессий (SESSION_LIMIT).
	SessionLimit int
}

// FromEnv читает Config из переменных окружения.
func FromEnv() (Config, error) {
	cfg := Config{
		APIPort:            getenv("API_PORT", DefaultAPIPort),
		DBURL:              os.Getenv("DB_URL"),
		CatalogFile:        os.Getenv("CATALOG_FILE"),
		CatalogRefreshCron: getenv("CATALOG_REFRESH_CRON", DefaultCatalogRefreshCron),
		AMQPURL:            os.Getenv("AMQP_URL"),
		SessionLimit:       DefaultSessionLimit,
	}

	if v := os.Getenv("SESSION_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid SESSION_LIMIT %q", v)
		}
		cfg.SessionLimit = n
	}

	return cfg, nil
}

// Addr возвращает адрес для http.Server.
func (c Config) Addr() string {
	return ":" + c.APIPort
}

// CatalogSource возвращает имя источника каталога: "postgres", "file" или "example".
// PostgreSQL имеет приоритет над файлом.
func (c Config) CatalogSource() string {
	switch {
	case c.DBURL != "":
		return "postgres"
	case c.CatalogFile != "":
		return "file"
	default:
		return "example"
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
