package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Session   SessionConfig
	Quiz      QuizConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	WebSocket WebSocketConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт).
	// Для 'single', если не пуст, используется первый адрес из списка.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Адрес для режима 'single', если Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс
}

// JWTConfig содержит настройки токенов администратора
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expirationHrs"`
	Issuer        string `mapstructure:"issuer"`
}

// SessionConfig содержит настройки cookie игровой сессии
type SessionConfig struct {
	CookieName string `mapstructure:"cookieName"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
	Secure     bool   `mapstructure:"secure"`
}

// MaxAge возвращает время жизни cookie в секундах
func (s SessionConfig) MaxAge() int {
	return s.MaxAgeDays * 24 * int(time.Hour/time.Second)
}

// QuizConfig содержит правила валидации викторин
type QuizConfig struct {
	// ChoicesPerQuiz: точное число вариантов ответа. 0 отключает проверку количества.
	ChoicesPerQuiz int `mapstructure:"choicesPerQuiz"`
}

// AdminConfig содержит параметры начального заполнения
type AdminConfig struct {
	SeedUsername   string `mapstructure:"seedUsername"`
	SeedPassword   string `mapstructure:"seedPassword"`
	SeedSampleData bool   `mapstructure:"seedSampleData"`
}

// RateLimitConfig содержит лимиты для входа администратора
type RateLimitConfig struct {
	LoginMaxRequests int `mapstructure:"loginMaxRequests"`
	LoginWindowSec   int `mapstructure:"loginWindowSec"`
}

// CORSConfig содержит список разрешённых источников
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allowOrigins"`
}

// WebSocketConfig содержит настройки ленты попыток для администраторов
type WebSocketConfig struct {
	ClusterEnabled bool   `mapstructure:"clusterEnabled"`
	Channel        string `mapstructure:"channel"`
	InstanceID     string `mapstructure:"instanceId"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL формирует URL подключения для golang-migrate
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readTimeout", 10)
	vip.SetDefault("server.writeTimeout", 10)
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("redis.addr", "localhost:6379")
	vip.SetDefault("jwt.expirationHrs", 24)
	vip.SetDefault("jwt.issuer", "quiz-api")
	vip.SetDefault("session.cookieName", "sessionId")
	vip.SetDefault("session.maxAgeDays", 7)
	vip.SetDefault("quiz.choicesPerQuiz", 4)
	vip.SetDefault("admin.seedUsername", "admin")
	vip.SetDefault("admin.seedPassword", "password")
	vip.SetDefault("admin.seedSampleData", true)
	vip.SetDefault("rateLimit.loginMaxRequests", 10)
	vip.SetDefault("rateLimit.loginWindowSec", 60)
	vip.SetDefault("cors.allowOrigins", []string{"*"})
	vip.SetDefault("websocket.channel", "quiz:attempts")
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New()

	// 1. Значения по умолчанию
	setDefaults(vip)

	// 2. Привязываем переменные окружения ЯВНО
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")
	vip.BindEnv("jwt.issuer", "JWT_ISSUER")

	vip.BindEnv("session.secure", "SESSION_SECURE")
	vip.BindEnv("quiz.choicesPerQuiz", "QUIZ_CHOICESPERQUIZ")

	vip.BindEnv("admin.seedUsername", "ADMIN_SEEDUSERNAME")
	vip.BindEnv("admin.seedPassword", "ADMIN_SEEDPASSWORD")
	vip.BindEnv("admin.seedSampleData", "ADMIN_SEEDSAMPLEDATA")

	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("websocket.clusterEnabled", "WEBSOCKET_CLUSTER_ENABLED")
	vip.BindEnv("websocket.instanceId", "WEBSOCKET_INSTANCE_ID")

	// 3. Файл конфигурации (не страшно, если его нет, т.к. есть BindEnv)
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Mode: %s, Addr: %s", cfg.Redis.Mode, cfg.Redis.Addr)
		log.Printf("JWT Expiration Hours: %d, Issuer: %s", cfg.JWT.ExpirationHrs, cfg.JWT.Issuer)
		log.Printf("Choices per quiz: %d", cfg.Quiz.ChoicesPerQuiz)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Websocket Cluster Enabled: %t", cfg.WebSocket.ClusterEnabled)
		log.Printf("-----------------------------------------")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}
	if c.JWT.ExpirationHrs <= 0 {
		return fmt.Errorf("jwt.expirationHrs must be positive, got %d", c.JWT.ExpirationHrs)
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if c.Quiz.ChoicesPerQuiz < 0 {
		return fmt.Errorf("quiz.choicesPerQuiz must not be negative, got %d", c.Quiz.ChoicesPerQuiz)
	}
	return nil
}
