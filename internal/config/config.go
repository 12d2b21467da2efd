package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Storage  StorageConfig
	Admin    AdminConfig
	Poll     PollConfig
}

var (
	ConfigInstance *Config
	once           sync.Once
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	URI             string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// AcquireTimeout bounds how long a request waits for a pooled
	// connection before failing with a pool-exhausted error.
	AcquireTimeout time.Duration
}

type RedisConfig struct {
	URL          string
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Enabled bool
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
	Enabled   bool
}

type AdminConfig struct {
	// KeyHash is a bcrypt hash of the admin key; login compares against it.
	KeyHash   string
	JWTSecret string
	JWTExpire time.Duration
}

type PollConfig struct {
	// Accepted year-of-birth range for user registration. The teen and
	// parent deployments run with different ranges.
	YearOfBirthMin  int
	YearOfBirthMax  int
	ResultsCacheTTL time.Duration
	DataDir         string
}

// LoadConfig reads configuration from the environment with sane defaults.
func LoadConfig() (*Config, error) {
	once.Do(func() {
		viper.SetDefault("POLL_HOST", "")
		viper.SetDefault("POLL_PORT", "8080")
		viper.SetDefault("POLL_READ_TIMEOUT", 30*time.Second)
		viper.SetDefault("POLL_WRITE_TIMEOUT", 30*time.Second)
		viper.SetDefault("POLL_IDLE_TIMEOUT", 60*time.Second)
		viper.SetDefault("POSTGRES_USER", "postgres")
		viper.SetDefault("POSTGRES_PASSWORD", "password")
		viper.SetDefault("POSTGRES_HOST", "localhost")
		viper.SetDefault("POSTGRES_PORT", "5432")
		viper.SetDefault("POSTGRES_DB", "postgres")
		viper.SetDefault("POSTGRES_SSLMODE", "disable")
		viper.SetDefault("DB_MAX_OPEN_CONNS", 10)
		viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
		viper.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
		viper.SetDefault("DB_ACQUIRE_TIMEOUT", 30*time.Second)
		viper.SetDefault("REDIS_URL", "redis://127.0.0.1:6379/0")
		viper.SetDefault("REDIS_MAX_RETRIES", 3)
		viper.SetDefault("REDIS_POOL_SIZE", 100)
		viper.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
		viper.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
		viper.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
		viper.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)
		viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
		viper.SetDefault("KAFKA_TOPIC", "poll.votes")
		viper.SetDefault("KAFKA_GROUP_ID", "poll-service-worker")
		viper.SetDefault("KAFKA_ENABLED", false)
		viper.SetDefault("MINIO_ENDPOINT", "localhost:9000")
		viper.SetDefault("MINIO_ACCESS_KEY", "")
		viper.SetDefault("MINIO_SECRET_KEY", "")
		viper.SetDefault("MINIO_BUCKET", "soundtracks")
		viper.SetDefault("MINIO_USE_SSL", false)
		viper.SetDefault("MINIO_URL_EXPIRY", time.Hour)
		viper.SetDefault("MINIO_ENABLED", false)
		viper.SetDefault("POLL_ADMIN_KEY_HASH", "")
		viper.SetDefault("POLL_JWT_SECRET", "secret")
		viper.SetDefault("POLL_JWT_EXPIRE", "24h")
		viper.SetDefault("POLL_YEAR_OF_BIRTH_MIN", 2005)
		viper.SetDefault("POLL_YEAR_OF_BIRTH_MAX", 2012)
		viper.SetDefault("POLL_RESULTS_CACHE_TTL", 10*time.Second)
		viper.SetDefault("POLL_DATA_DIR", "data")
		viper.AutomaticEnv()

		ConfigInstance = &Config{
			Server: ServerConfig{
				Host:         viper.GetString("POLL_HOST"),
				Port:         viper.GetString("POLL_PORT"),
				ReadTimeout:  viper.GetDuration("POLL_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("POLL_WRITE_TIMEOUT"),
				IdleTimeout:  viper.GetDuration("POLL_IDLE_TIMEOUT"),
			},
			Database: DatabaseConfig{
				URI:             viper.GetString("DATABASE_URL"),
				Host:            viper.GetString("POSTGRES_HOST"),
				Port:            viper.GetString("POSTGRES_PORT"),
				User:            viper.GetString("POSTGRES_USER"),
				Password:        viper.GetString("POSTGRES_PASSWORD"),
				DBName:          viper.GetString("POSTGRES_DB"),
				SSLMode:         viper.GetString("POSTGRES_SSLMODE"),
				MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
				MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
				ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
				AcquireTimeout:  viper.GetDuration("DB_ACQUIRE_TIMEOUT"),
			},
			Redis: RedisConfig{
				URL:          viper.GetString("REDIS_URL"),
				MaxRetries:   viper.GetInt("REDIS_MAX_RETRIES"),
				DialTimeout:  viper.GetDuration("REDIS_DIAL_TIMEOUT"),
				ReadTimeout:  viper.GetDuration("REDIS_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("REDIS_WRITE_TIMEOUT"),
				PoolSize:     viper.GetInt("REDIS_POOL_SIZE"),
				MinIdleConns: viper.GetInt("REDIS_MIN_IDLE_CONNS"),
			},
			Kafka: KafkaConfig{
				Brokers: viper.GetStringSlice("KAFKA_BROKERS"),
				Topic:   viper.GetString("KAFKA_TOPIC"),
				GroupID: viper.GetString("KAFKA_GROUP_ID"),
				Enabled: viper.GetBool("KAFKA_ENABLED"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("MINIO_ENDPOINT"),
				AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
				SecretKey: viper.GetString("MINIO_SECRET_KEY"),
				Bucket:    viper.GetString("MINIO_BUCKET"),
				UseSSL:    viper.GetBool("MINIO_USE_SSL"),
				URLExpiry: viper.GetDuration("MINIO_URL_EXPIRY"),
				Enabled:   viper.GetBool("MINIO_ENABLED"),
			},
			Admin: AdminConfig{
				KeyHash:   viper.GetString("POLL_ADMIN_KEY_HASH"),
				JWTSecret: viper.GetString("POLL_JWT_SECRET"),
				JWTExpire: viper.GetDuration("POLL_JWT_EXPIRE"),
			},
			Poll: PollConfig{
				YearOfBirthMin:  viper.GetInt("POLL_YEAR_OF_BIRTH_MIN"),
				YearOfBirthMax:  viper.GetInt("POLL_YEAR_OF_BIRTH_MAX"),
				ResultsCacheTTL: viper.GetDuration("POLL_RESULTS_CACHE_TTL"),
				DataDir:         viper.GetString("POLL_DATA_DIR"),
			},
		}
	})

	return ConfigInstance, nil
}
