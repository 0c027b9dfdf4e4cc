// config/config.go
package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	Storage       StorageConfiguration
	Neo4j         Neo4jConfiguration
	Postgres      PostgresConfiguration
	Redis         RedisConfiguration
	Elasticsearch ElasticsearchConfiguration
	History       HistoryConfiguration
	Auth          AuthConfiguration
	RateLimit     RateLimitConfiguration
	Profile       ProfileConfiguration
	Seed          SeedConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port            string
	ShutdownTimeout time.Duration
}

// StorageConfiguration selects the grant store backend: neo4j, postgres or memory
type StorageConfiguration struct {
	Driver string
}

// Neo4jConfiguration stores data for the Neo4j connection
type Neo4jConfiguration struct {
	URI      string
	Username string
	Password string
}

// PostgresConfiguration stores data for the Postgres connection
type PostgresConfiguration struct {
	DSN string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	Enabled bool
	URL     string
	Index   string
}

// HistoryConfiguration controls where change history is read from
type HistoryConfiguration struct {
	Backend  string
	PageSize int
	// Timezone of the dates written to CSV exports
	Timezone string
}

type AuthConfiguration struct {
	JWTSecret string
}

type RateLimitConfiguration struct {
	Requests int
	Window   time.Duration
}

type ProfileConfiguration struct {
	LockTTL time.Duration
}

type SeedConfiguration struct {
	Enabled bool
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// Set default configurations
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdownTimeout", "5s")
	viper.SetDefault("storage.driver", "neo4j")
	viper.SetDefault("neo4j.uri", "bolt://localhost:7687")
	viper.SetDefault("postgres.dsn", "host=localhost user=postgres password=postgres dbname=accessledger port=5432 sslmode=disable")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.dialTimeout", "5s")
	viper.SetDefault("redis.readTimeout", "3s")
	viper.SetDefault("redis.writeTimeout", "3s")
	viper.SetDefault("redis.poolSize", 10)
	viper.SetDefault("elasticsearch.enabled", false)
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("elasticsearch.index", "permission-changes")
	viper.SetDefault("history.backend", "store")
	viper.SetDefault("history.pageSize", 200)
	viper.SetDefault("history.timezone", "Europe/Warsaw")
	viper.SetDefault("rateLimit.requests", 100)
	viper.SetDefault("rateLimit.window", "1m")
	viper.SetDefault("profile.lockTTL", "30s")
	viper.SetDefault("seed.enabled", false)
	viper.SetDefault("log.dir", "logging")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
