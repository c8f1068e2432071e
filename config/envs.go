package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Records backends.
const (
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

var ErrMissingEnv = errors.New("environment variable is not set")

// Config holds the application's configuration values.
type Config struct {
	HostIP          string         // Host IP for the server
	RESTPort        int            // Port for the REST API
	GameConfig      string         // Path of the JSON or YAML game configuration
	TickPeriod      time.Duration  // Autonomous tick period, zero for manual ticks
	RandomSpawn     bool           // Spawn players at a random road point
	StateFile       string         // Snapshot file, empty to disable persistence
	SaveStatePeriod *time.Duration // Simulated time between snapshots, nil to save only on shutdown
	RetirementTime  time.Duration  // Idle time before a player is retired, zero for the game config value
	RecordsBackend  string         // One of mongo, redis, sqlite
	DBHost          string         // Hostname or IP address for the database
	DBPort          int            // Port number for the database
	DBUser          string         // Username for the database
	DBPassword      string         // Password for the database
	DBName          string         // Name of the database
	DBPoolSize      int            // Connections kept for retired player writes
	RedisAddr       string         // Redis address for the leaderboard backend
	RedisPassword   string         // Redis password
	RedisKey        string         // Sorted set key of the leaderboard
	SQLitePath      string         // Database file for the sqlite backend
	GinMode         string         // Mode for the Gin framework (e.g., release, debug, test)
}

// MongoURI returns the connection string of the configured MongoDB server.
func (c Config) MongoURI() string {
	return fmt.Sprintf("mongodb://%s:%s@%s:%v", c.DBUser, c.DBPassword, c.DBHost, c.DBPort)
}

// Load reads the configuration from the environment, after loading a .env
// file if one is available.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}
	return fromEnv()
}

func fromEnv() (Config, error) {
	var (
		c   Config
		err error
	)

	if c.HostIP, err = mustGetEnv("HOST_IP"); err != nil {
		return Config{}, err
	}
	if c.RESTPort, err = mustGetEnvAsInt("REST_PORT"); err != nil {
		return Config{}, err
	}
	if c.GameConfig, err = mustGetEnv("GAME_CONFIG"); err != nil {
		return Config{}, err
	}
	if c.TickPeriod, err = getEnvAsDuration("TICK_PERIOD", 0); err != nil {
		return Config{}, err
	}
	if c.RandomSpawn, err = getEnvAsBool("RANDOMIZE_SPAWN", false); err != nil {
		return Config{}, err
	}
	if c.RetirementTime, err = getEnvAsDuration("RETIREMENT_TIME", 0); err != nil {
		return Config{}, err
	}
	if c.DBPoolSize, err = getEnvAsInt("DB_POOL_SIZE", 4); err != nil {
		return Config{}, err
	}
	if _, ok := os.LookupEnv("SAVE_STATE_PERIOD"); ok {
		d, err := getEnvAsDuration("SAVE_STATE_PERIOD", 0)
		if err != nil {
			return Config{}, err
		}
		c.SaveStatePeriod = &d
	}

	c.StateFile = getEnvWithDefault("STATE_FILE", "")
	c.GinMode = getEnvWithDefault("GIN_MODE", "release")
	c.RecordsBackend = getEnvWithDefault("RECORDS_BACKEND", BackendSQLite)

	switch c.RecordsBackend {
	case BackendMongo:
		if c.DBHost, err = mustGetEnv("DB_HOST"); err != nil {
			return Config{}, err
		}
		if c.DBPort, err = mustGetEnvAsInt("DB_PORT"); err != nil {
			return Config{}, err
		}
		if c.DBUser, err = mustGetEnv("DB_USER"); err != nil {
			return Config{}, err
		}
		if c.DBPassword, err = mustGetEnv("DB_PASS"); err != nil {
			return Config{}, err
		}
		if c.DBName, err = mustGetEnv("DB_NAME"); err != nil {
			return Config{}, err
		}
	case BackendRedis:
		if c.RedisAddr, err = mustGetEnv("REDIS_ADDR"); err != nil {
			return Config{}, err
		}
		c.RedisPassword = getEnvWithDefault("REDIS_PASSWORD", "")
		c.RedisKey = getEnvWithDefault("REDIS_KEY", "retired_players")
	case BackendSQLite:
		c.SQLitePath = getEnvWithDefault("SQLITE_PATH", "data/retired.sqlite")
	default:
		return Config{}, fmt.Errorf("RECORDS_BACKEND must be one of %s, %s, %s: got %q",
			BackendMongo, BackendRedis, BackendSQLite, c.RecordsBackend)
	}

	return c, nil
}

// mustGetEnv retrieves the value of an environment variable or fails if it is not set.
func mustGetEnv(key string) (string, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, key)
	}
	return value, nil
}

// mustGetEnvAsInt retrieves the value of an environment variable as an integer.
func mustGetEnvAsInt(key string) (int, error) {
	valueStr, err := mustGetEnv(key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be an integer: %w", key, err)
	}
	return value, nil
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	if _, exists := os.LookupEnv(key); !exists {
		return defaultValue, nil
	}
	return mustGetEnvAsInt(key)
}

// getEnvAsDuration accepts Go durations ("250ms") and plain milliseconds ("250").
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be a duration: %w", key, err)
	}
	return d, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("environment variable %s must be a boolean: %w", key, err)
	}
	return b, nil
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
