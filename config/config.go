package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultCSVName = "vehicles_us.csv"

	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
// Every field has a default, so the dashboard runs with no environment at all.
type Config struct {
	DataSource string
	CSVPath    string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresTable    string

	HTTPAddr    string
	ChartWidth  int
	ChartHeight int
	LogLevel    string
	MaxRetries  int

	SnapshotPath string
	ChromeBin    string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DataSource: strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		CSVPath:    getEnv("VEHICLES_CSV", defaultCSVPath()),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dashboard"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "dashboard"),
		PostgresDB:       getEnv("POSTGRES_DB", "vehicles_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTable:    getEnv("POSTGRES_TABLE", "vehicles"),

		HTTPAddr:    getEnv("HTTP_ADDR", ":8501"),
		ChartWidth:  getEnvInt("CHART_WIDTH", 1000),
		ChartHeight: getEnvInt("CHART_HEIGHT", 500),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MaxRetries:  getEnvInt("MAX_RETRIES", 3),

		SnapshotPath: getEnv("SNAPSHOT_PATH", ""),
		ChromeBin:    getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// defaultCSVPath places the dataset next to the running executable.
func defaultCSVPath() string {
	exe, err := os.Executable()
	if err != nil {
		return defaultCSVName
	}
	return filepath.Join(filepath.Dir(exe), defaultCSVName)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
