package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ScannerConfig holds the sanitizer engine settings.
type ScannerConfig struct {
	// Rules is the list of validator kinds applied to every input
	// (e.g., br_cpf, br_cnpj, credit_card).
	Rules []string
	// Method selects the obfuscation strategy: HASH, MASK, VAULT, ANON
	// or PSEUDO.
	Method string
	// Salt feeds the HASH fingerprint. Defaults are insecure on purpose
	// so misconfiguration is visible in output.
	Salt string
	// SecretKey feeds the PSEUDO strategy (HMAC key).
	SecretKey string
	// MasterKey enables the reversible VAULT strategy and the reveal flow.
	MasterKey string
	// Honeytokens are planted values that trigger alerts when seen.
	Honeytokens []string
	// Flood protection tuning; zero picks engine defaults.
	CircuitThreshold     int
	CircuitResetAfterSec int
	SuspiciousMatchCount int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Scanner  ScannerConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Scanner: ScannerConfig{
			Rules:                getEnvList("OPAQUE_RULES", nil),
			Method:               getEnv("OPAQUE_METHOD", "HASH"),
			Salt:                 getEnv("OPAQUE_SALT", "default_insecure_salt_change_me"),
			SecretKey:            getEnv("OPAQUE_SECRET_KEY", "change_me_insecure_default"),
			MasterKey:            getEnv("OPAQUE_MASTER_KEY", ""),
			Honeytokens:          getEnvList("OPAQUE_HONEYTOKENS", nil),
			CircuitThreshold:     getEnvInt("OPAQUE_CIRCUIT_THRESHOLD", 0),
			CircuitResetAfterSec: getEnvInt("OPAQUE_CIRCUIT_RESET_SEC", 0),
			SuspiciousMatchCount: getEnvInt("OPAQUE_SUSPICIOUS_MATCHES", 0),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "opaque-reports"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList parses a comma-separated value, trimming whitespace and
// dropping empty entries.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
