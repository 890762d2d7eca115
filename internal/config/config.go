package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port               string
	Origin             string
	Environment        string
	AppURL             string
	JWTSecret          string
	JWTExpirationHours int
	Database           DatabaseConfig
	Storage            StorageConfig
	OpenAI             OpenAIConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// StorageConfig selects and configures the artifact storage backend.
// Backend is either "local" (files under MediaRoot) or "minio".
type StorageConfig struct {
	Backend   string
	MediaRoot string
	Minio     MinioConfig
}

// MinioConfig holds MinIO object storage connection details
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// OpenAIConfig holds the optional AI triage configuration. An empty APIKey
// disables AI predictions entirely.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// LoadConfig loads configuration from environment variables. All credentials
// (database password, JWT secret, MinIO keys, OpenAI key) come from the
// environment only; nothing is embedded in code.
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "radiology"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	jwtExpHours, err := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "12"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %w", err)
	}

	useSSL, err := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid MINIO_USE_SSL: %w", err)
	}

	storageConfig := StorageConfig{
		Backend:   getEnv("STORAGE_BACKEND", "local"),
		MediaRoot: getEnv("MEDIA_ROOT", "media"),
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "radiology-media"),
			Region:    getEnv("MINIO_REGION", ""),
			UseSSL:    useSSL,
		},
	}
	if storageConfig.Backend != "local" && storageConfig.Backend != "minio" {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q: must be local or minio", storageConfig.Backend)
	}

	openAIConfig := OpenAIConfig{
		APIKey: getEnv("OPENAI_API_KEY", ""),
		Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
	}

	// Return complete configuration
	return &Config{
		Port:               getEnv("PORT", "3001"),
		Origin:             getEnv("ORIGIN", "http://localhost:4200"),
		Environment:        getEnv("APP_ENV", "development"),
		AppURL:             getEnv("APP_URL", "http://localhost:3001"),
		JWTSecret:          jwtSecret,
		JWTExpirationHours: jwtExpHours,
		Database:           dbConfig,
		Storage:            storageConfig,
		OpenAI:             openAIConfig,
	}, nil
}

// TruncatedDSN returns the DSN shortened for diagnostics output, with the
// password removed. Used by the health endpoint on connection failure.
func (c *Config) TruncatedDSN() string {
	dsn := fmt.Sprintf("%s:***@tcp(%s:%s)/%s",
		c.Database.Username, c.Database.Host, c.Database.Port, c.Database.Name)
	if len(dsn) > 50 {
		return dsn[:50] + "..."
	}
	return dsn
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
