// Package config loads service settings from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreFile = "file"
	StoreS3   = "s3"
	StoreNone = "none"
)

type Config struct {
	Port              string
	Env               string
	CorsAllowedOrigin string
	CacheSize         int
	Store             StoreConfig
}

type StoreConfig struct {
	Backend string
	Dir     string
	S3      S3Config
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment without reading .env.
func FromEnv() *Config {
	return &Config{
		Port:              normalizePort(getEnv("PORT", "8080")),
		Env:               getEnv("APP_ENV", "local"),
		CorsAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		CacheSize:         getEnvInt("GRAPH_CACHE_SIZE", 256),
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("GRAPH_STORE", StoreFile)),
			Dir:     getEnv("GRAPH_STORE_DIR", "./.depscope"),
			S3: S3Config{
				Endpoint:  getEnv("GRAPH_S3_ENDPOINT", ""),
				Region:    getEnv("GRAPH_S3_REGION", "us-east-1"),
				AccessKey: getEnv("GRAPH_S3_ACCESS_KEY", ""),
				SecretKey: getEnv("GRAPH_S3_SECRET_KEY", ""),
				Bucket:    getEnv("GRAPH_S3_BUCKET", "depscope-graphs"),
				UseSSL:    getEnvBool("GRAPH_S3_USE_SSL", true),
			},
		},
	}
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func normalizePort(port string) string {
	return strings.TrimPrefix(port, ":")
}
