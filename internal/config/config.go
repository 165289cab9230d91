package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port            int
	DBDSN           string
	RedisURL        string
	AllowOrigins    []string
	RateLimitPublic RateLimitConfig
	RateLimitAuth   RateLimitConfig
	Identity        IdentityConfig
	Storage         StorageConfig
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// IdentityConfig descreve o provedor externo de identidade.
type IdentityConfig struct {
	URL       string
	JWTSecret string
	APIKey    string
	CacheTTL  time.Duration
}

// StorageConfig seleciona o destino dos uploads.
type StorageConfig struct {
	Provider    string
	UploadDir   string
	PublicURL   string
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
	MaxUploadMB int64
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.DBDSN = getEnv("DB_DSN", "")
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN obrigatório")
	}

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL obrigatório")
	}

	cfg.Identity.URL = strings.TrimRight(strings.TrimSpace(getEnv("IDENTITY_URL", "")), "/")
	if cfg.Identity.URL == "" {
		return nil, errors.New("IDENTITY_URL obrigatório")
	}

	cfg.Identity.JWTSecret = strings.TrimSpace(getEnv("IDENTITY_JWT_SECRET", ""))
	if len(cfg.Identity.JWTSecret) < 32 {
		return nil, errors.New("IDENTITY_JWT_SECRET deve ter pelo menos 32 caracteres")
	}

	cfg.Identity.APIKey = strings.TrimSpace(getEnv("IDENTITY_API_KEY", ""))

	cacheTTL, err := parseDurationEnv("IDENTITY_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.Identity.CacheTTL = cacheTTL

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: 10, Burst: 20}
	cfg.RateLimitAuth = RateLimitConfig{RequestsPerSecond: 10, Burst: 40}

	cfg.Storage.Provider = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_PROVIDER", "local")))
	cfg.Storage.UploadDir = getEnv("UPLOAD_DIR", "./uploads")
	cfg.Storage.PublicURL = strings.TrimRight(getEnv("UPLOAD_PUBLIC_URL", "/files"), "/")
	cfg.Storage.S3Endpoint = getEnv("S3_ENDPOINT", "")
	cfg.Storage.S3Region = getEnv("S3_REGION", "auto")
	cfg.Storage.S3Bucket = getEnv("S3_BUCKET", "")
	cfg.Storage.S3AccessKey = getEnv("S3_ACCESS_KEY", "")
	cfg.Storage.S3SecretKey = getEnv("S3_SECRET_KEY", "")
	cfg.Storage.S3PublicURL = getEnv("S3_PUBLIC_URL", "")

	maxUpload, err := strconv.ParseInt(getEnv("UPLOAD_MAX_MB", "10"), 10, 64)
	if err != nil || maxUpload <= 0 {
		return nil, errors.New("UPLOAD_MAX_MB inválido")
	}
	cfg.Storage.MaxUploadMB = maxUpload

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
