package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendScylla = "scylla"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	AppEnv   string
	LogLevel string
	Port     string

	// STORE_BACKEND : scylla | memory
	StoreBackend string
	// CART_BACKEND : scylla | redis (ignoré si STORE_BACKEND=memory)
	CartBackend string

	Scylla  ScyllaConfig
	Redis   RedisConfig
	Elastic ElasticConfig
	MinIO   MinIOConfig

	JWTSecret     string
	JWTTTL        time.Duration
	SessionSecret string
	AdminEmails   []string
	// CSRFSecret vide = clé aléatoire à chaque démarrage.
	CSRFSecret  string
	CSRFOrigins []string

	CORSOrigins     []string
	APIRateLimit    int
	ShopConcurrency int
}

type ScyllaConfig struct {
	Hosts       []string
	Keyspace    string
	Username    string
	Password    string
	Consistency string
	Timeout     time.Duration
	NumConns    int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// ElasticConfig : URL vide = recherche par nom sans Elasticsearch.
type ElasticConfig struct {
	URL      string
	User     string
	Password string
	Index    string
}

// MinIOConfig : Endpoint vide = upload d'images désactivé.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load charge .env s'il existe puis lit l'environnement.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
	return FromEnv()
}

// FromEnv lit la configuration sans toucher au fichier .env.
func FromEnv() Config {
	return Config{
		AppEnv:       getEnv("APP_ENV", "dev"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "8080"),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendScylla)),
		CartBackend:  strings.ToLower(getEnv("CART_BACKEND", BackendScylla)),
		Scylla: ScyllaConfig{
			Hosts:       getEnvList("SCYLLA_HOSTS", []string{"127.0.0.1"}),
			Keyspace:    getEnv("SCYLLA_KEYSPACE", "storefront"),
			Username:    os.Getenv("SCYLLA_USERNAME"),
			Password:    os.Getenv("SCYLLA_PASSWORD"),
			Consistency: getEnv("SCYLLA_CONSISTENCY", "QUORUM"),
			Timeout:     getEnvDuration("SCYLLA_TIMEOUT", 5*time.Second),
			NumConns:    getEnvInt("SCYLLA_NUM_CONNS", 20),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Elastic: ElasticConfig{
			URL:      os.Getenv("ELASTIC_URL"),
			User:     os.Getenv("ELASTIC_USER"),
			Password: os.Getenv("ELASTIC_PASSWORD"),
			Index:    getEnv("ELASTIC_INDEX", "products"),
		},
		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "storefront-images"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTTTL:          getEnvDuration("JWT_TTL", 24*time.Hour),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		AdminEmails:     getEnvList("ADMIN_EMAILS", nil),
		CSRFSecret:      os.Getenv("CSRF_KEY"),
		CSRFOrigins:     getEnvList("CSRF_TRUSTED_ORIGINS", nil),
		CORSOrigins:     getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		APIRateLimit:    getEnvInt("API_RATE_LIMIT", 100),
		ShopConcurrency: getEnvInt("SHOP_CONCURRENCY", 10),
	}
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return d
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
