// Package config reads server settings from the environment. main loads a
// .env file first, so values there behave like exported variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	AuthToken  = "token"
	AuthHeader = "header"

	AvatarLocal = "local"
	AvatarS3    = "s3"
)

type Config struct {
	Port string

	StoreDriver string
	MongoURI    string
	MongoDB     string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	AuthMode  string
	JWTSecret string
	TokenTTL  time.Duration

	UploadDir   string
	AvatarStore string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	RecipeAPIURL     string
	RecipeAPITimeout time.Duration
	RecipePageURL    string

	CORSOrigins        []string
	LegacyProfileRoute bool

	RateLimitPerMinute int
	RateLimitBurst     int
}

// Defaults mirror the local development setup the browser client expects.
func Defaults() Config {
	return Config{
		Port:               ":5001",
		StoreDriver:        StoreMongo,
		MongoURI:           "mongodb://localhost:27017",
		MongoDB:            "recipebox",
		CacheTTL:           5 * time.Minute,
		AuthMode:           AuthToken,
		TokenTTL:           24 * time.Hour,
		UploadDir:          "uploads",
		AvatarStore:        AvatarLocal,
		S3Region:           "us-east-1",
		RecipeAPIURL:       "https://forkify-api.jonas.io/api/v2/recipes",
		RecipeAPITimeout:   5 * time.Second,
		RecipePageURL:      "https://forkify-api.jonas.io/api/v2/recipes/%s",
		CORSOrigins:        []string{"http://127.0.0.1:5501", "http://localhost:5501", "http://localhost:5500", "http://127.0.0.1:5500"},
		RateLimitPerMinute: 30,
		RateLimitBurst:     5,
	}
}

// Load reads the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom overlays values returned by getenv on top of Defaults and validates
// the result.
func LoadFrom(getenv func(string) string) (*Config, error) {
	c := Defaults()
	var err error

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		v := strings.TrimSpace(getenv(key))
		if v == "" || err != nil {
			return
		}
		d, perr := time.ParseDuration(v)
		if perr != nil {
			err = fmt.Errorf("invalid %s %q: %w", key, v, perr)
			return
		}
		*dst = d
	}
	num := func(key string, dst *int) {
		v := strings.TrimSpace(getenv(key))
		if v == "" || err != nil {
			return
		}
		n, perr := strconv.Atoi(v)
		if perr != nil || n <= 0 {
			err = fmt.Errorf("invalid %s %q: must be a positive integer", key, v)
			return
		}
		*dst = n
	}

	str("PORT", &c.Port)
	if c.Port[0] != ':' && !strings.Contains(c.Port, ":") {
		c.Port = ":" + c.Port
	}
	str("STORE_DRIVER", &c.StoreDriver)
	str("MONGO_URI", &c.MongoURI)
	str("MONGO_DB", &c.MongoDB)
	str("POSTGRES_DSN", &c.PostgresDSN)
	str("REDIS_ADDR", &c.RedisAddr)
	str("REDIS_PASSWORD", &c.RedisPassword)
	dur("CACHE_TTL", &c.CacheTTL)
	str("AUTH_MODE", &c.AuthMode)
	str("JWT_SECRET", &c.JWTSecret)
	dur("TOKEN_TTL", &c.TokenTTL)
	str("UPLOAD_DIR", &c.UploadDir)
	str("AVATAR_STORE", &c.AvatarStore)
	str("S3_BUCKET", &c.S3Bucket)
	str("S3_REGION", &c.S3Region)
	str("S3_ENDPOINT", &c.S3Endpoint)
	str("S3_ACCESS_KEY", &c.S3AccessKey)
	str("S3_SECRET_KEY", &c.S3SecretKey)
	str("S3_PUBLIC_URL", &c.S3PublicURL)
	str("RECIPE_API_URL", &c.RecipeAPIURL)
	dur("RECIPE_API_TIMEOUT", &c.RecipeAPITimeout)
	str("RECIPE_PAGE_URL", &c.RecipePageURL)
	num("RATE_LIMIT_PER_MINUTE", &c.RateLimitPerMinute)
	num("RATE_LIMIT_BURST", &c.RateLimitBurst)

	if v := strings.TrimSpace(getenv("CORS_ORIGINS")); v != "" {
		c.CORSOrigins = splitList(v)
	}
	if v := strings.TrimSpace(getenv("LEGACY_PROFILE_ROUTE")); v != "" {
		b, perr := strconv.ParseBool(v)
		if perr != nil && err == nil {
			err = fmt.Errorf("invalid LEGACY_PROFILE_ROUTE %q: %w", v, perr)
		}
		c.LegacyProfileRoute = b
	}
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreMemory:
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("STORE_DRIVER=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.AuthMode {
	case AuthToken:
		if c.JWTSecret == "" {
			return fmt.Errorf("AUTH_MODE=token requires JWT_SECRET")
		}
	case AuthHeader:
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}

	switch c.AvatarStore {
	case AvatarLocal:
	case AvatarS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("AVATAR_STORE=s3 requires S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown AVATAR_STORE %q", c.AvatarStore)
	}

	if !strings.Contains(c.RecipePageURL, "%s") {
		return fmt.Errorf("RECIPE_PAGE_URL must contain a %%s placeholder for the recipe id")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
