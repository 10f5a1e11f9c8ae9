package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvFile is the dotenv file read from the working directory.
const EnvFile = ".env"

// Environment variables that override file settings. They exist mainly for
// credentials that should not be committed with familytree.toml.
const (
	EnvMongoURI      = "FAMILYTREE_MONGO_URI"
	EnvMongoDatabase = "FAMILYTREE_MONGO_DATABASE"
	EnvRedisAddr     = "FAMILYTREE_REDIS_ADDR"
	EnvRedisPassword = "FAMILYTREE_REDIS_PASSWORD"
	EnvCacheBackend  = "FAMILYTREE_CACHE_BACKEND"
	EnvServerAddr    = "FAMILYTREE_SERVER_ADDR"
)

// LoadDotEnv loads path into the process environment. Variables already set
// are left alone. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overrides cfg with the FAMILYTREE_* variables that are set and
// validates the result.
func ApplyEnv(cfg *Config) error {
	overrides := []struct {
		env string
		dst *string
	}{
		{EnvMongoURI, &cfg.Mongo.URI},
		{EnvMongoDatabase, &cfg.Mongo.Database},
		{EnvRedisAddr, &cfg.Cache.Redis.Addr},
		{EnvRedisPassword, &cfg.Cache.Redis.Password},
		{EnvCacheBackend, &cfg.Cache.Backend},
		{EnvServerAddr, &cfg.Server.Addr},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok && v != "" {
			*o.dst = v
		}
	}
	return cfg.Validate()
}
