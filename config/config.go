package config

import "os"

type Config struct {
	Env       string
	HTTPPort  string
	Store     string // "mongo" or "memory"
	MongoURI  string
	MongoDB   string
	RedisAddr string
}

func Load() *Config {
	return &Config{
		Env:       getEnv("APP_ENV", "development"),
		HTTPPort:  getEnv("PORT", "8080"),
		Store:     getEnv("STORE", "mongo"),
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "spyroom"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
