package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type (
	Config struct {
		Env          string
		AppName      string
		Build        string
		Debug        bool
		TestMode     bool
		RollbarToken string

		Server  ServerConfig
		Storage StorageConfig
		Tutor   TutorConfig
	}

	ServerConfig struct {
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	StorageConfig struct {
		Driver        string
		Key           string
		Dir           string
		MaxBytes      int
		RedisAddr     string
		RedisPassword string
		RedisDB       int
		PostgresURL   string
	}

	TutorConfig struct {
		APIKey  string
		Model   string
		Timeout time.Duration
	}
)

// NewConfig loads the app configuration from defaults, an optional `config/.env.<env>` file
// and the environment (prefixed by the uppercased env name, e.g. `DEV_TUTOR_APIKEY`).
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "Visual Minds")
	conf.SetDefault("build", "dev")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("server.address", "127.0.0.1:3000")
	conf.SetDefault("server.debugHost", "127.0.0.1:4000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("storage.driver", StorageFile)
	conf.SetDefault("storage.key", "visualminds_data_v1")
	conf.SetDefault("storage.dir", filepath.Join(Getwd(), "data"))
	conf.SetDefault("storage.maxBytes", 5*1024*1024) // browsers allow ~5MB per origin
	conf.SetDefault("storage.redisAddr", "localhost:6379")
	conf.SetDefault("storage.redisPassword", "")
	conf.SetDefault("storage.redisDB", 0)
	conf.SetDefault("storage.postgresURL", "postgres://postgres@localhost:5432/visualminds?sslmode=disable")
	conf.SetDefault("tutor.apiKey", "")
	conf.SetDefault("tutor.model", "gemini-2.0-flash")
	conf.SetDefault("tutor.timeout", 30*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	apiKey := conf.GetString("tutor.apiKey")
	if apiKey == "" {
		// the key is commonly shared with other Gemini tooling
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	return &Config{
		Env:          env,
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		RollbarToken: conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:         conf.GetString("server.address"),
			DebugHost:       conf.GetString("server.debugHost"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(conf.GetString("storage.driver")),
			Key:           conf.GetString("storage.key"),
			Dir:           conf.GetString("storage.dir"),
			MaxBytes:      conf.GetInt("storage.maxBytes"),
			RedisAddr:     conf.GetString("storage.redisAddr"),
			RedisPassword: conf.GetString("storage.redisPassword"),
			RedisDB:       conf.GetInt("storage.redisDB"),
			PostgresURL:   conf.GetString("storage.postgresURL"),
		},
		Tutor: TutorConfig{
			APIKey:  apiKey,
			Model:   conf.GetString("tutor.model"),
			Timeout: conf.GetDuration("tutor.timeout"),
		},
	}
}
