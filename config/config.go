package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration. Values come from defaults, then
// an optional YAML file pointed at by CONFIG_FILE, then environment variables.
type Config struct {
	StoreBackend string `yaml:"store_backend"`
	SQLitePath   string `yaml:"sqlite_path"`
	DatabaseURL  string `yaml:"database_url"`
	MongoURI     string `yaml:"mongo_uri"`
	MongoDB      string `yaml:"mongo_db"`
	UploadDir    string `yaml:"upload_dir"`
	OutputDir    string `yaml:"output_dir"`
	ListenAddr   string `yaml:"listen_addr"`
}

// Load reads .env (if present), the optional YAML config file, and environment
// variables, and returns the resulting configuration.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	cfg := Config{
		StoreBackend: "sqlite",
		SQLitePath:   "supply.db",
		MongoURI:     "mongodb://localhost:27017/",
		MongoDB:      "SupplyDB",
		UploadDir:    "uploads",
		OutputDir:    "forecast_outputs",
		ListenAddr:   ":3000",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Unable to read config file %s: %v", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Unable to parse config file %s: %v", path, err)
		}
	}

	overrideFromEnv(&cfg.StoreBackend, "STORE_BACKEND")
	overrideFromEnv(&cfg.SQLitePath, "SQLITE_PATH")
	overrideFromEnv(&cfg.DatabaseURL, "DATABASE_URL")
	overrideFromEnv(&cfg.MongoURI, "MONGO_URI")
	overrideFromEnv(&cfg.MongoDB, "MONGO_DB")
	overrideFromEnv(&cfg.UploadDir, "UPLOAD_DIR")
	overrideFromEnv(&cfg.OutputDir, "OUTPUT_DIR")
	overrideFromEnv(&cfg.ListenAddr, "LISTEN_ADDR")

	return cfg
}

func overrideFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
