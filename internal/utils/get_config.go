package utils

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`

	// HTTP
	AppPort     string `yaml:"APP_PORT"`
	CORSOrigins string `yaml:"CORS_ORIGINS"`
	LogLevel    string `yaml:"LOG_LEVEL"`

	// Candidate source
	ScraperMode           string `yaml:"SCRAPER_MODE"`
	ScraperBaseURL        string `yaml:"SCRAPER_BASE_URL"`
	ScraperTimeoutSeconds string `yaml:"SCRAPER_TIMEOUT_SECONDS"`

	// Raw candidate archive
	ArchiveMode string `yaml:"ARCHIVE_MODE"`
	ArchiveDir  string `yaml:"ARCHIVE_DIR"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`
	NotifyEmail      string `yaml:"NOTIFY_EMAIL"`
}

var config = defaultConfig()

func defaultConfig() Config {
	return Config{
		DBHost:                "localhost",
		DBPort:                "5432",
		DBSSLMode:             "disable",
		AppPort:               "5000",
		CORSOrigins:           "http://localhost:5173",
		LogLevel:              "info",
		ScraperMode:           "mock",
		ScraperTimeoutSeconds: "20",
		ArchiveMode:           "none",
		ArchiveDir:            "./output/runs",
	}
}

// LoadConfigFrom reads the YAML file at path (if present) and then lets .env and
// the process environment override individual keys.
func LoadConfigFrom(path string) {
	config = defaultConfig()

	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using config file and system env")
	}

	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[config] error reading YAML file: %s\n", err)
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("[config] error parsing YAML file: %s\n", err)
	}

	for _, key := range configKeys {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			*fieldFor(key) = val
		}
	}
}

var configKeys = []string{
	"DB_USER", "DB_NAME", "DB_PASSWORD", "DB_PORT", "DB_HOST", "DB_SSLMODE",
	"APP_PORT", "CORS_ORIGINS", "LOG_LEVEL",
	"SCRAPER_MODE", "SCRAPER_BASE_URL", "SCRAPER_TIMEOUT_SECONDS",
	"ARCHIVE_MODE", "ARCHIVE_DIR",
	"AWS_S3_BUCKET", "AWS_S3_REGION", "AWS_ACCESS_KEY", "AWS_SECRET_KEY",
	"APP_URL", "SMTP_HOST", "SMTP_PORT", "SMTP_SENDER_NAME", "SMTP_AUTH_EMAIL", "SMTP_AUTH_PASSWORD",
	"NOTIFY_EMAIL",
}

func fieldFor(key string) *string {
	switch key {
	case "DB_USER":
		return &config.DBUser
	case "DB_NAME":
		return &config.DBName
	case "DB_PASSWORD":
		return &config.DBPassword
	case "DB_PORT":
		return &config.DBPort
	case "DB_HOST":
		return &config.DBHost
	case "DB_SSLMODE":
		return &config.DBSSLMode
	case "APP_PORT":
		return &config.AppPort
	case "CORS_ORIGINS":
		return &config.CORSOrigins
	case "LOG_LEVEL":
		return &config.LogLevel
	case "SCRAPER_MODE":
		return &config.ScraperMode
	case "SCRAPER_BASE_URL":
		return &config.ScraperBaseURL
	case "SCRAPER_TIMEOUT_SECONDS":
		return &config.ScraperTimeoutSeconds
	case "ARCHIVE_MODE":
		return &config.ArchiveMode
	case "ARCHIVE_DIR":
		return &config.ArchiveDir
	case "AWS_S3_BUCKET":
		return &config.AWSS3Bucket
	case "AWS_S3_REGION":
		return &config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return &config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return &config.AWSSecretKey
	case "APP_URL":
		return &config.AppURL
	case "SMTP_HOST":
		return &config.SMTPHost
	case "SMTP_PORT":
		return &config.SMTPPort
	case "SMTP_SENDER_NAME":
		return &config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return &config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return &config.SMTPAuthPassword
	case "NOTIFY_EMAIL":
		return &config.NotifyEmail
	default:
		return nil
	}
}

func GetConfig(key string) string {
	if field := fieldFor(key); field != nil {
		return *field
	}
	return ""
}
