package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"quotely/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Email     EmailConfig
	Company   CompanyConfig
	Numbering NumberingConfig
	Bootstrap BootstrapConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds settings for the bucket that archives sent documents.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CompanyConfig seeds the letterhead row on first start.
type CompanyConfig struct {
	Name     string `mapstructure:"name"`
	Tagline  string `mapstructure:"tagline"`
	Email    string `mapstructure:"email"`
	Phone    string `mapstructure:"phone"`
	Address  string `mapstructure:"address"`
	GSTIN    string `mapstructure:"gstin"`
	Currency string `mapstructure:"currency"`
}

// NumberingConfig controls document number sequences.
type NumberingConfig struct {
	Scope domain.NumberingScope `mapstructure:"scope"`
}

// BootstrapConfig holds the admin account created when no admin exists.
type BootstrapConfig struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	AdminName     string `mapstructure:"admin_name"`
}

// Load reads configuration from environment variables with the QUOTELY_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("QUOTELY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "quotely")
	v.SetDefault("db.password", "quotely_secret")
	v.SetDefault("db.name", "quotely_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "24h")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "quotely")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "quotely-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 604800)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@yourcompany.com")
	v.SetDefault("email.from_name", "Your Company Name")

	// Company letterhead defaults
	v.SetDefault("company.name", "Your Company Name")
	v.SetDefault("company.tagline", "")
	v.SetDefault("company.email", "info@yourcompany.com")
	v.SetDefault("company.phone", "+91 1234567890")
	v.SetDefault("company.address", "Your Company Address")
	v.SetDefault("company.gstin", "")
	v.SetDefault("company.currency", "Rs.")

	v.SetDefault("numbering.scope", string(domain.NumberingYearly))

	v.SetDefault("bootstrap.admin_email", "admin@company.com")
	v.SetDefault("bootstrap.admin_password", "")
	v.SetDefault("bootstrap.admin_name", "Admin User")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "QUOTELY_SERVER_PORT",
		"server.read_timeout":      "QUOTELY_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "QUOTELY_SERVER_WRITE_TIMEOUT",
		"server.environment":       "QUOTELY_SERVER_ENVIRONMENT",
		"db.host":                  "QUOTELY_DB_HOST",
		"db.port":                  "QUOTELY_DB_PORT",
		"db.user":                  "QUOTELY_DB_USER",
		"db.password":              "QUOTELY_DB_PASSWORD",
		"db.name":                  "QUOTELY_DB_NAME",
		"db.sslmode":               "QUOTELY_DB_SSLMODE",
		"db.max_open":              "QUOTELY_DB_MAX_OPEN",
		"db.max_idle":              "QUOTELY_DB_MAX_IDLE",
		"jwt.secret":               "QUOTELY_JWT_SECRET",
		"jwt.access_expiry":        "QUOTELY_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":       "QUOTELY_JWT_REFRESH_EXPIRY",
		"jwt.issuer":               "QUOTELY_JWT_ISSUER",
		"s3.region":                "QUOTELY_S3_REGION",
		"s3.bucket":                "QUOTELY_S3_BUCKET",
		"s3.endpoint":              "QUOTELY_S3_ENDPOINT",
		"s3.access_key":            "QUOTELY_S3_ACCESS_KEY",
		"s3.secret_key":            "QUOTELY_S3_SECRET_KEY",
		"s3.presign_expiry":        "QUOTELY_S3_PRESIGN_EXPIRY",
		"log.level":                "QUOTELY_LOG_LEVEL",
		"log.format":               "QUOTELY_LOG_FORMAT",
		"cors.allowed_origins":     "QUOTELY_CORS_ALLOWED_ORIGINS",
		"email.provider":           "QUOTELY_EMAIL_PROVIDER",
		"email.region":             "QUOTELY_EMAIL_REGION",
		"email.from_address":       "QUOTELY_EMAIL_FROM_ADDRESS",
		"email.from_name":          "QUOTELY_EMAIL_FROM_NAME",
		"company.name":             "QUOTELY_COMPANY_NAME",
		"company.tagline":          "QUOTELY_COMPANY_TAGLINE",
		"company.email":            "QUOTELY_COMPANY_EMAIL",
		"company.phone":            "QUOTELY_COMPANY_PHONE",
		"company.address":          "QUOTELY_COMPANY_ADDRESS",
		"company.gstin":            "QUOTELY_COMPANY_GSTIN",
		"company.currency":         "QUOTELY_COMPANY_CURRENCY",
		"numbering.scope":          "QUOTELY_NUMBERING_SCOPE",
		"bootstrap.admin_email":    "QUOTELY_BOOTSTRAP_ADMIN_EMAIL",
		"bootstrap.admin_password": "QUOTELY_BOOTSTRAP_ADMIN_PASSWORD",
		"bootstrap.admin_name":     "QUOTELY_BOOTSTRAP_ADMIN_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if QUOTELY_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("QUOTELY_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitOrigins(v.GetString("cors.allowed_origins")),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Company = CompanyConfig{
		Name:     v.GetString("company.name"),
		Tagline:  v.GetString("company.tagline"),
		Email:    v.GetString("company.email"),
		Phone:    v.GetString("company.phone"),
		Address:  v.GetString("company.address"),
		GSTIN:    v.GetString("company.gstin"),
		Currency: v.GetString("company.currency"),
	}

	scope := domain.NumberingScope(strings.ToLower(v.GetString("numbering.scope")))
	if scope != domain.NumberingYearly && scope != domain.NumberingLifetime {
		return nil, fmt.Errorf("invalid numbering scope %q: want yearly or lifetime", scope)
	}
	cfg.Numbering = NumberingConfig{Scope: scope}

	cfg.Bootstrap = BootstrapConfig{
		AdminEmail:    v.GetString("bootstrap.admin_email"),
		AdminPassword: v.GetString("bootstrap.admin_password"),
		AdminName:     v.GetString("bootstrap.admin_name"),
	}

	return cfg, nil
}

// splitOrigins parses a comma-separated origin list.
func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
