package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server  ServerConfig
	App     AppConfig
	Discord DiscordConfig
	Store   StoreConfig
	Files   FilesConfig
	Cache   CacheConfig
	Catalog CatalogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"citadelle-cards-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
	LoginKey    string `envconfig:"LOGIN_KEY" default:""` // Admin endpoints login key
	Timezone    string `envconfig:"APP_TIMEZONE" default:"Europe/Paris"`
}

// DiscordConfig holds Discord OAuth2 settings.
type DiscordConfig struct {
	ClientID     string `envconfig:"DISCORD_CLIENT_ID" default:""`
	ClientSecret string `envconfig:"DISCORD_CLIENT_SECRET" default:""`
	RedirectURI  string `envconfig:"DISCORD_REDIRECT_URI" default:""`
}

// Configured reports whether the OAuth flow can run at all.
func (d *DiscordConfig) Configured() bool {
	return d.ClientID != "" && d.ClientSecret != "" && d.RedirectURI != ""
}

// StoreConfig holds tabular store settings.
type StoreConfig struct {
	Type string `envconfig:"STORE_TYPE" default:"sqlite"` // sheets, sqlite, mysql, or memory
	Path string `envconfig:"STORE_SQLITE_PATH" default:"./data/citadelle.db"`

	// Google Sheets settings
	SpreadsheetID      string `envconfig:"GOOGLE_SHEET_ID" default:""`
	ServiceAccountJSON string `envconfig:"SERVICE_ACCOUNT_JSON" default:""`

	// MySQL settings
	MySQLHost     string `envconfig:"STORE_MYSQL_HOST" default:"localhost"`
	MySQLPort     int    `envconfig:"STORE_MYSQL_PORT" default:"3306"`
	MySQLName     string `envconfig:"STORE_MYSQL_NAME" default:"citadelle"`
	MySQLUser     string `envconfig:"STORE_MYSQL_USER" default:"root"`
	MySQLPassword string `envconfig:"STORE_MYSQL_PASS" default:""`
}

// MySQLDSN returns the MySQL data source name.
func (s *StoreConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		s.MySQLUser, s.MySQLPassword, s.MySQLHost, s.MySQLPort, s.MySQLName)
}

// FilesConfig holds card image store settings.
type FilesConfig struct {
	Type      string `envconfig:"FILES_TYPE" default:"local"` // drive or local
	LocalRoot string `envconfig:"FILES_LOCAL_ROOT" default:"./data/cards"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Type     string        `envconfig:"CACHE_TYPE" default:"memory"` // memory or redis
	ImageTTL time.Duration `envconfig:"CACHE_IMAGE_TTL" default:"10m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// CatalogConfig maps each rarity tier to its source folder.
// For the drive file store these are Drive folder IDs; for the local
// store they are directory names under FILES_LOCAL_ROOT.
type CatalogConfig struct {
	SecretFolder     string `envconfig:"FOLDER_SECRET_ID" default:"Secret"`
	FounderFolder    string `envconfig:"FOLDER_FOUNDER_ID" default:"Founder"`
	HistoricalFolder string `envconfig:"FOLDER_HISTORICAL_ID" default:"Historical"`
	MasterFolder     string `envconfig:"FOLDER_MASTER_ID" default:"Master"`
	BlackHoleFolder  string `envconfig:"FOLDER_BLACKHOLE_ID" default:"BlackHole"`
	ArchitectsFolder string `envconfig:"FOLDER_ARCHITECTS_ID" default:"Architects"`
	TeachersFolder   string `envconfig:"FOLDER_TEACHERS_ID" default:"Teachers"`
	OtherFolder      string `envconfig:"FOLDER_OTHER_ID" default:"Other"`
	StudentsFolder   string `envconfig:"FOLDER_STUDENTS_ID" default:"Students"`
}

// Folders returns the category-to-folder mapping.
func (c *CatalogConfig) Folders() map[string]string {
	return map[string]string{
		"Secret":     c.SecretFolder,
		"Founder":    c.FounderFolder,
		"Historical": c.HistoricalFolder,
		"Master":     c.MasterFolder,
		"BlackHole":  c.BlackHoleFolder,
		"Architects": c.ArchitectsFolder,
		"Teachers":   c.TeachersFolder,
		"Other":      c.OtherFolder,
		"Students":   c.StudentsFolder,
	}
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
