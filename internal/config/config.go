package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "corsair.cfg.json"

// GameConfig holds the rule constants the decision loop depends on.
type GameConfig struct {
	MapWidth        int `json:"mapWidth" mapstructure:"mapWidth"`
	MapHeight       int `json:"mapHeight" mapstructure:"mapHeight"`
	MaxTurns        int `json:"maxTurns" mapstructure:"maxTurns"`
	CooldownCannon  int `json:"cooldownCannon" mapstructure:"cooldownCannon"`
	InitialCooldown int `json:"initialCooldown" mapstructure:"initialCooldown"`
	FireDistanceMax int `json:"fireDistanceMax" mapstructure:"fireDistanceMax"`
	LeadRange       int `json:"leadRange" mapstructure:"leadRange"`
}

// Grid returns the configured map.
func (g GameConfig) Grid() hex.Grid {
	return hex.Grid{Width: g.MapWidth, Height: g.MapHeight}
}

// Idle modes.
const (
	IdleFixed  = "fixed"
	IdleWander = "wander"
)

// IdleConfig selects where ships go when there is nothing better to do.
// A negative X or Y means the grid centre.
type IdleConfig struct {
	Mode string `json:"mode" mapstructure:"mode"`
	X    int    `json:"x" mapstructure:"x"`
	Y    int    `json:"y" mapstructure:"y"`
}

// RandomConfig holds the generator seed pair.
type RandomConfig struct {
	Seed0 uint64
	Seed1 uint64
}

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds settings for the in-memory SQLite backend.
type SQLiteConfig struct {
	Path         string        `json:"path" mapstructure:"path"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// DBConfig holds Postgres connection settings.
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// DSN renders the settings as a libpq connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.Username, c.Password, c.Database)
}

// WebSocketConfig holds settings for the streaming backend.
type WebSocketConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// Storage backend types.
const (
	StorageNone      = "none"
	StorageMemory    = "memory"
	StorageSQLite    = "sqlite"
	StoragePostgres  = "postgres"
	StorageWebSocket = "websocket"
)

// StorageConfig selects and configures the match recorder.
type StorageConfig struct {
	Type      string
	Memory    MemoryConfig
	SQLite    SQLiteConfig
	Postgres  DBConfig
	WebSocket WebSocketConfig
}

// InfluxConfig holds InfluxDB metric sink settings.
type InfluxConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Protocol string
	Token    string
	Org      string
	Bucket   string
}

// URL returns the server address.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// APIConfig holds replay server settings. Exported match files are uploaded
// when Upload is set.
type APIConfig struct {
	ServerURL string
	APIKey    string
	Upload    bool
	Tag       string
}

// MonitorConfig holds status monitor settings.
type MonitorConfig struct {
	Enabled    bool
	Interval   time.Duration
	StatusFile string
}

// OTelConfig holds OpenTelemetry exporter settings.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. Environment variables
// prefixed with CORSAIR_ override file values (CORSAIR_GAME_MAXTURNS).
func Load(configDir string) error {
	setDefaults()

	viper.SetEnvPrefix("corsair")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("game.mapWidth", 23)
	viper.SetDefault("game.mapHeight", 21)
	viper.SetDefault("game.maxTurns", 200)
	viper.SetDefault("game.cooldownCannon", 2)
	viper.SetDefault("game.initialCooldown", 2)
	viper.SetDefault("game.fireDistanceMax", 10)
	viper.SetDefault("game.leadRange", 2)

	viper.SetDefault("idle.mode", IdleFixed)
	viper.SetDefault("idle.x", -1)
	viper.SetDefault("idle.y", -1)

	viper.SetDefault("random.seed0", "0xDEAD177EA71511")
	viper.SetDefault("random.seed1", "0x12340978ABCDCDAA")

	viper.SetDefault("storage.type", StorageNone)
	viper.SetDefault("storage.memory.outputDir", "./recordings")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "./recordings/corsair.db")
	viper.SetDefault("storage.sqlite.dumpInterval", "1m")
	viper.SetDefault("storage.websocket.url", "ws://localhost:5000/api/v1/stream")
	viper.SetDefault("storage.websocket.secret", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "corsair")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "corsair")
	viper.SetDefault("influx.bucket", "matches")

	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")
	viper.SetDefault("api.upload", false)
	viper.SetDefault("api.tag", "")

	viper.SetDefault("monitor.enabled", false)
	viper.SetDefault("monitor.interval", "1s")
	viper.SetDefault("monitor.statusFile", "./logs/status.json")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "corsair")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// LoadDefaults installs default values without reading a file.
func LoadDefaults() {
	setDefaults()
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetGameConfig returns the rule constants.
func GetGameConfig() GameConfig {
	return GameConfig{
		MapWidth:        viper.GetInt("game.mapWidth"),
		MapHeight:       viper.GetInt("game.mapHeight"),
		MaxTurns:        viper.GetInt("game.maxTurns"),
		CooldownCannon:  viper.GetInt("game.cooldownCannon"),
		InitialCooldown: viper.GetInt("game.initialCooldown"),
		FireDistanceMax: viper.GetInt("game.fireDistanceMax"),
		LeadRange:       viper.GetInt("game.leadRange"),
	}
}

// GetIdleConfig returns the idle destination policy.
func GetIdleConfig() IdleConfig {
	return IdleConfig{
		Mode: strings.ToLower(viper.GetString("idle.mode")),
		X:    viper.GetInt("idle.x"),
		Y:    viper.GetInt("idle.y"),
	}
}

// GetRandomConfig parses the seed pair. Seeds may be written in decimal or with a
// 0x prefix; JSON numbers cannot hold every 64-bit value, so strings are preferred.
func GetRandomConfig() (RandomConfig, error) {
	s0, err := parseSeed("random.seed0")
	if err != nil {
		return RandomConfig{}, err
	}
	s1, err := parseSeed("random.seed1")
	if err != nil {
		return RandomConfig{}, err
	}
	return RandomConfig{Seed0: s0, Seed1: s1}, nil
}

func parseSeed(key string) (uint64, error) {
	raw := strings.TrimSpace(viper.GetString(key))
	v, err := strconv.ParseUint(raw, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, raw, err)
	}
	return v, nil
}

// GetStorageConfig returns the recorder backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: strings.ToLower(viper.GetString("storage.type")),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		Postgres: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
		WebSocket: WebSocketConfig{
			URL:    viper.GetString("storage.websocket.url"),
			Secret: viper.GetString("storage.websocket.secret"),
		},
	}
}

// GetInfluxConfig returns the metric sink settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}

// GetAPIConfig returns the replay server settings.
func GetAPIConfig() APIConfig {
	return APIConfig{
		ServerURL: viper.GetString("api.serverUrl"),
		APIKey:    viper.GetString("api.apiKey"),
		Upload:    viper.GetBool("api.upload"),
		Tag:       viper.GetString("api.tag"),
	}
}

// GetMonitorConfig returns the status monitor settings.
func GetMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Enabled:    viper.GetBool("monitor.enabled"),
		Interval:   viper.GetDuration("monitor.interval"),
		StatusFile: viper.GetString("monitor.statusFile"),
	}
}

// GetOTelConfig returns the telemetry exporter settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}
