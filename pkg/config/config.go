package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Etcd      EtcdConfig      `mapstructure:"etcd"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MySQL     MySQLConfig     `mapstructure:"mysql"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	SQLite    SQLiteConfig    `mapstructure:"sqlite"`
	MongoDB   MongoDBConfig   `mapstructure:"mongodb"`
	Firestore FirestoreConfig `mapstructure:"firestore"`
	Firebase  FirebaseConfig  `mapstructure:"firebase"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Checkout  CheckoutConfig  `mapstructure:"checkout"`
	Session   SessionConfig   `mapstructure:"session"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Name string `mapstructure:"name"`
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// StoreConfig selects the key/value backend behind the persistent store.
// Driver is one of memory, redis, etcd, mysql, postgres, sqlite, mongodb,
// firestore or remote. Signal names the cross-tab change channel for
// drivers that carry none of their own: "redis", "etcd" or empty.
type StoreConfig struct {
	Driver        string `mapstructure:"driver"`
	Signal        string `mapstructure:"signal"`
	RemoteAddr    string `mapstructure:"remote_addr"`
	SignalChannel string `mapstructure:"signal_channel"`
}

type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Prefix      string        `mapstructure:"prefix"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type MongoDBConfig struct {
	URI             string `mapstructure:"uri"`
	Database        string `mapstructure:"database"`
	Collection      string `mapstructure:"collection"`
	AuditCollection string `mapstructure:"audit_collection"`
}

type FirestoreConfig struct {
	ProjectID  string `mapstructure:"project_id"`
	Collection string `mapstructure:"collection"`
}

type FirebaseConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

type GatewayConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type CheckoutConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Service string        `mapstructure:"service"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	// RestoreGrace is how long an anonymous report is tolerated before the
	// observer treats it as a real logout.
	RestoreGrace   time.Duration `mapstructure:"restore_grace"`
	LogoutRedirect time.Duration `mapstructure:"logout_redirect"`
}

type NotifyConfig struct {
	Dismiss time.Duration `mapstructure:"dismiss"`
	Fade    time.Duration `mapstructure:"fade"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.signal_channel", "fondant:storage")
	v.SetDefault("store.remote_addr", "localhost:50051")
	v.SetDefault("etcd.dial_timeout", 5*time.Second)
	v.SetDefault("etcd.prefix", "/fondant/")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("sqlite.path", "fondant.db")
	v.SetDefault("mongodb.collection", "storage")
	v.SetDefault("mongodb.audit_collection", "audit_logs")
	v.SetDefault("firestore.collection", "storage")
	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 8080)
	v.SetDefault("checkout.base_url", "http://localhost:8080")
	v.SetDefault("checkout.service", "fondant-gateway")
	v.SetDefault("checkout.timeout", 30*time.Second)
	v.SetDefault("session.restore_grace", time.Second)
	v.SetDefault("session.logout_redirect", 500*time.Millisecond)
	v.SetDefault("notify.dismiss", 3*time.Second)
	v.SetDefault("notify.fade", 300*time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stderr"})
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FONDANT")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

// Build creates the process logger described by the log section.
func (c *LogConfig) Build() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Level != "" {
		level, err := zap.ParseAtomicLevel(c.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
		}
		zc.Level = level
	}
	if c.Encoding != "" {
		zc.Encoding = c.Encoding
	}
	if len(c.OutputPaths) > 0 {
		zc.OutputPaths = c.OutputPaths
	}
	return zc.Build()
}
