package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the location emitter service.
//
// Fields:
// - Env: The current environment (local, development, production).
// - Port: The port the HTTP server listens on (location API, health and metrics).
// - CabID: Identifier of the cab whose location is emitted.
// - SinkType: Which location sink receives the updates (log, postgres, redis, kafka, mqtt, minio).
// - Iterations: How many updates a single request emits.
// - Interval: Pause after every emitted update.
// - Database, Redis, Kafka, MQTT, Minio: Backend settings for the matching sink type.
type Config struct {
	Env        string
	Port       int
	CabID      string
	SinkType   string
	Iterations int
	Interval   time.Duration
	Database   PostgresConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	MQTT       MQTTConfig
	Minio      MinioConfig
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// RedisConfig describes the Redis (or Valkey) server holding the latest cab locations.
type RedisConfig struct {
	Addr    string        // Addr is host:port of the server.
	TTL     time.Duration // TTL is how long the latest location key lives.
	Channel string        // Channel receives every update as a published message.
}

// KafkaConfig describes where location events are produced.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// MQTTConfig describes the broker location updates are published to.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string // Topic is the prefix; the cab id is appended as the last level.
}

// MinioConfig describes the S3-compatible bucket that archives location updates.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// envBindings maps configuration keys to the environment variables that set them.
var envBindings = map[string]string{
	"env":                "BEACON_ENV",
	"port":               "BEACON_PORT",
	"cab_id":             "BEACON_CAB_ID",
	"sink.type":          "BEACON_SINK_TYPE",
	"emitter.iterations": "BEACON_ITERATIONS",
	"emitter.interval":   "BEACON_INTERVAL",
	"postgres.host":      "DB_HOST",
	"postgres.port":      "DB_PORT",
	"postgres.user":      "DB_USERNAME",
	"postgres.password":  "DB_PASSWORD",
	"postgres.db_name":   "DB_NAME",
	"redis.addr":         "REDIS_ADDR",
	"redis.ttl":          "REDIS_TTL",
	"redis.channel":      "REDIS_CHANNEL",
	"kafka.brokers":      "KAFKA_BROKERS",
	"kafka.topic":        "KAFKA_TOPIC",
	"mqtt.broker":        "MQTT_BROKER",
	"mqtt.client_id":     "MQTT_CLIENT_ID",
	"mqtt.topic":         "MQTT_TOPIC",
	"minio.endpoint":     "MINIO_ENDPOINT",
	"minio.access_key":   "MINIO_ACCESS_KEY",
	"minio.secret_key":   "MINIO_SECRET_KEY",
	"minio.use_ssl":      "MINIO_USE_SSL",
	"minio.bucket":       "MINIO_BUCKET",
}

// MustLoad reads the configuration from the environment (and a .env file, if any), optionally
// layered over a YAML file named by BEACON_CONFIG_PATH. It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	vpr := viper.New()
	setDefaults(vpr)
	for key, env := range envBindings {
		_ = vpr.BindEnv(key, env)
	}

	if path, ok := os.LookupEnv("BEACON_CONFIG_PATH"); ok && path != "" {
		vpr.SetConfigFile(path)
		if err := vpr.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	port, err := cast.ToIntE(vpr.Get("port"))
	if err != nil {
		panic("failed to parse port for http server from configuration")
	}

	iterations, err := cast.ToIntE(vpr.Get("emitter.iterations"))
	if err != nil || iterations <= 0 {
		panic("failed to parse iterations from configuration, must be a positive integer")
	}

	interval, err := cast.ToDurationE(vpr.Get("emitter.interval"))
	if err != nil || interval <= 0 {
		panic("failed to parse interval from configuration, must be a positive duration")
	}

	redisTTL, err := cast.ToDurationE(vpr.Get("redis.ttl"))
	if err != nil {
		panic("failed to parse redis ttl from configuration")
	}

	useSSL, err := cast.ToBoolE(vpr.Get("minio.use_ssl"))
	if err != nil {
		panic("failed to parse minio ssl flag from configuration")
	}

	return &Config{
		Env:        vpr.GetString("env"),
		Port:       port,
		CabID:      vpr.GetString("cab_id"),
		SinkType:   vpr.GetString("sink.type"),
		Iterations: iterations,
		Interval:   interval,
		Database: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Name:     vpr.GetString("postgres.db_name"),
		},
		Redis: RedisConfig{
			Addr:    vpr.GetString("redis.addr"),
			TTL:     redisTTL,
			Channel: vpr.GetString("redis.channel"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(vpr.Get("kafka.brokers")),
			Topic:   vpr.GetString("kafka.topic"),
		},
		MQTT: MQTTConfig{
			Broker:   vpr.GetString("mqtt.broker"),
			ClientID: vpr.GetString("mqtt.client_id"),
			Topic:    vpr.GetString("mqtt.topic"),
		},
		Minio: MinioConfig{
			Endpoint:  vpr.GetString("minio.endpoint"),
			AccessKey: vpr.GetString("minio.access_key"),
			SecretKey: vpr.GetString("minio.secret_key"),
			UseSSL:    useSSL,
			Bucket:    vpr.GetString("minio.bucket"),
		},
	}
}

func setDefaults(vpr *viper.Viper) {
	vpr.SetDefault("env", "production")
	vpr.SetDefault("port", 8080)
	vpr.SetDefault("cab_id", "cab-1")
	vpr.SetDefault("sink.type", "log")
	vpr.SetDefault("emitter.iterations", 100)
	vpr.SetDefault("emitter.interval", "1s")
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("redis.ttl", "24h")
	vpr.SetDefault("redis.channel", "cab-locations")
	vpr.SetDefault("kafka.topic", "cab-locations")
	vpr.SetDefault("mqtt.client_id", "beacon")
	vpr.SetDefault("mqtt.topic", "cabs/location")
	vpr.SetDefault("minio.use_ssl", false)
	vpr.SetDefault("minio.bucket", "cab-locations")
}

// splitList accepts either a YAML list or a comma separated string (as environment variables carry it).
func splitList(raw any) []string {
	if str, ok := raw.(string); ok {
		raw = strings.Split(str, ",")
	}

	var out []string
	for _, item := range cast.ToStringSlice(raw) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}
