package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/beacon/internal/config"
	"github.com/UnknownOlympus/beacon/internal/repository"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// Type names a sink implementation.
type Type string

const (
	// TypeLog only logs updates.
	TypeLog Type = "log"
	// TypePostgres appends updates to the cab_locations table.
	TypePostgres Type = "postgres"
	// TypeRedis keeps the latest location per cab and publishes every update.
	TypeRedis Type = "redis"
	// TypeKafka produces every update to a topic.
	TypeKafka Type = "kafka"
	// TypeMQTT publishes every update to a broker.
	TypeMQTT Type = "mqtt"
	// TypeMinio archives every update as an object.
	TypeMinio Type = "minio"
)

// Config holds everything needed to build any sink type.
type Config struct {
	Type     Type
	CabID    string
	Database config.PostgresConfig
	Redis    config.RedisConfig
	Kafka    config.KafkaConfig
	MQTT     config.MQTTConfig
	Minio    config.MinioConfig
	Logger   *slog.Logger
}

const kafkaBatchTimeout = 10 * time.Millisecond

// ErrMissingSetting is returned when the selected sink type lacks a required setting.
var ErrMissingSetting = errors.New("missing sink setting")

// NewSink builds and connects the sink selected by cfg.Type.
// Sinks that hold connections implement Close; the caller owns that lifecycle.
func NewSink(ctx context.Context, cfg Config) (Sink, error) {
	if cfg.CabID == "" {
		return nil, fmt.Errorf("%w: cab id", ErrMissingSetting)
	}

	switch cfg.Type {
	case TypeLog:
		return NewLogSink(cfg.CabID, cfg.Logger), nil
	case TypePostgres:
		return newPostgresSink(ctx, cfg)
	case TypeRedis:
		return newRedisSink(ctx, cfg)
	case TypeKafka:
		return newKafkaSink(cfg)
	case TypeMQTT:
		return newMQTTSink(cfg)
	case TypeMinio:
		return newMinioSink(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported sink type: %s", cfg.Type)
	}
}

func newPostgresSink(ctx context.Context, cfg Config) (Sink, error) {
	dbc := cfg.Database
	if dbc.Host == "" || dbc.Name == "" {
		return nil, fmt.Errorf("%w: postgres host and database name are required", ErrMissingSetting)
	}

	pool, err := repository.NewDatabase(ctx, dbc.Host, dbc.Port, dbc.User, dbc.Password, dbc.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	repo := repository.NewRepository(pool, cfg.Logger)
	if err = repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	pgSink := NewPostgresSink(cfg.CabID, repo)
	pgSink.closeFn = func() error {
		pool.Close()
		return nil
	}

	return pgSink, nil
}

func newRedisSink(ctx context.Context, cfg Config) (Sink, error) {
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("%w: redis address is required", ErrMissingSetting)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisSink(cfg.CabID, client, cfg.Redis.TTL, cfg.Redis.Channel), nil
}

func newKafkaSink(cfg Config) (Sink, error) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.Topic == "" {
		return nil, fmt.Errorf("%w: kafka brokers and topic are required", ErrMissingSetting)
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Kafka.Brokers...),
		Topic:                  cfg.Kafka.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		// Every update is written synchronously on its own, so flush single-message batches at once.
		BatchSize:    1,
		BatchTimeout: kafkaBatchTimeout,
	}

	return NewKafkaSink(cfg.CabID, writer), nil
}

func newMQTTSink(cfg Config) (Sink, error) {
	if cfg.MQTT.Broker == "" || cfg.MQTT.Topic == "" {
		return nil, fmt.Errorf("%w: mqtt broker and topic are required", ErrMissingSetting)
	}

	opts := mqtt.NewClientOptions().AddBroker(cfg.MQTT.Broker).SetClientID(cfg.MQTT.ClientID)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to mqtt broker: %w", token.Error())
	}

	return NewMQTTSink(cfg.CabID, client, cfg.MQTT.Topic), nil
}

func newMinioSink(ctx context.Context, cfg Config) (Sink, error) {
	mc := cfg.Minio
	if mc.Endpoint == "" || mc.AccessKey == "" || mc.SecretKey == "" || mc.Bucket == "" {
		return nil, fmt.Errorf("%w: minio endpoint, credentials and bucket are required", ErrMissingSetting)
	}

	client, err := minio.New(mc.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(mc.AccessKey, mc.SecretKey, ""),
		Secure: mc.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, mc.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", mc.Bucket, err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, mc.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", mc.Bucket, err)
		}
		cfg.Logger.InfoContext(ctx, "Created location archive bucket", "bucket", mc.Bucket)
	}

	return NewMinioSink(cfg.CabID, client, mc.Bucket), nil
}
