package di

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"memoryvault/application/ports"
	"memoryvault/application/store"
	"memoryvault/infrastructure/config"
	"memoryvault/infrastructure/persistence/dynamodb"
	"memoryvault/infrastructure/persistence/memstore"
	"memoryvault/infrastructure/persistence/sqlite"
	"memoryvault/pkg/auth"
	"memoryvault/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	KV       ports.KeyValueStore
	Memories *store.MemoryStore
	Sessions *store.SessionStore
	Tokens   *auth.TokenManager
	Metrics  *observability.Metrics
}

// Close releases the container's resources
func (c *Container) Close() error {
	return c.KV.Close()
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideKeyValueStore creates the persistence driver selected by the
// configuration.
func ProvideKeyValueStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.KeyValueStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		kv, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("Using sqlite storage", zap.String("path", cfg.Storage.SQLitePath))
		return kv, nil
	case config.DriverDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Storage.AWSRegion),
		)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		client := awsdynamodb.NewFromConfig(awsCfg)
		logger.Info("Using dynamodb storage", zap.String("table", cfg.Storage.DynamoDBTable))
		return dynamodb.New(client, cfg.Storage.DynamoDBTable, logger), nil
	case config.DriverMemory:
		logger.Info("Using in-memory storage, state will not survive restarts")
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// ProvideMetrics creates the prometheus collectors
func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics()
}

// ProvideMemoryStore creates the memory store and wires the metrics
// collector as a mutation subscriber.
func ProvideMemoryStore(ctx context.Context, kv ports.KeyValueStore, metrics *observability.Metrics, logger *zap.Logger) (*store.MemoryStore, error) {
	memories, err := store.NewMemoryStore(ctx, kv, logger)
	if err != nil {
		return nil, err
	}
	memories.Subscribe(func(ev store.Event) {
		metrics.CountStoreEvent(string(ev.Type))
	})
	return memories, nil
}

// ProvideSessionStore creates the session store
func ProvideSessionStore(ctx context.Context, kv ports.KeyValueStore, logger *zap.Logger) (*store.SessionStore, error) {
	return store.NewSessionStore(ctx, kv, logger)
}

// ProvideTokenManager creates the session token manager
func ProvideTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
}
