//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"memoryvault/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideKeyValueStore,
	ProvideMetrics,
	ProvideMemoryStore,
	ProvideSessionStore,
	ProvideTokenManager,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer builds the dependency container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
