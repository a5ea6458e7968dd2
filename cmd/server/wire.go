//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/tahien663-cpu/chat-api/internal/domain"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure"
	"github.com/tahien663-cpu/chat-api/internal/interfaces"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		handlers.HandlerProvider,
		routes.RouteProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}

func CreateDataInitializer() (*DataInitializer, error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		wire.Struct(new(DataInitializer), "*"),
	)
	return nil, nil
}
