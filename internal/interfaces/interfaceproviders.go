package interfaces

import (
	"github.com/google/wire"

	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver"
)

var InterfacesProvider = wire.NewSet(
	httpserver.NewHttpServer,
)
