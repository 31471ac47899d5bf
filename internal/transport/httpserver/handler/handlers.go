package handler

import (
	"census-app-go/internal/transport/httpserver/handler/census"
	"census-app-go/internal/transport/httpserver/handler/common"
	"census-app-go/internal/transport/httpserver/handler/operations"
	"census-app-go/internal/transport/httpserver/handler/users"
)

type Handlers struct {
	Common     *common.Handlers
	Census     *census.Handlers
	Operations *operations.Handlers
	Users      *users.Handlers
}

func New(commonHandlers *common.Handlers, censusHandlers *census.Handlers, operationsHandlers *operations.Handlers, usersHandlers *users.Handlers) *Handlers {
	return &Handlers{
		Common:     commonHandlers,
		Census:     censusHandlers,
		Operations: operationsHandlers,
		Users:      usersHandlers,
	}
}
