package common

import (
	"context"

	userdomain "census-app-go/internal/domain/user"
	"census-app-go/internal/transport/httpserver/middleware"
	"census-app-go/pkg/logger"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	Users    *userdomain.Service
	Sessions *middleware.SessionAuth
	db       Pinger
	log      logger.Logger
}

func New(users *userdomain.Service, sessions *middleware.SessionAuth, db Pinger, log logger.Logger) *Handlers {
	return &Handlers{
		Users:    users,
		Sessions: sessions,
		db:       db,
		log:      log,
	}
}
