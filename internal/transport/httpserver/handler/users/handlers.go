package users

import (
	statsdomain "census-app-go/internal/domain/stats"
	userdomain "census-app-go/internal/domain/user"
	"census-app-go/pkg/logger"
)

type Handlers struct {
	Users *userdomain.Service
	Stats *statsdomain.Service
	log   logger.Logger
}

func New(users *userdomain.Service, stats *statsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Users: users,
		Stats: stats,
		log:   log,
	}
}
