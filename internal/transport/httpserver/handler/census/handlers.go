package census

import (
	censusdomain "census-app-go/internal/domain/census"
	referencedomain "census-app-go/internal/domain/reference"
	"census-app-go/pkg/logger"
)

type Handlers struct {
	Census     *censusdomain.Service
	References *referencedomain.Service
	log        logger.Logger
}

func New(census *censusdomain.Service, references *referencedomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Census:     census,
		References: references,
		log:        log,
	}
}
