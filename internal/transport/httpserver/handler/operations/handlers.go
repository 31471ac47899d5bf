package operations

import (
	"context"
	"io"

	evidencedomain "census-app-go/internal/domain/evidence"
	scheduledomain "census-app-go/internal/domain/schedule"
	"census-app-go/pkg/logger"
)

type PhotoOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type Handlers struct {
	Schedules     *scheduledomain.Service
	Evidence      *evidencedomain.Service
	photos        PhotoOpener
	maxPhotoBytes int64
	log           logger.Logger
}

func New(schedules *scheduledomain.Service, evidence *evidencedomain.Service, photos PhotoOpener, maxPhotoBytes int64, log logger.Logger) *Handlers {
	if maxPhotoBytes <= 0 {
		maxPhotoBytes = evidencedomain.DefaultMaxPhotoBytes
	}
	return &Handlers{
		Schedules:     schedules,
		Evidence:      evidence,
		photos:        photos,
		maxPhotoBytes: maxPhotoBytes,
		log:           log,
	}
}
