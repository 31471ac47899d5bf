package evidence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"census-app-go/internal/domain/access"
	"census-app-go/internal/domain/schedule"
	"census-app-go/internal/domain/user"
	"census-app-go/internal/domain/validation"
)

const (
	commentMaxLength     = 1000
	DefaultMaxPhotoBytes = 5 * 1024 * 1024
)

type PhotoStore interface {
	Put(ctx context.Context, key string, content io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
}

type Users interface {
	Get(ctx context.Context, id int64) (*user.User, error)
}

type Schedules interface {
	ListForUser(ctx context.Context, userID int64) ([]schedule.Overview, error)
}

type Metrics interface {
	EvidenceSubmitted(status string)
	PhotoStored(bytes int64)
}

type noopMetrics struct{}

func (noopMetrics) EvidenceSubmitted(string) {}

func (noopMetrics) PhotoStored(int64) {}

type Options struct {
	MaxPhotoBytes int64
	Resolver      URLResolver
	Metrics       Metrics
	Now           func() time.Time
}

type Service struct {
	repo          Repository
	photos        PhotoStore
	users         Users
	schedules     Schedules
	maxPhotoBytes int64
	resolver      URLResolver
	metrics       Metrics
	now           func() time.Time
}

func NewService(repo Repository, photos PhotoStore, users Users, schedules Schedules, opts Options) *Service {
	if opts.MaxPhotoBytes <= 0 {
		opts.MaxPhotoBytes = DefaultMaxPhotoBytes
	}
	if opts.Metrics == nil {
		opts.Metrics = noopMetrics{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:          repo,
		photos:        photos,
		users:         users,
		schedules:     schedules,
		maxPhotoBytes: opts.MaxPhotoBytes,
		resolver:      opts.Resolver,
		metrics:       opts.Metrics,
		now:           opts.Now,
	}
}

// Submit appends an evidence entry for a record of one of the actor's own schedules.
// The photo is stored before the row is inserted and removed again if the insert fails.
func (s *Service) Submit(ctx context.Context, actor access.Actor, input SubmitInput) (*Entry, error) {
	input.Status = strings.TrimSpace(input.Status)
	input.Comment = strings.TrimSpace(input.Comment)
	if err := s.validateFormat(input); err != nil {
		return nil, err
	}

	var (
		entry     Entry
		storedKey string
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		sched, err := tx.GetScheduleForUser(ctx, input.ScheduleID, actor.ID)
		if err != nil {
			return err
		}
		record, err := tx.LockRecord(ctx, input.CensusRecordID)
		if err != nil {
			return err
		}
		explicit, err := tx.ExplicitRecordIDs(ctx, sched.ID)
		if err != nil {
			return err
		}
		if !schedule.PoolFor(*sched, explicit).Contains(*record) {
			return ErrRecordOutsideSchedule
		}

		if err := statusRules(input); err != nil {
			return err
		}

		entry = Entry{
			ScheduleID:     sched.ID,
			CensusRecordID: record.ID,
			Completed:      input.Status == StatusCompleted,
			Status:         input.Status,
		}
		if input.Comment != "" {
			comment := input.Comment
			entry.Comment = &comment
		}

		if input.Photo != nil {
			key := NewPhotoKey(input.Photo.Extension(), s.now())
			if err := s.photos.Put(ctx, key, input.Photo.Content, input.Photo.ContentType()); err != nil {
				return fmt.Errorf("store evidence photo: %w", err)
			}
			storedKey = key
			entry.PhotoRef = &key
		}

		return tx.Create(ctx, &entry)
	})
	if err != nil {
		if storedKey != "" {
			if cleanupErr := s.photos.Delete(context.WithoutCancel(ctx), storedKey); cleanupErr != nil {
				err = errors.Join(err, fmt.Errorf("remove orphan photo %s: %w", storedKey, cleanupErr))
			}
		}
		return nil, err
	}

	s.metrics.EvidenceSubmitted(entry.Status)
	if input.Photo != nil {
		s.metrics.PhotoStored(input.Photo.Size)
	}
	return &entry, nil
}

func (s *Service) validateFormat(input SubmitInput) error {
	errs := validation.Errors{}
	if input.ScheduleID <= 0 {
		errs.Add("schedule_id", "is required")
	}
	if input.CensusRecordID <= 0 {
		errs.Add("census_record_id", "is required")
	}
	if !ValidStatus(input.Status) {
		errs.Add("status", "must be one of completado, no_completado, no_encontrado")
	}
	if utf8.RuneCountInString(input.Comment) > commentMaxLength {
		errs.Add("comment", fmt.Sprintf("must be at most %d characters", commentMaxLength))
	}
	if input.Photo != nil {
		if input.Photo.ContentType() == "" {
			errs.Add("photo", "must be a jpg, jpeg, png or webp image")
		} else if input.Photo.Size > s.maxPhotoBytes {
			errs.Add("photo", fmt.Sprintf("must be at most %d KB", s.maxPhotoBytes/1024))
		}
	}
	return errs.Err()
}

func statusRules(input SubmitInput) error {
	switch input.Status {
	case StatusCompleted:
		if input.Photo == nil {
			return validation.Field("photo", "is required when the visit is completed")
		}
	case StatusNotFound:
		if input.Comment == "" {
			return validation.Field("comment", "is required when the record was not found")
		}
	}
	return nil
}

// Board returns the target user's schedules with every pool record and its latest evidence.
// targetID zero means the actor's own board.
func (s *Service) Board(ctx context.Context, actor access.Actor, targetID int64) (*Board, error) {
	if targetID == 0 {
		targetID = actor.ID
	}
	target, err := s.users.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := access.CanViewEvidenceOf(actor, target.Subject()); err != nil {
		return nil, err
	}

	overviews, err := s.schedules.ListForUser(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(overviews))
	for _, overview := range overviews {
		ids = append(ids, overview.ID)
	}
	latest := map[int64]map[int64]Entry{}
	if len(ids) > 0 {
		latest, err = s.repo.LatestBySchedule(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	board := &Board{
		TargetUser:   *target,
		ViewingOther: target.ID != actor.ID,
		Schedules:    make([]BoardSchedule, 0, len(overviews)),
	}
	for _, overview := range overviews {
		records := make([]schedule.RecordRef, 0, overview.Progress.Total)
		records = append(records, overview.Progress.CompletedList...)
		records = append(records, overview.Progress.PendingList...)
		schedule.SortByName(records)

		items := make([]BoardItem, 0, len(records))
		for _, record := range records {
			item := BoardItem{Record: record}
			if entry, ok := latest[overview.ID][record.ID]; ok {
				item.Latest = &entry
				if entry.PhotoRef != nil {
					item.PhotoURL = s.resolver.Resolve(*entry.PhotoRef)
				}
			}
			items = append(items, item)
		}
		board.Schedules = append(board.Schedules, BoardSchedule{Overview: overview, Items: items})
	}
	return board, nil
}

func (s *Service) PhotoURL(ref string) string {
	return s.resolver.Resolve(ref)
}
