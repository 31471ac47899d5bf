package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"census-app-go/internal/domain/access"
	"census-app-go/internal/domain/reference"
	"census-app-go/internal/domain/user"
	"census-app-go/internal/domain/validation"
)

const descriptionMaxLength = 255

type References interface {
	GetZone(ctx context.Context, id int64) (*reference.Zone, error)
	GetSector(ctx context.Context, id int64) (*reference.Sector, error)
}

type Users interface {
	Get(ctx context.Context, id int64) (*user.User, error)
	ListAssignable(ctx context.Context) ([]user.User, error)
}

type Service struct {
	repo  Repository
	refs  References
	users Users
}

func NewService(repo Repository, refs References, users Users) *Service {
	return &Service{repo: repo, refs: refs, users: users}
}

type Index struct {
	Schedules []Overview
	Users     []user.User
}

// Index lists schedules newest first, each with its pool and freshly computed progress.
// Only admins see schedules owned by non field-worker users.
func (s *Service) Index(ctx context.Context, actor access.Actor) (*Index, error) {
	if err := access.CanManage(actor); err != nil {
		return nil, err
	}

	filter := ListFilter{}
	if !actor.IsAdmin() {
		filter.OwnerRole = access.RoleUser
	}
	views, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	overviews, err := s.Overviews(ctx, views)
	if err != nil {
		return nil, err
	}

	users, err := s.users.ListAssignable(ctx)
	if err != nil {
		return nil, err
	}
	return &Index{Schedules: overviews, Users: users}, nil
}

// ListForUser returns the schedules owned by userID with their pools and progress, newest first.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]Overview, error) {
	views, err := s.repo.List(ctx, ListFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	return s.Overviews(ctx, views)
}

func (s *Service) Overviews(ctx context.Context, views []View) ([]Overview, error) {
	if len(views) == 0 {
		return []Overview{}, nil
	}

	ids := make([]int64, 0, len(views))
	for _, view := range views {
		ids = append(ids, view.ID)
	}
	explicit, err := s.repo.ExplicitRecordIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	stamps, err := s.repo.ListEvidenceStamps(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]Overview, 0, len(views))
	for _, view := range views {
		pool := PoolFor(view.Schedule, explicit[view.ID])
		records, err := s.repo.ListRecordsInPool(ctx, pool)
		if err != nil {
			return nil, fmt.Errorf("schedule %d pool: %w", view.ID, err)
		}
		result = append(result, Overview{
			View:     view,
			Pool:     pool,
			Progress: ComputeProgress(records, stamps[view.ID]),
		})
	}
	return result, nil
}

func (s *Service) Create(ctx context.Context, actor access.Actor, input Input) (*Schedule, error) {
	if err := access.CanManage(actor); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, actor, &input); err != nil {
		return nil, err
	}

	var sched Schedule
	input.apply(&sched)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, &sched); err != nil {
			return err
		}
		return tx.ReplaceRecords(ctx, sched.ID, input.RecordIDs)
	})
	if err != nil {
		return nil, err
	}
	return &sched, nil
}

func (s *Service) Update(ctx context.Context, actor access.Actor, id int64, input Input) (*Schedule, error) {
	if err := access.CanManage(actor); err != nil {
		return nil, err
	}
	sched, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, actor, sched.UserID); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, actor, &input); err != nil {
		return nil, err
	}

	input.apply(sched)
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Update(ctx, sched); err != nil {
			return err
		}
		return tx.ReplaceRecords(ctx, sched.ID, input.RecordIDs)
	})
	if err != nil {
		return nil, err
	}
	return sched, nil
}

// Delete removes the schedule with its explicit assignments and evidence entries.
func (s *Service) Delete(ctx context.Context, actor access.Actor, id int64) error {
	if err := access.CanDelete(actor); err != nil {
		return err
	}
	sched, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkOwner(ctx, actor, sched.UserID); err != nil {
		return err
	}
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.DeleteDependents(ctx, id); err != nil {
			return fmt.Errorf("delete schedule dependents: %w", err)
		}
		return tx.Delete(ctx, id)
	})
}

func (s *Service) checkOwner(ctx context.Context, actor access.Actor, userID int64) error {
	owner, err := s.users.Get(ctx, userID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return access.CanAssignScheduleTo(actor, owner.Subject())
}

func (s *Service) validate(ctx context.Context, actor access.Actor, input *Input) error {
	errs := validation.Errors{}

	if input.UserID <= 0 {
		errs.Add("user_id", "is required")
	} else {
		owner, err := s.users.Get(ctx, input.UserID)
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			errs.Add("user_id", "does not exist")
		case err != nil:
			return err
		default:
			if err := access.CanAssignScheduleTo(actor, owner.Subject()); err != nil {
				return err
			}
		}
	}

	zoneOK := false
	if input.ZoneID <= 0 {
		errs.Add("zone_id", "is required")
	} else if _, err := s.refs.GetZone(ctx, input.ZoneID); err != nil {
		if !errors.Is(err, reference.ErrZoneNotFound) {
			return err
		}
		errs.Add("zone_id", "does not exist")
	} else {
		zoneOK = true
	}

	sectorOK := false
	if input.SectorID <= 0 {
		errs.Add("sector_id", "is required")
	} else if sector, err := s.refs.GetSector(ctx, input.SectorID); err != nil {
		if !errors.Is(err, reference.ErrSectorNotFound) {
			return err
		}
		errs.Add("sector_id", "does not exist")
	} else if zoneOK && sector.ZoneID != input.ZoneID {
		errs.Add("sector_id", "does not belong to the selected zone")
	} else {
		sectorOK = zoneOK
	}

	input.Days = errs.Weekdays("days", input.Days)
	errs.Required("start_time", input.StartTime)
	errs.Required("end_time", input.EndTime)
	if !errs.Has("start_time") && !errs.Has("end_time") {
		errs.ClockRange("start_time", &input.StartTime, "end_time", &input.EndTime)
	}

	input.Description = strings.TrimSpace(input.Description)
	errs.MaxLength("description", input.Description, descriptionMaxLength)

	input.RecordIDs = uniqueIDs(input.RecordIDs)
	if len(input.RecordIDs) > 0 && sectorOK {
		found, err := s.repo.CountRecordsInLocation(ctx, input.RecordIDs, input.ZoneID, input.SectorID)
		if err != nil {
			return err
		}
		if found != int64(len(input.RecordIDs)) {
			errs.Add("record_ids", "must reference census records in the selected zone and sector")
		}
	}

	return errs.Err()
}

func (i Input) apply(sched *Schedule) {
	sched.UserID = i.UserID
	sched.ZoneID = i.ZoneID
	sched.SectorID = i.SectorID
	sched.Days = i.Days
	sched.StartTime = i.StartTime
	sched.EndTime = i.EndTime
	sched.Description = nil
	if i.Description != "" {
		description := i.Description
		sched.Description = &description
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
