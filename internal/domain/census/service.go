package census

import (
	"context"
	"errors"
	"fmt"

	"census-app-go/internal/domain/access"
	"census-app-go/internal/domain/reference"
	"census-app-go/internal/domain/validation"
)

const codeAttempts = 3

// References resolves the zone, sector and type a record points at.
type References interface {
	GetZone(ctx context.Context, id int64) (*reference.Zone, error)
	GetSector(ctx context.Context, id int64) (*reference.Sector, error)
	GetCensusType(ctx context.Context, id int64) (*reference.CensusType, error)
}

type Metrics interface {
	RecordCreated(prefix string)
	CodeConflict(prefix string)
}

type noopMetrics struct{}

func (noopMetrics) RecordCreated(string) {}

func (noopMetrics) CodeConflict(string) {}

type Service struct {
	repo    Repository
	refs    References
	metrics Metrics
}

func NewService(repo Repository, refs References, metrics Metrics) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{repo: repo, refs: refs, metrics: metrics}
}

func (s *Service) Get(ctx context.Context, id int64) (*RecordView, error) {
	return s.repo.GetView(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]RecordView, Page, error) {
	filter = filter.normalized()
	records, total, err := s.repo.List(ctx, filter, filter.PerPage, filter.Offset())
	if err != nil {
		return nil, Page{}, err
	}
	return records, newPage(filter, total, len(records)), nil
}

// ListAll returns every record matching the filter, ignoring pagination.
func (s *Service) ListAll(ctx context.Context, filter ListFilter) ([]RecordView, error) {
	records, _, err := s.repo.List(ctx, filter, 0, 0)
	return records, err
}

func (s *Service) Create(ctx context.Context, actor access.Actor, input Input) (*Record, error) {
	if err := access.CanManage(actor); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &input, 0); err != nil {
		return nil, err
	}

	prefix := PrefixFor(input.CensusTypeID)
	for attempt := 0; attempt < codeAttempts; attempt++ {
		var record Record
		input.apply(&record)

		err := s.repo.Transaction(ctx, func(tx Repository) error {
			if err := tx.LockCodePrefix(ctx, prefix); err != nil {
				return err
			}
			codes, err := tx.ListCodesWithPrefix(ctx, prefix)
			if err != nil {
				return err
			}
			record.Code = NextCode(prefix, codes)
			return tx.Create(ctx, &record)
		})
		switch {
		case err == nil:
			s.metrics.RecordCreated(prefix)
			return &record, nil
		case errors.Is(err, ErrDuplicateCode):
			s.metrics.CodeConflict(prefix)
			continue
		default:
			return nil, translateDuplicate(err)
		}
	}

	return nil, validation.Field(FieldCode, "could not be generated, please retry")
}

// Update never touches Code, even when the census type changes.
func (s *Service) Update(ctx context.Context, actor access.Actor, id int64, input Input) (*Record, error) {
	if err := access.CanManage(actor); err != nil {
		return nil, err
	}
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &input, id); err != nil {
		return nil, err
	}

	input.apply(record)
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, translateDuplicate(err)
	}
	return record, nil
}

// Delete removes the record together with its evidence entries and explicit schedule assignments.
func (s *Service) Delete(ctx context.Context, actor access.Actor, id int64) error {
	if err := access.CanDelete(actor); err != nil {
		return err
	}
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.Get(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteDependents(ctx, id); err != nil {
			return fmt.Errorf("delete census record dependents: %w", err)
		}
		return tx.Delete(ctx, id)
	})
}

func (s *Service) validate(ctx context.Context, input *Input, exceptID int64) error {
	errs := RulesFor(input.CensusTypeID).apply(input)

	if err := s.validateReferences(ctx, input, errs); err != nil {
		return err
	}

	if !errs.Has(FieldNationalID) {
		taken, err := s.repo.NationalIDTaken(ctx, input.NationalID, exceptID)
		if err != nil {
			return err
		}
		if taken {
			errs.Add(FieldNationalID, "has already been registered")
		}
	}
	return errs.Err()
}

func (s *Service) validateReferences(ctx context.Context, input *Input, errs validation.Errors) error {
	if input.CensusTypeID <= 0 {
		errs.Add(FieldCensusTypeID, "is required")
	} else if _, err := s.refs.GetCensusType(ctx, input.CensusTypeID); err != nil {
		if !errors.Is(err, reference.ErrCensusTypeNotFound) {
			return err
		}
		errs.Add(FieldCensusTypeID, "does not exist")
	}

	zoneOK := false
	if input.ZoneID <= 0 {
		errs.Add(FieldZoneID, "is required")
	} else if _, err := s.refs.GetZone(ctx, input.ZoneID); err != nil {
		if !errors.Is(err, reference.ErrZoneNotFound) {
			return err
		}
		errs.Add(FieldZoneID, "does not exist")
	} else {
		zoneOK = true
	}

	if input.SectorID <= 0 {
		errs.Add(FieldSectorID, "is required")
		return nil
	}
	sector, err := s.refs.GetSector(ctx, input.SectorID)
	if err != nil {
		if !errors.Is(err, reference.ErrSectorNotFound) {
			return err
		}
		errs.Add(FieldSectorID, "does not exist")
		return nil
	}
	if zoneOK && sector.ZoneID != input.ZoneID {
		errs.Add(FieldSectorID, "does not belong to the selected zone")
	}
	return nil
}

func translateDuplicate(err error) error {
	switch {
	case errors.Is(err, ErrDuplicateNationalID):
		return validation.Field(FieldNationalID, "has already been registered")
	case errors.Is(err, ErrDuplicateCode):
		return validation.Field(FieldCode, "has already been taken")
	}
	return err
}
