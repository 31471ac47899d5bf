package reference

import (
	"context"
	"errors"
	"time"

	"census-app-go/internal/domain/access"
	"census-app-go/internal/domain/validation"
)

const (
	nameMaxLength  = 100
	sectorCacheTTL = 5 * time.Minute
)

const nameTaken = "has already been taken"

type Service struct {
	repo  Repository
	cache SectorCache
}

func NewService(repo Repository, cache SectorCache) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache}
}

func (s *Service) ListZones(ctx context.Context) ([]ZoneSummary, error) {
	return s.repo.ListZones(ctx)
}

func (s *Service) GetZone(ctx context.Context, id int64) (*Zone, error) {
	return s.repo.GetZone(ctx, id)
}

func (s *Service) CreateZone(ctx context.Context, actor access.Actor, name string) (*Zone, error) {
	if err := access.CanManage(actor); err != nil {
		return nil, err
	}
	if err := s.validateZoneName(ctx, &name, 0); err != nil {
		return nil, err
	}

	zone := Zone{Name: name}
	if err := s.repo.CreateZone(ctx, &zone); err != nil {
		return nil, translateDuplicate(err)
	}
	return &zone, nil
}

func (s *Service) UpdateZone(ctx context.Context, actor access.Actor, id int64, name string) (*Zone, error) {
	if err := access.CanManage(actor); err != nil {
		return nil, err
	}
	zone, err := s.repo.GetZone(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateZoneName(ctx, &name, id); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateZoneName(ctx, id, name); err != nil {
		return nil, translateDuplicate(err)
	}
	zone.Name = name
	return zone, nil
}

func (s *Service) DeleteZone(ctx context.Context, actor access.Actor, id int64) error {
	if err := access.CanDelete(actor); err != nil {
		return err
	}
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetZone(ctx, id); err != nil {
			return err
		}
		count, err := tx.CountSectorsInZone(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrZoneHasSectors
		}
		refs, err := tx.CountZoneReferences(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return ErrZoneInUse
		}
		return tx.DeleteZone(ctx, id)
	})
}

func (s *Service) validateZoneName(ctx context.Context, name *string, exceptID int64) error {
	errs := validation.Errors{}
	errs.RequiredMax("name", name, nameMaxLength)
	if err := errs.Err(); err != nil {
		return err
	}

	taken, err := s.repo.ZoneNameTaken(ctx, *name, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return validation.Field("name", nameTaken)
	}
	return nil
}

func (s *Service) ListSectors(ctx context.Context) ([]SectorView, error) {
	return s.repo.ListSectors(ctx)
}

func (s *Service) GetSector(ctx context.Context, id int64) (*Sector, error) {
	return s.repo.GetSector(ctx, id)
}

// SectorsByZone returns sector id -> name for one zone.
func (s *Service) SectorsByZone(ctx context.Context, zoneID int64) (map[int64]string, error) {
	if cached, ok := s.cache.GetByZone(zoneID); ok {
		return cached, nil
	}

	sectors, err := s.repo.ListSectorsByZone(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	result := make(map[int64]string, len(sectors))
	for _, sector := range sectors {
		result[sector.ID] = sector.Name
	}
	s.cache.SetByZone(zoneID, result, sectorCacheTTL)
	return result, nil
}

type SectorInput struct {
	Name   string
	ZoneID int64
}

func (s *Service) CreateSector(ctx context.Context, actor access.Actor, input SectorInput) (*Sector, error) {
	if err := access.CanManage(actor); err != nil {
		return nil, err
	}
	if err := s.validateSector(ctx, &input); err != nil {
		return nil, err
	}

	sector := Sector{Name: input.Name, ZoneID: input.ZoneID}
	if err := s.repo.CreateSector(ctx, &sector); err != nil {
		return nil, err
	}
	s.cache.DeleteByZone(sector.ZoneID)
	return &sector, nil
}

// UpdateSector renames a sector or moves it to another zone. A sector that census records or
// schedules are located in keeps its zone, since those rows carry the zone id too.
func (s *Service) UpdateSector(ctx context.Context, actor access.Actor, id int64, input SectorInput) (*Sector, error) {
	if err := access.CanManage(actor); err != nil {
		return nil, err
	}
	if err := s.validateSector(ctx, &input); err != nil {
		return nil, err
	}

	var (
		sector       *Sector
		previousZone int64
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		sector, err = tx.GetSector(ctx, id)
		if err != nil {
			return err
		}
		previousZone = sector.ZoneID
		if input.ZoneID != previousZone {
			refs, err := tx.CountSectorReferences(ctx, id)
			if err != nil {
				return err
			}
			if refs > 0 {
				return ErrSectorInUse
			}
		}
		sector.Name = input.Name
		sector.ZoneID = input.ZoneID
		return tx.UpdateSector(ctx, sector)
	})
	if err != nil {
		return nil, err
	}
	s.cache.DeleteByZone(previousZone)
	s.cache.DeleteByZone(sector.ZoneID)
	return sector, nil
}

func (s *Service) DeleteSector(ctx context.Context, actor access.Actor, id int64) error {
	if err := access.CanDelete(actor); err != nil {
		return err
	}

	var zoneID int64
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		sector, err := tx.GetSector(ctx, id)
		if err != nil {
			return err
		}
		zoneID = sector.ZoneID

		refs, err := tx.CountSectorReferences(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return ErrSectorInUse
		}
		return tx.DeleteSector(ctx, id)
	})
	if err != nil {
		return err
	}
	s.cache.DeleteByZone(zoneID)
	return nil
}

func (s *Service) validateSector(ctx context.Context, input *SectorInput) error {
	errs := validation.Errors{}
	errs.RequiredMax("name", &input.Name, nameMaxLength)
	if input.ZoneID <= 0 {
		errs.Add("zone_id", "is required")
	} else if _, err := s.repo.GetZone(ctx, input.ZoneID); err != nil {
		if !errors.Is(err, ErrZoneNotFound) {
			return err
		}
		errs.Add("zone_id", "does not exist")
	}
	return errs.Err()
}

func (s *Service) ListCensusTypes(ctx context.Context) ([]CensusTypeSummary, error) {
	return s.repo.ListCensusTypes(ctx)
}

func (s *Service) GetCensusType(ctx context.Context, id int64) (*CensusType, error) {
	return s.repo.GetCensusType(ctx, id)
}

func (s *Service) CreateCensusType(ctx context.Context, actor access.Actor, name string) (*CensusType, error) {
	if err := access.CanManage(actor); err != nil {
		return nil, err
	}
	if err := s.validateCensusTypeName(ctx, &name, 0); err != nil {
		return nil, err
	}

	censusType := CensusType{Name: name}
	if err := s.repo.CreateCensusType(ctx, &censusType); err != nil {
		return nil, translateDuplicate(err)
	}
	return &censusType, nil
}

func (s *Service) UpdateCensusType(ctx context.Context, actor access.Actor, id int64, name string) (*CensusType, error) {
	if err := access.CanManage(actor); err != nil {
		return nil, err
	}
	censusType, err := s.repo.GetCensusType(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateCensusTypeName(ctx, &name, id); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCensusTypeName(ctx, id, name); err != nil {
		return nil, translateDuplicate(err)
	}
	censusType.Name = name
	return censusType, nil
}

func (s *Service) DeleteCensusType(ctx context.Context, actor access.Actor, id int64) error {
	if err := access.CanDelete(actor); err != nil {
		return err
	}
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetCensusType(ctx, id); err != nil {
			return err
		}
		count, err := tx.CountRecordsOfType(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrCensusTypeInUse
		}
		return tx.DeleteCensusType(ctx, id)
	})
}

func (s *Service) validateCensusTypeName(ctx context.Context, name *string, exceptID int64) error {
	errs := validation.Errors{}
	errs.RequiredMax("name", name, nameMaxLength)
	if err := errs.Err(); err != nil {
		return err
	}

	taken, err := s.repo.CensusTypeNameTaken(ctx, *name, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return validation.Field("name", nameTaken)
	}
	return nil
}

func translateDuplicate(err error) error {
	if errors.Is(err, ErrDuplicateZoneName) || errors.Is(err, ErrDuplicateCensusTypeName) {
		return validation.Field("name", nameTaken)
	}
	return err
}
